package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/arena/config"
)

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("MATCH_TIMER_SECONDS", "120")
	t.Setenv("BET_MAX", "500")
	t.Setenv("MATCHMAKING_WORKER_ENABLED", "false")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 2*time.Minute, cfg.MatchTimer())
	assert.Equal(t, int64(500), cfg.Betting.MaxAmount)
	assert.False(t, cfg.Matchmaking.WorkerEnabled)
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	t.Setenv("BET_MIN", "ten")
	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsNonPositiveMatchmakingTimings(t *testing.T) {
	for _, tc := range []struct{ key, value string }{
		{"MATCHMAKING_INTERVAL_SECONDS", "0"},
		{"MATCHMAKING_INTERVAL_SECONDS", "-5"},
		{"MATCHMAKING_QUEUE_TTL_MINUTES", "0"},
	} {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := config.LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 5*time.Minute, cfg.MatchTimer())
	assert.Equal(t, 10*time.Minute, cfg.QueueTTL())
	assert.Equal(t, int64(2), cfg.Betting.PayoutMultiplier)
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DB.Driver = "oracle"
	_, err := config.Dialector(*cfg)
	assert.Error(t, err)

	for _, d := range []string{"postgres", "mysql", "sqlite"} {
		cfg.DB.Driver = d
		dial, err := config.Dialector(*cfg)
		require.NoError(t, err)
		assert.Equal(t, d, dial.Name())
	}
}
