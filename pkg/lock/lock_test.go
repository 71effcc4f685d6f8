package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/arena/pkg/lock"
)

func newRedisLocker(t *testing.T) (*lock.RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return lock.NewRedisLocker(rdb), mr
}

func TestRedisLockerExcludesSecondHolder(t *testing.T) {
	l, _ := newRedisLocker(t)
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "matchmaking:process", time.Minute)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "matchmaking:process", time.Minute)
	assert.ErrorIs(t, err, lock.ErrNotAcquired)

	require.NoError(t, unlock(ctx))

	again, err := l.TryLock(ctx, "matchmaking:process", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, again(ctx))
}

func TestRedisLockerReleasesOnlyItsOwnToken(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	first, err := l.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	second, err := l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, first(ctx), lock.ErrNotHeld)
	assert.True(t, mr.Exists("arena:lock:k"))

	require.NoError(t, second(ctx))
	assert.False(t, mr.Exists("arena:lock:k"))
}

func TestLocalLocker(t *testing.T) {
	l := lock.NewLocalLocker()
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, lock.ErrNotAcquired)

	_, err = l.TryLock(ctx, "other", time.Minute)
	assert.NoError(t, err)

	require.NoError(t, unlock(ctx))
	assert.ErrorIs(t, unlock(ctx), lock.ErrNotHeld)

	_, err = l.TryLock(ctx, "k", time.Minute)
	assert.NoError(t, err)
}

func TestLocalLockerLeaseExpires(t *testing.T) {
	l := lock.NewLocalLocker()
	ctx := context.Background()

	_, err := l.TryLock(ctx, "k", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	_, err = l.TryLock(ctx, "k", time.Minute)
	assert.NoError(t, err)
}
