// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/database"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/token"
	"github.com/DhavalSuthar-24/arena/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB opens a migrated sqlite database in the test's temp dir.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Register()

	path := filepath.Join(t.TempDir(), "arena.db")
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(path)), config.GormConfig("test"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Config returns the built-in defaults with uploads under a temp dir.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.App.Env = "test"
	cfg.App.UploadDir = t.TempDir()
	return cfg
}

// CreateUser inserts a player with a unique username derived from prefix.
func CreateUser(t *testing.T, db *gorm.DB, prefix string) *user.User {
	t.Helper()
	return createUser(t, db, prefix, user.RoleUser)
}

func CreateAdmin(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	return createUser(t, db, "admin", user.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, prefix, role string) *user.User {
	n := seq.Add(1)
	u := &user.User{
		Username: fmt.Sprintf("%s%d", prefix, n),
		Email:    fmt.Sprintf("%s%d@example.com", prefix, n),
		Password: "x",
		Role:     role,
		Rank:     user.RankFor(0),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Fund credits amount through the ledger so balances and history agree.
func Fund(t *testing.T, db *gorm.DB, userID uint, amount int64) {
	t.Helper()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := wallet.Credit(tx, wallet.Entry{UserID: userID, Amount: amount, Type: wallet.TxDeposit, Description: "test funding"})
		return err
	})
	require.NoError(t, err)
}

func Balance(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var u user.User
	require.NoError(t, db.First(&u, userID).Error)
	return u.Balance
}

// Token signs an access token for u with the config's secret.
func Token(t *testing.T, cfg *config.Config, u *user.User) string {
	t.Helper()
	tok, err := token.GenerateJWT(u.ID, u.Role, cfg.JWT.AccessTokenSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

// Notifier records messages instead of storing them.
type Notifier struct {
	mu   sync.Mutex
	Sent []Sent
}

type Sent struct {
	UserID uint
	Msg    notification.Message
}

func (n *Notifier) Notify(userID uint, msg notification.Message) {
	n.NotifyMany([]uint{userID}, msg)
}

func (n *Notifier) NotifyMany(userIDs []uint, msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range userIDs {
		n.Sent = append(n.Sent, Sent{UserID: id, Msg: msg})
	}
}

// Of returns the recipients of every message of type typ.
func (n *Notifier) Of(typ notification.Type) []uint {
	n.mu.Lock()
	defer n.mu.Unlock()
	var ids []uint
	for _, s := range n.Sent {
		if s.Msg.Type == typ {
			ids = append(ids, s.UserID)
		}
	}
	return ids
}
