package admin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/arena/internal/admin"
	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/matchmaking"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/testutil"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
)

func newService(t *testing.T) (*gorm.DB, *admin.AdminService, *testutil.Notifier) {
	db := testutil.NewDB(t)
	n := &testutil.Notifier{}
	return db, admin.NewAdminService(db, wallet.NewWalletService(db, testutil.Config(t)), n), n
}

func TestDashboardCounts(t *testing.T) {
	db, svc, _ := newService(t)
	testutil.CreateAdmin(t, db)
	owner := testutil.CreateUser(t, db, "owner")
	testutil.CreateUser(t, db, "other")

	cfg := testutil.Config(t)
	lobbies := lobby.NewLobbyService(db, cfg, &testutil.Notifier{}, matchmaking.NewMatchmakingService(db, cfg))
	_, err := lobbies.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.LobbyType("squad")})
	require.NoError(t, err)

	d, err := svc.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Users)
	assert.Equal(t, int64(1), d.ActiveLobbies)
	assert.Equal(t, int64(0), d.QueueSize)
	assert.Equal(t, int64(0), d.BetVolume)
	assert.Empty(t, d.MatchesByStatus)
}

func TestUsersSearch(t *testing.T) {
	db, svc, _ := newService(t)
	testutil.CreateUser(t, db, "alpha")
	testutil.CreateUser(t, db, "alpha")
	testutil.CreateUser(t, db, "beta")

	rows, total, err := svc.Users("alpha", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)
}

func TestSetRole(t *testing.T) {
	db, svc, _ := newService(t)
	a := testutil.CreateAdmin(t, db)
	u := testutil.CreateUser(t, db, "player")

	_, err := svc.SetRole(a.ID, a.ID, user.RoleUser)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	out, err := svc.SetRole(a.ID, u.ID, user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, out.Role)

	_, err = svc.SetRole(a.ID, 9999, user.RoleAdmin)
	assert.Equal(t, 404, apperr.StatusCode(err))
}

func TestBanRevokesRefreshTokens(t *testing.T) {
	db, svc, _ := newService(t)
	a := testutil.CreateAdmin(t, db)
	u := testutil.CreateUser(t, db, "cheater")
	require.NoError(t, db.Create(&user.RefreshToken{
		UserID:    u.ID,
		Token:     "refresh-" + u.Username,
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	_, err := svc.Ban(a.ID, a.ID, "nope")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	out, err := svc.Ban(a.ID, u.ID, "aimbot")
	require.NoError(t, err)
	assert.True(t, out.Banned)

	var stored user.User
	require.NoError(t, db.First(&stored, u.ID).Error)
	assert.True(t, stored.Banned)
	assert.Equal(t, "aimbot", stored.BanReason)

	var live int64
	require.NoError(t, db.Model(&user.RefreshToken{}).Where("user_id = ? AND revoked = ?", u.ID, false).Count(&live).Error)
	assert.Zero(t, live)
}

func TestUnbanNotifies(t *testing.T) {
	db, svc, n := newService(t)
	a := testutil.CreateAdmin(t, db)
	u := testutil.CreateUser(t, db, "reformed")
	_, err := svc.Ban(a.ID, u.ID, "spam")
	require.NoError(t, err)

	out, err := svc.Unban(u.ID)
	require.NoError(t, err)
	assert.False(t, out.Banned)
	assert.Equal(t, []uint{u.ID}, n.Of(notification.TypeAccountModerated))
}

func TestAdjustBalance(t *testing.T) {
	db, svc, n := newService(t)
	u := testutil.CreateUser(t, db, "rich")
	testutil.Fund(t, db, u.ID, 100)

	_, err := svc.AdjustBalance(u.ID, -500, "chargeback")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, int64(100), testutil.Balance(t, db, u.ID))
	assert.Empty(t, n.Of(notification.TypeBalanceAdjusted))

	tx, err := svc.AdjustBalance(u.ID, 250, "tournament prize")
	require.NoError(t, err)
	assert.Equal(t, int64(350), tx.BalanceAfter)
	assert.Equal(t, int64(350), testutil.Balance(t, db, u.ID))
	assert.Equal(t, []uint{u.ID}, n.Of(notification.TypeBalanceAdjusted))
}
