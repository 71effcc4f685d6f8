package bet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/arena/internal/bet"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/testutil"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
)

func createMatch(t *testing.T, db *gorm.DB, a, b *user.User) *match.Match {
	t.Helper()
	m := match.New(match.SourceQueue, nil, 1, "mobile", "battle_royale", []match.MatchPlayer{
		{UserID: a.ID, Team: 1},
		{UserID: b.ID, Team: 2},
	})
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestPlaceDebitsWalletOnce(t *testing.T) {
	db := testutil.NewDB(t)
	svc := bet.NewBetService(db, testutil.Config(t))
	a, b := testutil.CreateUser(t, db, "a"), testutil.CreateUser(t, db, "b")
	testutil.Fund(t, db, a.ID, 1000)
	m := createMatch(t, db, a, b)

	placed, err := svc.Place(a.ID, m.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, 1, placed.Team)
	assert.Equal(t, bet.StatusActive, placed.Status)
	assert.Equal(t, int64(700), testutil.Balance(t, db, a.ID))

	_, err = svc.Place(a.ID, m.ID, 100)
	assert.Equal(t, 409, apperr.StatusCode(err))
	assert.Equal(t, int64(700), testutil.Balance(t, db, a.ID))

	var ledger []wallet.Transaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", a.ID, wallet.TxBet).Find(&ledger).Error)
	require.Len(t, ledger, 1)
	require.NotNil(t, ledger[0].BetID)
	assert.Equal(t, placed.ID, *ledger[0].BetID)

	got, err := svc.Get(a.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)

	mine, total, err := svc.ListMine(a.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, mine, 1)
}

func TestPlaceRejections(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config(t)
	svc := bet.NewBetService(db, cfg)
	a, b := testutil.CreateUser(t, db, "a"), testutil.CreateUser(t, db, "b")
	outsider := testutil.CreateUser(t, db, "c")
	testutil.Fund(t, db, outsider.ID, 1000)
	testutil.Fund(t, db, b.ID, 50)
	m := createMatch(t, db, a, b)

	_, err := svc.Place(a.ID, m.ID, cfg.Betting.MinAmount-1)
	assert.Equal(t, 400, apperr.StatusCode(err))
	_, err = svc.Place(a.ID, m.ID, cfg.Betting.MaxAmount+1)
	assert.Equal(t, 400, apperr.StatusCode(err))

	_, err = svc.Place(outsider.ID, m.ID, 100)
	assert.Equal(t, 403, apperr.StatusCode(err))

	_, err = svc.Place(b.ID, m.ID, 100)
	assert.Equal(t, 400, apperr.StatusCode(err), "insufficient balance")
	_, err = svc.Get(b.ID, m.ID)
	assert.Equal(t, 404, apperr.StatusCode(err), "bet row rolled back with the debit")
	assert.Equal(t, int64(50), testutil.Balance(t, db, b.ID))

	_, err = svc.Place(a.ID, 424242, 100)
	assert.Equal(t, 404, apperr.StatusCode(err))
}

func TestBettingClosesOnceMatchStarts(t *testing.T) {
	db := testutil.NewDB(t)
	svc := bet.NewBetService(db, testutil.Config(t))
	a, b := testutil.CreateUser(t, db, "a"), testutil.CreateUser(t, db, "b")
	testutil.Fund(t, db, a.ID, 1000)
	m := createMatch(t, db, a, b)
	require.NoError(t, match.NewGormMatchRepository(db).TransitionStatus(m.ID, match.StatusWaiting, match.StatusInProgress, nil))

	_, err := svc.Place(a.ID, m.ID, 100)
	assert.Equal(t, 409, apperr.StatusCode(err))
	assert.Equal(t, int64(1000), testutil.Balance(t, db, a.ID))
}

func TestSettlerPaysWinnersOnly(t *testing.T) {
	db := testutil.NewDB(t)
	svc := bet.NewBetService(db, testutil.Config(t))
	a, b := testutil.CreateUser(t, db, "a"), testutil.CreateUser(t, db, "b")
	testutil.Fund(t, db, a.ID, 100)
	testutil.Fund(t, db, b.ID, 100)
	m := createMatch(t, db, a, b)
	_, err := svc.Place(a.ID, m.ID, 40)
	require.NoError(t, err)
	_, err = svc.Place(b.ID, m.ID, 60)
	require.NoError(t, err)

	winner := 2
	m.WinnerTeam = &winner
	var settlements []match.Settlement
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		settlements, err = bet.NewSettler(3).Settle(tx, m)
		return err
	})
	require.NoError(t, err)
	require.Len(t, settlements, 2)

	assert.Equal(t, int64(60), testutil.Balance(t, db, a.ID))
	assert.Equal(t, int64(40+180), testutil.Balance(t, db, b.ID))

	// settled bets are not refunded afterwards
	err = db.Transaction(func(tx *gorm.DB) error {
		out, err := bet.NewSettler(3).Refund(tx, m.ID)
		assert.Empty(t, out)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60), testutil.Balance(t, db, a.ID))
}
