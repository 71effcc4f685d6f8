package wallet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/arena/internal/testutil"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
)

func TestDepositAndWithdraw(t *testing.T) {
	db := testutil.NewDB(t)
	svc := wallet.NewWalletService(db, testutil.Config(t))
	u := testutil.CreateUser(t, db, "w")

	tx, err := svc.Deposit(u.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), tx.Amount)
	assert.Equal(t, int64(500), tx.BalanceAfter)

	tx, err = svc.Withdraw(u.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(-200), tx.Amount)
	assert.Equal(t, int64(300), tx.BalanceAfter)

	bal, err := svc.Balance(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), bal)

	list, total, err := svc.Transactions(u.ID, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, wallet.TxWithdraw, list[0].Type)

	_, total, err = svc.Transactions(u.ID, string(wallet.TxDeposit), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestWithdrawBeyondBalanceLeavesWalletUntouched(t *testing.T) {
	db := testutil.NewDB(t)
	svc := wallet.NewWalletService(db, testutil.Config(t))
	u := testutil.CreateUser(t, db, "w")
	testutil.Fund(t, db, u.ID, 100)

	_, err := svc.Withdraw(u.ID, 150)
	assert.Equal(t, 400, apperr.StatusCode(err))
	assert.Equal(t, int64(100), testutil.Balance(t, db, u.ID))

	var n int64
	require.NoError(t, db.Model(&wallet.Transaction{}).Where("user_id = ? AND type = ?", u.ID, wallet.TxWithdraw).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDepositLimits(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config(t)
	svc := wallet.NewWalletService(db, cfg)
	u := testutil.CreateUser(t, db, "w")

	_, err := svc.Deposit(u.ID, cfg.Wallet.MinDeposit-1)
	assert.Equal(t, 400, apperr.StatusCode(err))
	_, err = svc.Deposit(u.ID, cfg.Wallet.MaxDeposit+1)
	assert.Equal(t, 400, apperr.StatusCode(err))
	_, err = svc.Withdraw(u.ID, cfg.Wallet.MinWithdraw-1)
	assert.Equal(t, 400, apperr.StatusCode(err))
	_, err = svc.Deposit(999999, 100)
	assert.Equal(t, 404, apperr.StatusCode(err))
}

func TestAdjustIsSigned(t *testing.T) {
	db := testutil.NewDB(t)
	svc := wallet.NewWalletService(db, testutil.Config(t))
	u := testutil.CreateUser(t, db, "w")

	_, err := svc.Adjust(u.ID, 0, "")
	assert.Equal(t, 400, apperr.StatusCode(err))

	tx, err := svc.Adjust(u.ID, 70, "tournament prize")
	require.NoError(t, err)
	assert.Equal(t, "Admin adjustment: tournament prize", tx.Description)

	_, err = svc.Adjust(u.ID, -100, "")
	assert.Equal(t, 400, apperr.StatusCode(err))

	tx, err = svc.Adjust(u.ID, -20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(-20), tx.Amount)
	assert.Equal(t, int64(50), testutil.Balance(t, db, u.ID))
}
