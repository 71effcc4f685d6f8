package wallet

import (
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credit adds e.Amount to the user's balance and records the ledger line.
// tx must be the caller's transaction.
func Credit(tx *gorm.DB, e Entry) (*Transaction, error) {
	if e.Amount <= 0 {
		return nil, apperr.Validation("Amount must be positive")
	}
	res := tx.Model(&user.User{}).
		Where("id = ?", e.UserID).
		UpdateColumn("balance", gorm.Expr("balance + ?", e.Amount))
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "credit balance")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("User not found")
	}
	return record(tx, e, e.Amount)
}

// Debit subtracts e.Amount only if the balance covers it.
func Debit(tx *gorm.DB, e Entry) (*Transaction, error) {
	if e.Amount <= 0 {
		return nil, apperr.Validation("Amount must be positive")
	}
	res := tx.Model(&user.User{}).
		Where("id = ? AND balance >= ?", e.UserID, e.Amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", e.Amount))
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "debit balance")
	}
	if res.RowsAffected == 0 {
		if _, err := balanceOf(tx, e.UserID); err != nil {
			return nil, err
		}
		return nil, apperr.Validation("Insufficient balance")
	}
	return record(tx, e, -e.Amount)
}

func record(tx *gorm.DB, e Entry, signed int64) (*Transaction, error) {
	after, err := balanceOf(tx, e.UserID)
	if err != nil {
		return nil, err
	}
	t := &Transaction{
		UserID:       e.UserID,
		Type:         e.Type,
		Amount:       signed,
		BalanceAfter: after,
		Reference:    uuid.NewString(),
		Description:  e.Description,
		MatchID:      e.MatchID,
		BetID:        e.BetID,
	}
	if err := tx.Create(t).Error; err != nil {
		return nil, apperr.Internal(err, "record transaction")
	}
	metrics.WalletOps.WithLabelValues(string(e.Type)).Inc()
	return t, nil
}

func balanceOf(tx *gorm.DB, userID uint) (int64, error) {
	var balances []int64
	if err := tx.Model(&user.User{}).Where("id = ?", userID).Limit(1).Pluck("balance", &balances).Error; err != nil {
		return 0, apperr.Internal(err, "read balance")
	}
	if len(balances) == 0 {
		return 0, apperr.NotFound("User not found")
	}
	return balances[0], nil
}
