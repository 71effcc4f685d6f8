package wallet

import (
	"fmt"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"gorm.io/gorm"
)

type WalletService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewWalletService(db *gorm.DB, cfg *config.Config) *WalletService {
	return &WalletService{db: db, cfg: cfg}
}

func (s *WalletService) Balance(userID uint) (int64, error) {
	return balanceOf(s.db, userID)
}

// Deposit credits the wallet directly; there is no payment provider behind it.
func (s *WalletService) Deposit(userID uint, amount int64) (*Transaction, error) {
	if amount < s.cfg.Wallet.MinDeposit || amount > s.cfg.Wallet.MaxDeposit {
		return nil, apperr.Validation(fmt.Sprintf("Deposit must be between %d and %d", s.cfg.Wallet.MinDeposit, s.cfg.Wallet.MaxDeposit))
	}
	var t *Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		t, err = Credit(tx, Entry{UserID: userID, Amount: amount, Type: TxDeposit, Description: "Wallet deposit"})
		return err
	})
	return t, err
}

func (s *WalletService) Withdraw(userID uint, amount int64) (*Transaction, error) {
	if amount < s.cfg.Wallet.MinWithdraw {
		return nil, apperr.Validation(fmt.Sprintf("Minimum withdrawal is %d", s.cfg.Wallet.MinWithdraw))
	}
	var t *Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		t, err = Debit(tx, Entry{UserID: userID, Amount: amount, Type: TxWithdraw, Description: "Wallet withdrawal"})
		return err
	})
	return t, err
}

// Adjust applies a signed admin correction.
func (s *WalletService) Adjust(userID uint, amount int64, reason string) (*Transaction, error) {
	if amount == 0 {
		return nil, apperr.Validation("Amount must not be zero")
	}
	desc := "Admin adjustment"
	if reason != "" {
		desc += ": " + reason
	}
	var t *Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if amount > 0 {
			t, err = Credit(tx, Entry{UserID: userID, Amount: amount, Type: TxAdminAdjust, Description: desc})
		} else {
			t, err = Debit(tx, Entry{UserID: userID, Amount: -amount, Type: TxAdminAdjust, Description: desc})
		}
		return err
	})
	return t, err
}

func (s *WalletService) Transactions(userID uint, txType string, page, pageSize int) ([]Transaction, int64, error) {
	var out []Transaction
	var total int64
	q := s.db.Model(&Transaction{}).Where("user_id = ?", userID)
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "count transactions")
	}
	if err := q.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&out).Error; err != nil {
		return nil, 0, apperr.Internal(err, "list transactions")
	}
	return out, total, nil
}
