package wallet

import "gorm.io/gorm"

type TxType string

const (
	TxDeposit     TxType = "deposit"
	TxWithdraw    TxType = "withdraw"
	TxBet         TxType = "bet"
	TxBetPayout   TxType = "bet_payout"
	TxBetRefund   TxType = "bet_refund"
	TxPurchase    TxType = "purchase"
	TxAdminAdjust TxType = "admin_adjust"
)

// Transaction is one ledger line. Amount is signed: credits positive,
// debits negative. BalanceAfter is the user's balance right after it applied.
type Transaction struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"index;not null"`
	Type         TxType `json:"type" gorm:"size:20;index;not null"`
	Amount       int64  `json:"amount" gorm:"not null"`
	BalanceAfter int64  `json:"balance_after" gorm:"not null"`
	Reference    string `json:"reference" gorm:"uniqueIndex;size:64;not null"`
	Description  string `json:"description"`
	MatchID      *uint  `json:"match_id,omitempty" gorm:"index"`
	BetID        *uint  `json:"bet_id,omitempty" gorm:"index"`
}

// Entry describes a balance movement. Amount is always positive; the
// direction comes from Credit or Debit.
type Entry struct {
	UserID      uint
	Amount      int64
	Type        TxType
	Description string
	MatchID     *uint
	BetID       *uint
}

type AmountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0" example:"100"`
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}
