package bet

import "gorm.io/gorm"

type Status string

const (
	StatusActive   Status = "active"
	StatusWon      Status = "won"
	StatusLost     Status = "lost"
	StatusRefunded Status = "refunded"
)

// Bet is a player's stake on their own team. One bet per user per match.
type Bet struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"uniqueIndex:idx_bet_user_match;not null"`
	MatchID uint   `json:"match_id" gorm:"uniqueIndex:idx_bet_user_match;index;not null"`
	Team    int    `json:"team" gorm:"not null"`
	Amount  int64  `json:"amount" gorm:"not null"`
	Status  Status `json:"status" gorm:"size:12;index;not null;default:active"`
	Payout  int64  `json:"payout"`
}

type PlaceBetRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0" example:"100"`
}
