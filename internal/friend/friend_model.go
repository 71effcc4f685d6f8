package friend

import (
	"github.com/DhavalSuthar-24/arena/internal/user"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// FriendRequest doubles as the friendship once accepted.
type FriendRequest struct {
	gorm.Model
	SenderID   uint   `json:"sender_id" gorm:"index;not null"`
	ReceiverID uint   `json:"receiver_id" gorm:"index;not null"`
	Status     Status `json:"status" gorm:"size:10;index;not null;default:pending"`
}

// SendRequest identifies the receiver by id or by username.
type SendRequest struct {
	UserID   uint   `json:"userId" binding:"required_without=Username"`
	Username string `json:"username" binding:"required_without=UserID"`
}

type RequestView struct {
	FriendRequest
	Other user.PublicProfile `json:"user"`
}
