package notification

import (
	"github.com/DhavalSuthar-24/arena/internal/models"
	"gorm.io/gorm"
)

type Type string

const (
	TypeLobbyInvite      Type = "lobby_invite"
	TypeLobbyKicked      Type = "lobby_kicked"
	TypeLobbyClosed      Type = "lobby_closed"
	TypeMatchCreated     Type = "match_created"
	TypeMatchFound       Type = "match_found"
	TypeQueueExpired     Type = "matchmaking_expired"
	TypeRoomConfigured   Type = "room_configured"
	TypeResultSubmitted  Type = "result_submitted"
	TypeResultRejected   Type = "result_rejected"
	TypeMatchCompleted   Type = "match_completed"
	TypeMatchCanceled    Type = "match_canceled"
	TypeBetSettled       Type = "bet_settled"
	TypeFriendRequest    Type = "friend_request"
	TypeFriendAccepted   Type = "friend_accepted"
	TypePurchase         Type = "purchase"
	TypeBalanceAdjusted  Type = "balance_adjusted"
	TypeAccountModerated Type = "account_moderated"
)

type Notification struct {
	gorm.Model
	UserID  uint           `json:"user_id" gorm:"index;not null"`
	Type    Type           `json:"type" gorm:"size:40;not null"`
	Title   string         `json:"title" gorm:"not null"`
	Message string         `json:"message" gorm:"type:text"`
	Data    models.JSONMap `json:"data" gorm:"type:text"`
	Read    bool           `json:"read" gorm:"column:is_read;index;not null;default:false"`
}

// Message is what a caller wants delivered; one row is stored per recipient.
type Message struct {
	Type  Type
	Title string
	Body  string
	Data  models.JSONMap
}

// Event is the websocket frame.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
