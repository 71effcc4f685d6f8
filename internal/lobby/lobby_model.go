package lobby

import (
	"time"

	"gorm.io/gorm"
)

type LobbyType string

const (
	TypeSolo  LobbyType = "solo"
	TypeDuo   LobbyType = "duo"
	TypeTrio  LobbyType = "trio"
	TypeSquad LobbyType = "squad"
)

// MaxPlayers is the lobby capacity for its type.
func (t LobbyType) MaxPlayers() int {
	switch t {
	case TypeSolo:
		return 1
	case TypeDuo:
		return 2
	case TypeTrio:
		return 3
	case TypeSquad:
		return 4
	}
	return 0
}

type Status string

const (
	StatusActive      Status = "active"
	StatusMatchmaking Status = "matchmaking"
	StatusInGame      Status = "in_game"
	StatusClosed      Status = "closed"
)

var transitions = map[Status][]Status{
	StatusActive:      {StatusMatchmaking, StatusInGame, StatusClosed},
	StatusMatchmaking: {StatusActive, StatusInGame, StatusClosed},
	StatusInGame:      {StatusActive, StatusClosed},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OpenStatuses are the statuses in which a member is still bound to a lobby.
func OpenStatuses() []Status {
	return []Status{StatusActive, StatusMatchmaking, StatusInGame}
}

type Lobby struct {
	gorm.Model
	OwnerID      uint          `json:"owner_id" gorm:"index;not null"`
	LobbyType    LobbyType     `json:"lobby_type" gorm:"size:10;not null"`
	MaxPlayers   int           `json:"max_players" gorm:"not null"`
	Status       Status        `json:"status" gorm:"size:16;index;not null;default:active"`
	PlatformMode string        `json:"platform_mode" gorm:"size:20"`
	GameplayMode string        `json:"gameplay_mode" gorm:"size:30"`
	Members      []LobbyMember `json:"members" gorm:"foreignKey:LobbyID"`
}

type LobbyMember struct {
	ID       uint      `json:"-" gorm:"primaryKey"`
	LobbyID  uint      `json:"lobby_id" gorm:"uniqueIndex:idx_lobby_member;not null"`
	UserID   uint      `json:"user_id" gorm:"uniqueIndex:idx_lobby_member;index;not null"`
	Ready    bool      `json:"ready" gorm:"not null;default:false"`
	JoinedAt time.Time `json:"joined_at"`
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteCanceled InviteStatus = "canceled"
)

type LobbyInvite struct {
	gorm.Model
	LobbyID   uint         `json:"lobby_id" gorm:"index;not null"`
	InviterID uint         `json:"inviter_id" gorm:"not null"`
	InviteeID uint         `json:"invitee_id" gorm:"index;not null"`
	Status    InviteStatus `json:"status" gorm:"size:10;index;not null;default:pending"`
}

func (l *Lobby) MemberIDs() []uint {
	ids := make([]uint, 0, len(l.Members))
	for _, m := range l.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func (l *Lobby) ReadyMembers() []uint {
	ids := []uint{}
	for _, m := range l.Members {
		if m.Ready {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

func (l *Lobby) IsMember(userID uint) bool {
	for _, m := range l.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// AllReady is true when every member is ready. A solo lobby never waits.
func (l *Lobby) AllReady() bool {
	if l.LobbyType == TypeSolo {
		return true
	}
	return len(l.Members) > 0 && len(l.ReadyMembers()) == len(l.Members)
}

func (l *Lobby) Full() bool {
	return len(l.Members) >= l.MaxPlayers
}

// LobbyView adds the derived member lists clients poll for.
type LobbyView struct {
	*Lobby
	MemberIDs    []uint `json:"member_ids"`
	ReadyMembers []uint `json:"ready_members"`
}

func ToView(l *Lobby) *LobbyView {
	return &LobbyView{Lobby: l, MemberIDs: l.MemberIDs(), ReadyMembers: l.ReadyMembers()}
}

type CreateLobbyRequest struct {
	LobbyType    LobbyType `json:"lobby_type" binding:"required,oneof=solo duo trio squad" example:"squad"`
	PlatformMode string    `json:"platform_mode" binding:"omitempty,platform" example:"mobile"`
	GameplayMode string    `json:"gameplay_mode" binding:"omitempty,gameplay" example:"battle_royale"`
}

type InviteRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type KickRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type ReadyRequest struct {
	IsReady *bool `json:"isReady" binding:"required"`
}
