package matchmaking

import (
	"time"

	"github.com/DhavalSuthar-24/arena/internal/models"
)

// QueueEntry is one lobby or solo player waiting to be paired. MemberIDs is
// the roster snapshot taken at enqueue time.
type QueueEntry struct {
	ID           uint             `json:"waitingId" gorm:"primaryKey"`
	CreatedAt    time.Time        `json:"created_at" gorm:"index"`
	UserID       uint             `json:"user_id" gorm:"index;not null"`
	LobbyID      *uint            `json:"lobby_id,omitempty" gorm:"uniqueIndex"`
	MemberIDs    models.UintSlice `json:"member_ids" gorm:"type:text"`
	Size         int              `json:"size" gorm:"not null"`
	TeamSize     int              `json:"teamSize" gorm:"not null"`
	PlatformMode string           `json:"platformMode" gorm:"size:20;not null"`
	GameplayMode string           `json:"gameplayMode" gorm:"size:30;not null"`
	Processed    bool             `json:"processed" gorm:"not null;default:false"`
	ClaimToken   *string          `json:"-" gorm:"size:36;index"`
	ClaimedAt    *time.Time       `json:"-"`
	Members      []QueueMember    `json:"-" gorm:"foreignKey:EntryID"`
}

func (QueueEntry) TableName() string { return "matchmaking_queue" }

// QueueMember indexes entries by player. The unique user_id keeps a player
// in at most one entry.
type QueueMember struct {
	ID      uint `gorm:"primaryKey"`
	EntryID uint `gorm:"index;not null"`
	UserID  uint `gorm:"uniqueIndex;not null"`
}

func (QueueMember) TableName() string { return "matchmaking_queue_members" }

type bucketKey struct {
	TeamSize     int
	PlatformMode string
	GameplayMode string
}

func (e *QueueEntry) key() bucketKey {
	return bucketKey{TeamSize: e.TeamSize, PlatformMode: e.PlatformMode, GameplayMode: e.GameplayMode}
}

type LobbyQueueRequest struct {
	LobbyID      uint   `json:"lobbyId" binding:"required"`
	TeamSize     int    `json:"teamSize" binding:"omitempty,min=1,max=4"`
	PlatformMode string `json:"platformMode" binding:"required,platform" example:"mobile"`
	GameplayMode string `json:"gameplayMode" binding:"required,gameplay" example:"battle_royale"`
}

type FindRequest struct {
	TeamSize     int    `json:"teamSize" binding:"required,min=1,max=4"`
	PlatformMode string `json:"platformMode" binding:"required,platform" example:"mobile"`
	GameplayMode string `json:"gameplayMode" binding:"required,gameplay" example:"clash_squad"`
}

type CancelRequest struct {
	WaitingID *uint `json:"waitingId"`
}

const (
	StateIdle       = "idle"
	StateSearching  = "searching"
	StateWaiting    = "waiting"
	StateReady      = "ready"
	StateInProgress = "in_progress"
	StateCompleted  = "completed"
)

// StatusResponse is what polling clients read.
type StatusResponse struct {
	Status         string `json:"status"`
	WaitingID      *uint  `json:"waitingId,omitempty"`
	ElapsedSeconds int    `json:"elapsedSeconds,omitempty"`
	TeamSize       int    `json:"teamSize,omitempty"`
	MatchID        *uint  `json:"matchId,omitempty"`
	MatchStatus    string `json:"matchStatus,omitempty"`
}

// Summary reports one processing pass.
type Summary struct {
	Skipped        bool   `json:"skipped"`
	Expired        int    `json:"expired"`
	Pending        int    `json:"pending"`
	MatchesCreated int    `json:"matchesCreated"`
	MatchIDs       []uint `json:"matchIds"`
	Conflicts      int    `json:"conflicts"`
}

type AutoSummary struct {
	Enqueued []uint   `json:"enqueuedLobbies"`
	Pass     *Summary `json:"pass"`
}
