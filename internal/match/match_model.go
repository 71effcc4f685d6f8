package match

import (
	"time"

	"gorm.io/gorm"
)

type Source string

const (
	SourceLobby Source = "lobby"
	SourceQueue Source = "queue"
)

type Match struct {
	gorm.Model
	Code              string        `json:"code" gorm:"uniqueIndex;size:36;not null"`
	LobbyID           *uint         `json:"lobby_id,omitempty" gorm:"index"`
	Source            Source        `json:"source" gorm:"size:10;not null"`
	TeamSize          int           `json:"team_size" gorm:"not null"`
	PlatformMode      string        `json:"platform_mode" gorm:"size:20"`
	GameplayMode      string        `json:"gameplay_mode" gorm:"size:30"`
	Status            MatchStatus   `json:"status" gorm:"size:24;index;not null;default:waiting"`
	RoomID            string        `json:"idSala,omitempty" gorm:"size:64"`
	RoomPassword      string        `json:"-" gorm:"size:64"`
	TimerStartedAt    *time.Time    `json:"timer_started_at,omitempty"`
	TimerDuration     int           `json:"timer_duration,omitempty"`
	WinnerTeam        *int          `json:"winner_team,omitempty"`
	ResultImageURL    string        `json:"result_image_url,omitempty"`
	ResultSubmittedBy *uint         `json:"result_submitted_by,omitempty"`
	ResultSubmittedAt *time.Time    `json:"result_submitted_at,omitempty"`
	StartedAt         *time.Time    `json:"started_at,omitempty"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`
	CancelReason      string        `json:"cancel_reason,omitempty"`
	Players           []MatchPlayer `json:"players" gorm:"foreignKey:MatchID"`
}

type MatchPlayer struct {
	ID      uint  `json:"-" gorm:"primaryKey"`
	MatchID uint  `json:"match_id" gorm:"uniqueIndex:idx_match_player;not null"`
	UserID  uint  `json:"user_id" gorm:"uniqueIndex:idx_match_player;index;not null"`
	Team    int   `json:"team" gorm:"not null"`
	LobbyID *uint `json:"lobby_id,omitempty"`
}

func (m *Match) PlayerIDs() []uint {
	ids := make([]uint, 0, len(m.Players))
	for _, p := range m.Players {
		ids = append(ids, p.UserID)
	}
	return ids
}

func (m *Match) TeamOf(userID uint) (int, bool) {
	for _, p := range m.Players {
		if p.UserID == userID {
			return p.Team, true
		}
	}
	return 0, false
}

func (m *Match) HasTeam(team int) bool {
	for _, p := range m.Players {
		if p.Team == team {
			return true
		}
	}
	return false
}

// LobbyIDs returns the distinct lobbies the players came from.
func (m *Match) LobbyIDs() []uint {
	seen := map[uint]struct{}{}
	var ids []uint
	add := func(id *uint) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	add(m.LobbyID)
	for i := range m.Players {
		add(m.Players[i].LobbyID)
	}
	return ids
}

// TimeRemaining is the seconds left on a running room timer, never negative.
func (m *Match) TimeRemaining(now time.Time) (int, bool) {
	if m.TimerStartedAt == nil || m.TimerDuration <= 0 {
		return 0, false
	}
	elapsed := int(now.Sub(*m.TimerStartedAt).Seconds())
	left := m.TimerDuration - elapsed
	if left < 0 {
		left = 0
	}
	return left, true
}

// Settlement is one bet outcome, reported back for notifications.
type Settlement struct {
	UserID uint
	BetID  uint
	Won    bool
	Payout int64
	Refund bool
}

// Settler resolves the bets of a match inside the caller's transaction.
type Settler interface {
	Settle(tx *gorm.DB, m *Match) ([]Settlement, error)
	Refund(tx *gorm.DB, matchID uint) ([]Settlement, error)
}

type ConfigureRoomRequest struct {
	MatchID    uint   `json:"matchId" binding:"required"`
	IDSala     string `json:"idSala" binding:"required,max=64"`
	SenhaSala  string `json:"senhaSala" binding:"required,max=64"`
	StartTimer bool   `json:"startTimer"`
}

type ConfigureByIDRequest struct {
	IDSala     string `json:"idSala" binding:"required,max=64"`
	SenhaSala  string `json:"senhaSala" binding:"required,max=64"`
	StartTimer bool   `json:"startTimer"`
}

type ValidateRequest struct {
	Approve    *bool  `json:"approve" binding:"required"`
	WinnerTeam int    `json:"winnerTeam"`
	Reason     string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// MatchView is a match as one viewer may see it. Room credentials and the
// timer are only filled in for participants and admins.
type MatchView struct {
	*Match
	SenhaSala     string `json:"senhaSala,omitempty"`
	TempoRestante *int   `json:"tempoRestante,omitempty"`
}

type StatusView struct {
	MatchID       uint        `json:"matchId"`
	Status        MatchStatus `json:"status"`
	IDSala        string      `json:"idSala,omitempty"`
	SenhaSala     string      `json:"senhaSala,omitempty"`
	TimerRunning  bool        `json:"timerRunning"`
	TempoRestante int         `json:"tempoRestante"`
	WinnerTeam    *int        `json:"winnerTeam,omitempty"`
}
