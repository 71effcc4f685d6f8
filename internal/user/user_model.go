package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	winPoints  = 25
	lossPoints = 10
)

type User struct {
	gorm.Model
	Username      string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"`
	Role          string     `gorm:"size:20;not null;default:user;index" json:"role"`
	Nickname      string     `gorm:"size:50" json:"nickname"`
	FreeFireID    string     `gorm:"size:30" json:"free_fire_id"`
	Avatar        string     `json:"avatar"`
	Balance       int64      `gorm:"not null;default:0" json:"balance"`
	MatchesPlayed int        `gorm:"not null;default:0" json:"matches_played"`
	Wins          int        `gorm:"not null;default:0" json:"wins"`
	Losses        int        `gorm:"not null;default:0" json:"losses"`
	RankPoints    int        `gorm:"not null;default:0;index" json:"rank_points"`
	Rank          string     `gorm:"column:rank_tier;size:20;not null;default:Bronze" json:"rank"`
	Banned        bool       `gorm:"not null;default:false" json:"banned"`
	BanReason     string     `json:"ban_reason,omitempty"`
	LastActive    *time.Time `json:"last_active,omitempty"`
}

type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:512;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"not null;default:false"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// RankFor maps rank points to a tier name.
func RankFor(points int) string {
	switch {
	case points < 100:
		return "Bronze"
	case points < 300:
		return "Silver"
	case points < 600:
		return "Gold"
	case points < 1000:
		return "Platinum"
	case points < 1500:
		return "Diamond"
	default:
		return "Heroic"
	}
}

// ApplyResult updates stats and rank for one finished match.
func (u *User) ApplyResult(won bool) {
	u.MatchesPlayed++
	if won {
		u.Wins++
		u.RankPoints += winPoints
	} else {
		u.Losses++
		u.RankPoints -= lossPoints
		if u.RankPoints < 0 {
			u.RankPoints = 0
		}
	}
	u.Rank = RankFor(u.RankPoints)
}

type Stats struct {
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
}

type UserResponse struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	IsAdmin    bool       `json:"is_admin"`
	Nickname   string     `json:"nickname"`
	FreeFireID string     `json:"free_fire_id"`
	Avatar     string     `json:"avatar"`
	Balance    int64      `json:"balance"`
	Stats      Stats      `json:"stats"`
	RankPoints int        `json:"rank_points"`
	Rank       string     `json:"rank"`
	Banned     bool       `json:"banned"`
	LastActive *time.Time `json:"last_active,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type PublicProfile struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Nickname   string `json:"nickname"`
	FreeFireID string `json:"free_fire_id"`
	Avatar     string `json:"avatar"`
	Stats      Stats  `json:"stats"`
	RankPoints int    `json:"rank_points"`
	Rank       string `json:"rank"`
}

type UpdateProfileRequest struct {
	Nickname   *string `json:"nickname" binding:"omitempty,max=50"`
	FreeFireID *string `json:"free_fire_id" binding:"omitempty,max=30"`
	Avatar     *string `json:"avatar" binding:"omitempty,url"`
}

func (u *User) stats() Stats {
	s := Stats{MatchesPlayed: u.MatchesPlayed, Wins: u.Wins, Losses: u.Losses}
	if u.MatchesPlayed > 0 {
		s.WinRate = float64(u.Wins) / float64(u.MatchesPlayed)
	}
	return s
}

func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsAdmin:    u.IsAdmin(),
		Nickname:   u.Nickname,
		FreeFireID: u.FreeFireID,
		Avatar:     u.Avatar,
		Balance:    u.Balance,
		Stats:      u.stats(),
		RankPoints: u.RankPoints,
		Rank:       u.Rank,
		Banned:     u.Banned,
		LastActive: u.LastActive,
		CreatedAt:  u.CreatedAt,
	}
}

func ToPublic(u *User) PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		Username:   u.Username,
		Nickname:   u.Nickname,
		FreeFireID: u.FreeFireID,
		Avatar:     u.Avatar,
		Stats:      u.stats(),
		RankPoints: u.RankPoints,
		Rank:       u.Rank,
	}
}
