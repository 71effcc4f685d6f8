package lobby

import (
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LobbyRepository defines methods to interact with lobby data
type LobbyRepository interface {
	Create(l *Lobby) error
	GetByID(id uint) (*Lobby, error)
	GetByIDForUpdate(id uint) (*Lobby, error)
	OpenForUser(userID uint) (*Lobby, error)
	AddMember(lobbyID, userID uint) error
	RemoveMember(lobbyID, userID uint) error
	CountMembers(lobbyID uint) (int64, error)
	SetReady(lobbyID, userID uint, ready bool) (bool, error)
	TransitionStatus(id uint, from, to Status) error
	ActiveAllReady() ([]Lobby, error)
	CountByStatus(status Status) (int64, error)

	CreateInvite(inv *LobbyInvite) error
	GetInvite(id uint) (*LobbyInvite, error)
	PendingInvite(lobbyID, inviteeID uint) (*LobbyInvite, error)
	InvitesFor(userID uint) ([]LobbyInvite, error)
	ResolveInvite(id uint, to InviteStatus) error

	WithTransaction(txFunc func(LobbyRepository) error) error
}

type GormLobbyRepository struct {
	db *gorm.DB
}

func NewGormLobbyRepository(db *gorm.DB) *GormLobbyRepository {
	return &GormLobbyRepository{db: db}
}

func (r *GormLobbyRepository) WithTransaction(txFunc func(LobbyRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormLobbyRepository{db: tx})
	})
}

// Create inserts the lobby and its initial members.
func (r *GormLobbyRepository) Create(l *Lobby) error {
	return r.db.Create(l).Error
}

func (r *GormLobbyRepository) GetByID(id uint) (*Lobby, error) {
	var l Lobby
	err := r.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at, id")
	}).First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByIDForUpdate row-locks the lobby on drivers that support it, so
// membership changes on the same lobby run one at a time.
func (r *GormLobbyRepository) GetByIDForUpdate(id uint) (*Lobby, error) {
	if r.db.Dialector.Name() != "sqlite" {
		var locked Lobby
		if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&locked, id).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

// OpenForUser returns the lobby the user currently belongs to, or
// gorm.ErrRecordNotFound.
func (r *GormLobbyRepository) OpenForUser(userID uint) (*Lobby, error) {
	var ids []uint
	err := r.db.Model(&Lobby{}).
		Joins("JOIN lobby_members ON lobby_members.lobby_id = lobbies.id").
		Where("lobby_members.user_id = ? AND lobbies.status IN ?", userID, OpenStatuses()).
		Order("lobbies.id DESC").
		Limit(1).
		Pluck("lobbies.id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ids[0])
}

func (r *GormLobbyRepository) AddMember(lobbyID, userID uint) error {
	return r.db.Create(&LobbyMember{LobbyID: lobbyID, UserID: userID, JoinedAt: time.Now()}).Error
}

func (r *GormLobbyRepository) RemoveMember(lobbyID, userID uint) error {
	res := r.db.Where("lobby_id = ? AND user_id = ?", lobbyID, userID).Delete(&LobbyMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormLobbyRepository) CountMembers(lobbyID uint) (int64, error) {
	var n int64
	err := r.db.Model(&LobbyMember{}).Where("lobby_id = ?", lobbyID).Count(&n).Error
	return n, err
}

// SetReady only writes when the flag actually changes, so repeating a call
// is a no-op. It reports whether a row changed.
func (r *GormLobbyRepository) SetReady(lobbyID, userID uint, ready bool) (bool, error) {
	res := r.db.Model(&LobbyMember{}).
		Where("lobby_id = ? AND user_id = ? AND ready <> ?", lobbyID, userID, ready).
		Update("ready", ready)
	return res.RowsAffected > 0, res.Error
}

// TransitionStatus is a compare-and-set on the lobby status.
func (r *GormLobbyRepository) TransitionStatus(id uint, from, to Status) error {
	if !CanTransition(from, to) {
		return apperr.Conflict(fmt.Sprintf("Lobby cannot move from %s to %s", from, to))
	}
	res := r.db.Model(&Lobby{}).Where("id = ? AND status = ?", id, from).Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("Lobby status changed concurrently, reload and retry")
	}
	return nil
}

// ActiveAllReady lists active lobbies whose members are all ready. Solo
// lobbies qualify regardless of their flag.
func (r *GormLobbyRepository) ActiveAllReady() ([]Lobby, error) {
	notReady := r.db.Model(&LobbyMember{}).Select("lobby_id").Where("ready = ?", false)
	var out []Lobby
	err := r.db.Preload("Members").
		Where("status = ?", StatusActive).
		Where("lobby_type = ? OR id NOT IN (?)", TypeSolo, notReady).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *GormLobbyRepository) CountByStatus(status Status) (int64, error) {
	var n int64
	err := r.db.Model(&Lobby{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *GormLobbyRepository) CreateInvite(inv *LobbyInvite) error {
	return r.db.Create(inv).Error
}

func (r *GormLobbyRepository) GetInvite(id uint) (*LobbyInvite, error) {
	var inv LobbyInvite
	if err := r.db.First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormLobbyRepository) PendingInvite(lobbyID, inviteeID uint) (*LobbyInvite, error) {
	var inv LobbyInvite
	err := r.db.Where("lobby_id = ? AND invitee_id = ? AND status = ?", lobbyID, inviteeID, InvitePending).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormLobbyRepository) InvitesFor(userID uint) ([]LobbyInvite, error) {
	var out []LobbyInvite
	err := r.db.Where("invitee_id = ? AND status = ?", userID, InvitePending).Order("id DESC").Find(&out).Error
	return out, err
}

func (r *GormLobbyRepository) ResolveInvite(id uint, to InviteStatus) error {
	res := r.db.Model(&LobbyInvite{}).Where("id = ? AND status = ?", id, InvitePending).Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("Invite is no longer pending")
	}
	return nil
}
