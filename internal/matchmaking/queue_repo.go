package matchmaking

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type QueueRepository interface {
	Create(e *QueueEntry) error
	GetByID(id uint) (*QueueEntry, error)
	ForUser(userID uint) (*QueueEntry, error)
	AnyQueued(userIDs []uint) (bool, error)
	Pending() ([]QueueEntry, error)
	ExpiredBefore(cutoff time.Time) ([]QueueEntry, error)
	Claim(ids []uint, token string, at time.Time) (int64, error)
	DeleteUnclaimed(id uint) (bool, error)
	DeleteClaimed(token string) error
	Count() (int64, error)
}

type GormQueueRepository struct {
	db *gorm.DB
}

func NewGormQueueRepository(db *gorm.DB) *GormQueueRepository {
	return &GormQueueRepository{db: db}
}

// Create stores the entry and one member row per player. Members are
// inserted with a plain INSERT so a player already queued elsewhere fails on
// the unique index instead of being upserted.
func (r *GormQueueRepository) Create(e *QueueEntry) error {
	if err := r.db.Omit("Members").Create(e).Error; err != nil {
		return err
	}
	e.Members = make([]QueueMember, 0, len(e.MemberIDs))
	for _, id := range e.MemberIDs {
		e.Members = append(e.Members, QueueMember{EntryID: e.ID, UserID: id})
	}
	if len(e.Members) == 0 {
		return nil
	}
	return r.db.Create(&e.Members).Error
}

func (r *GormQueueRepository) GetByID(id uint) (*QueueEntry, error) {
	var e QueueEntry
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormQueueRepository) ForUser(userID uint) (*QueueEntry, error) {
	var e QueueEntry
	err := r.db.Where("id IN (?)", r.db.Model(&QueueMember{}).Select("entry_id").Where("user_id = ?", userID)).
		Where("claim_token IS NULL").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormQueueRepository) AnyQueued(userIDs []uint) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}
	var n int64
	err := r.db.Model(&QueueMember{}).Where("user_id IN ?", userIDs).Count(&n).Error
	return n > 0, err
}

// Pending is every unclaimed entry, oldest first.
func (r *GormQueueRepository) Pending() ([]QueueEntry, error) {
	var out []QueueEntry
	err := r.db.Where("claim_token IS NULL").Order("created_at, id").Find(&out).Error
	return out, err
}

func (r *GormQueueRepository) ExpiredBefore(cutoff time.Time) ([]QueueEntry, error) {
	var out []QueueEntry
	err := r.db.Where("claim_token IS NULL AND created_at < ?", cutoff).Order("id").Find(&out).Error
	return out, err
}

// Claim marks entries with token unless someone else already did. The
// returned count tells the caller how many it actually won.
func (r *GormQueueRepository) Claim(ids []uint, token string, at time.Time) (int64, error) {
	res := r.db.Model(&QueueEntry{}).
		Where("id IN ? AND claim_token IS NULL", ids).
		Updates(map[string]interface{}{"claim_token": token, "claimed_at": at, "processed": true})
	return res.RowsAffected, res.Error
}

// DeleteUnclaimed removes an entry unless a pairing already claimed it.
func (r *GormQueueRepository) DeleteUnclaimed(id uint) (bool, error) {
	res := r.db.Where("id = ? AND claim_token IS NULL", id).Delete(&QueueEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, r.db.Where("entry_id = ?", id).Delete(&QueueMember{}).Error
}

func (r *GormQueueRepository) DeleteClaimed(token string) error {
	ids := r.db.Model(&QueueEntry{}).Select("id").Where("claim_token = ?", token)
	if err := r.db.Where("entry_id IN (?)", ids).Delete(&QueueMember{}).Error; err != nil {
		return err
	}
	return r.db.Where("claim_token = ?", token).Delete(&QueueEntry{}).Error
}

func (r *GormQueueRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&QueueEntry{}).Where("claim_token IS NULL").Count(&n).Error
	return n, err
}

// RemoveLobbyEntries drops the lobby's unclaimed entry inside tx.
func (r *GormQueueRepository) RemoveLobbyEntries(tx *gorm.DB, lobbyID uint) (int64, error) {
	repo := NewGormQueueRepository(tx)
	var ids []uint
	if err := tx.Model(&QueueEntry{}).Where("lobby_id = ? AND claim_token IS NULL", lobbyID).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	var removed int64
	for _, id := range ids {
		ok, err := repo.DeleteUnclaimed(id)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
