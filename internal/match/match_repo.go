package match

import (
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"gorm.io/gorm"
)

// MatchRepository defines methods to interact with match data
type MatchRepository interface {
	Create(m *Match) error
	GetByID(id uint) (*Match, error)
	ListForUser(userID uint, status string, page, pageSize int) ([]Match, int64, error)
	List(status string, page, pageSize int) ([]Match, int64, error)
	TransitionStatus(id uint, from, to MatchStatus, updates map[string]interface{}) error
	IsParticipant(matchID, userID uint) (bool, error)
	UnfinishedForUser(userID uint) (*Match, error)
	AnyUnfinished(userIDs []uint) (bool, error)
	CompletedSince(userID uint, since time.Time) (*Match, error)
	CountByStatus() (map[MatchStatus]int64, error)

	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormMatchRepository{db: tx})
	})
}

// Create inserts the match together with its players.
func (r *GormMatchRepository) Create(m *Match) error {
	return r.db.Create(m).Error
}

func (r *GormMatchRepository) GetByID(id uint) (*Match, error) {
	var m Match
	if err := r.db.Preload("Players").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormMatchRepository) participantScope(userID uint) *gorm.DB {
	return r.db.Model(&MatchPlayer{}).Select("match_id").Where("user_id = ?", userID)
}

func (r *GormMatchRepository) ListForUser(userID uint, status string, page, pageSize int) ([]Match, int64, error) {
	q := r.db.Model(&Match{}).Where("id IN (?)", r.participantScope(userID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.paginate(q, page, pageSize)
}

func (r *GormMatchRepository) List(status string, page, pageSize int) ([]Match, int64, error) {
	q := r.db.Model(&Match{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.paginate(q, page, pageSize)
}

func (r *GormMatchRepository) paginate(q *gorm.DB, page, pageSize int) ([]Match, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Match
	err := q.Preload("Players").Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&out).Error
	return out, total, err
}

// TransitionStatus moves a match from one status to another with a
// conditional update, so two concurrent writers cannot both win.
func (r *GormMatchRepository) TransitionStatus(id uint, from, to MatchStatus, updates map[string]interface{}) error {
	if !CanTransition(from, to) {
		return apperr.Conflict(fmt.Sprintf("Match cannot move from %s to %s", from, to))
	}
	fields := map[string]interface{}{"status": to}
	for k, v := range updates {
		fields[k] = v
	}
	res := r.db.Model(&Match{}).Where("id = ? AND status = ?", id, from).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("Match status changed concurrently, reload and retry")
	}
	return nil
}

func (r *GormMatchRepository) IsParticipant(matchID, userID uint) (bool, error) {
	var n int64
	err := r.db.Model(&MatchPlayer{}).Where("match_id = ? AND user_id = ?", matchID, userID).Count(&n).Error
	return n > 0, err
}

// UnfinishedForUser returns the newest match the user is still playing, or
// gorm.ErrRecordNotFound.
func (r *GormMatchRepository) UnfinishedForUser(userID uint) (*Match, error) {
	var m Match
	err := r.db.Where("id IN (?)", r.participantScope(userID)).
		Where("status IN ?", Unfinished()).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormMatchRepository) AnyUnfinished(userIDs []uint) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}
	var n int64
	err := r.db.Model(&Match{}).
		Where("id IN (?)", r.db.Model(&MatchPlayer{}).Select("match_id").Where("user_id IN ?", userIDs)).
		Where("status IN ?", Unfinished()).
		Count(&n).Error
	return n > 0, err
}

func (r *GormMatchRepository) CompletedSince(userID uint, since time.Time) (*Match, error) {
	var m Match
	err := r.db.Where("id IN (?)", r.participantScope(userID)).
		Where("status = ? AND completed_at >= ?", StatusCompleted, since).
		Order("completed_at DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormMatchRepository) CountByStatus() (map[MatchStatus]int64, error) {
	var rows []struct {
		Status MatchStatus
		N      int64
	}
	if err := r.db.Model(&Match{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[MatchStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

// ReleaseLobbies returns lobbies that were playing this match to active and
// clears their ready flags.
func ReleaseLobbies(tx *gorm.DB, lobbyIDs []uint) error {
	if len(lobbyIDs) == 0 {
		return nil
	}
	err := tx.Table("lobbies").
		Where("id IN ? AND status = ?", lobbyIDs, "in_game").
		Updates(map[string]interface{}{"status": "active", "updated_at": time.Now()}).Error
	if err != nil {
		return err
	}
	return tx.Table("lobby_members").Where("lobby_id IN ?", lobbyIDs).Update("ready", false).Error
}
