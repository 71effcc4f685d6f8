package bet

import "gorm.io/gorm"

type BetRepository interface {
	Create(b *Bet) error
	Get(userID, matchID uint) (*Bet, error)
	ListForUser(userID uint, page, pageSize int) ([]Bet, int64, error)
	ActiveForMatch(matchID uint) ([]Bet, error)
	Resolve(id uint, status Status, payout int64) error
	Volume() (int64, error)
}

type GormBetRepository struct {
	db *gorm.DB
}

func NewGormBetRepository(db *gorm.DB) *GormBetRepository {
	return &GormBetRepository{db: db}
}

func (r *GormBetRepository) Create(b *Bet) error {
	return r.db.Create(b).Error
}

func (r *GormBetRepository) Get(userID, matchID uint) (*Bet, error) {
	var b Bet
	if err := r.db.Where("user_id = ? AND match_id = ?", userID, matchID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBetRepository) ListForUser(userID uint, page, pageSize int) ([]Bet, int64, error) {
	var out []Bet
	var total int64
	q := r.db.Model(&Bet{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&out).Error
	return out, total, err
}

func (r *GormBetRepository) ActiveForMatch(matchID uint) ([]Bet, error) {
	var out []Bet
	err := r.db.Where("match_id = ? AND status = ?", matchID, StatusActive).Order("id").Find(&out).Error
	return out, err
}

// Resolve moves an active bet to its final status; settled bets are left alone.
func (r *GormBetRepository) Resolve(id uint, status Status, payout int64) error {
	res := r.db.Model(&Bet{}).
		Where("id = ? AND status = ?", id, StatusActive).
		Updates(map[string]interface{}{"status": status, "payout": payout})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Volume is the total amount ever staked.
func (r *GormBetRepository) Volume() (int64, error) {
	var total int64
	err := r.db.Model(&Bet{}).Select("COALESCE(SUM(amount), 0)").Row().Scan(&total)
	return total, err
}
