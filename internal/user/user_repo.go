package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines methods to interact with user data
type UserRepository interface {
	Create(u *User) error
	GetByID(id uint) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByLogin(identifier string) (*User, error)
	GetByIDForUpdate(id uint) (*User, error)
	Save(u *User) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Touch(id uint) error
	Search(q string, excludeID uint, limit int) ([]User, error)
	Leaderboard(limit int) ([]User, error)
	List(q string, page, pageSize int) ([]User, int64, error)
	Count() (int64, error)
	RoleOf(id uint) (string, error)
	RecordResult(id uint, won bool) error

	WithTransaction(txFunc func(UserRepository) error) error
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) WithTransaction(txFunc func(UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormUserRepository{db: tx})
	})
}

func (r *GormUserRepository) Create(u *User) error {
	return r.db.Create(u).Error
}

func (r *GormUserRepository) GetByID(id uint) (*User, error) {
	var u User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDForUpdate row-locks the user on drivers that support it.
func (r *GormUserRepository) GetByIDForUpdate(id uint) (*User, error) {
	var u User
	q := r.db
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*User, error) {
	var u User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetByUsername(username string) (*User, error) {
	var u User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLogin accepts either an email or a username.
func (r *GormUserRepository) GetByLogin(identifier string) (*User, error) {
	if strings.Contains(identifier, "@") {
		return r.GetByEmail(identifier)
	}
	return r.GetByUsername(identifier)
}

func (r *GormUserRepository) Save(u *User) error {
	return r.db.Save(u).Error
}

func (r *GormUserRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUserRepository) Touch(id uint) error {
	return r.db.Model(&User{}).Where("id = ?", id).UpdateColumn("last_active", time.Now()).Error
}

func (r *GormUserRepository) Search(q string, excludeID uint, limit int) ([]User, error) {
	var users []User
	like := "%" + strings.ToLower(q) + "%"
	err := r.db.Where("(LOWER(username) LIKE ? OR LOWER(nickname) LIKE ? OR free_fire_id LIKE ?)", like, like, like).
		Where("id <> ? AND banned = ?", excludeID, false).
		Order("username").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *GormUserRepository) Leaderboard(limit int) ([]User, error) {
	var users []User
	err := r.db.Where("banned = ?", false).
		Order("rank_points DESC").Order("wins DESC").Order("id").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *GormUserRepository) List(q string, page, pageSize int) ([]User, int64, error) {
	var users []User
	var total int64

	query := r.db.Model(&User{})
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Order("id").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *GormUserRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&User{}).Count(&n).Error
	return n, err
}

func (r *GormUserRepository) RoleOf(id uint) (string, error) {
	var roles []string
	err := r.db.Model(&User{}).Where("id = ?", id).Limit(1).Pluck("role", &roles).Error
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return roles[0], nil
}

func (r *GormUserRepository) RecordResult(id uint, won bool) error {
	u, err := r.GetByIDForUpdate(id)
	if err != nil {
		return err
	}
	u.ApplyResult(won)
	return r.db.Model(u).Select("matches_played", "wins", "losses", "rank_points", "rank_tier").Updates(u).Error
}
