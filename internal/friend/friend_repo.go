package friend

import "gorm.io/gorm"

type FriendRepository interface {
	Create(r *FriendRequest) error
	GetByID(id uint) (*FriendRequest, error)
	Between(a, b uint) (*FriendRequest, error)
	Incoming(userID uint) ([]FriendRequest, error)
	Outgoing(userID uint) ([]FriendRequest, error)
	Friends(userID uint) ([]FriendRequest, error)
	Resolve(id uint, to Status) error
	Remove(a, b uint) error
}

type GormFriendRepository struct {
	db *gorm.DB
}

func NewGormFriendRepository(db *gorm.DB) *GormFriendRepository {
	return &GormFriendRepository{db: db}
}

func (r *GormFriendRepository) Create(fr *FriendRequest) error {
	return r.db.Create(fr).Error
}

func (r *GormFriendRepository) GetByID(id uint) (*FriendRequest, error) {
	var fr FriendRequest
	if err := r.db.First(&fr, id).Error; err != nil {
		return nil, err
	}
	return &fr, nil
}

// Between returns the live (pending or accepted) request between two users
// in either direction.
func (r *GormFriendRepository) Between(a, b uint) (*FriendRequest, error) {
	var fr FriendRequest
	err := r.db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status IN ?",
		a, b, b, a, []Status{StatusPending, StatusAccepted}).
		First(&fr).Error
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

func (r *GormFriendRepository) Incoming(userID uint) ([]FriendRequest, error) {
	var out []FriendRequest
	err := r.db.Where("receiver_id = ? AND status = ?", userID, StatusPending).Order("id DESC").Find(&out).Error
	return out, err
}

func (r *GormFriendRepository) Outgoing(userID uint) ([]FriendRequest, error) {
	var out []FriendRequest
	err := r.db.Where("sender_id = ? AND status = ?", userID, StatusPending).Order("id DESC").Find(&out).Error
	return out, err
}

func (r *GormFriendRepository) Friends(userID uint) ([]FriendRequest, error) {
	var out []FriendRequest
	err := r.db.Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, StatusAccepted).
		Order("updated_at DESC").Find(&out).Error
	return out, err
}

func (r *GormFriendRepository) Resolve(id uint, to Status) error {
	res := r.db.Model(&FriendRequest{}).Where("id = ? AND status = ?", id, StatusPending).Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormFriendRepository) Remove(a, b uint) error {
	res := r.db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
		a, b, b, a, StatusAccepted).Delete(&FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
