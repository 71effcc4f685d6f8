package notification

import "gorm.io/gorm"

type NotificationRepository interface {
	CreateBatch(ns []Notification) error
	List(userID uint, unreadOnly bool, page, pageSize int) ([]Notification, int64, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(userID, id uint) error
	MarkAllRead(userID uint) (int64, error)
	Delete(userID, id uint) error
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) CreateBatch(ns []Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(&ns).Error
}

func (r *GormNotificationRepository) List(userID uint, unreadOnly bool, page, pageSize int) ([]Notification, int64, error) {
	var out []Notification
	var total int64
	q := r.db.Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&out).Error
	return out, total, err
}

func (r *GormNotificationRepository) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

// MarkRead only touches the caller's own rows. Marking an already read
// notification succeeds.
func (r *GormNotificationRepository) MarkRead(userID, id uint) error {
	res := r.db.Model(&Notification{}).Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := r.db.Model(&Notification{}).Where("id = ? AND user_id = ?", id, userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormNotificationRepository) MarkAllRead(userID uint) (int64, error) {
	res := r.db.Model(&Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *GormNotificationRepository) Delete(userID, id uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
