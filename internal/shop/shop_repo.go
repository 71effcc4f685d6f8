package shop

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShopRepository interface {
	Create(item *ShopItem) error
	GetByID(id uint) (*ShopItem, error)
	List(category string, activeOnly bool, page, pageSize int) ([]ShopItem, int64, error)
	Update(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	TakeStock(id uint, qty int) (bool, error)
	AddToInventory(userID, itemID uint, qty int) (*InventoryItem, error)
	Inventory(userID uint) ([]InventoryItem, error)
}

type GormShopRepository struct {
	db *gorm.DB
}

func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

func (r *GormShopRepository) Create(item *ShopItem) error {
	return r.db.Create(item).Error
}

func (r *GormShopRepository) GetByID(id uint) (*ShopItem, error) {
	var item ShopItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormShopRepository) List(category string, activeOnly bool, page, pageSize int) ([]ShopItem, int64, error) {
	var out []ShopItem
	var total int64
	q := r.db.Model(&ShopItem{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("category, price, id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&out).Error
	return out, total, err
}

func (r *GormShopRepository) Update(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&ShopItem{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormShopRepository) Delete(id uint) error {
	res := r.db.Delete(&ShopItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TakeStock decrements a limited item's stock only if enough is left.
func (r *GormShopRepository) TakeStock(id uint, qty int) (bool, error) {
	res := r.db.Model(&ShopItem{}).
		Where("id = ? AND stock <> ? AND stock >= ?", id, UnlimitedStock, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected > 0, res.Error
}

// AddToInventory upserts the (user, item) row, adding qty on conflict.
func (r *GormShopRepository) AddToInventory(userID, itemID uint, qty int) (*InventoryItem, error) {
	now := time.Now()
	row := &InventoryItem{UserID: userID, ItemID: itemID, Quantity: qty, PurchasedAt: now, UpdatedAt: now}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("inventory_items.quantity + ?", qty),
			"updated_at": now,
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	var out InventoryItem
	if err := r.db.Where("user_id = ? AND item_id = ?", userID, itemID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *GormShopRepository) Inventory(userID uint) ([]InventoryItem, error) {
	var out []InventoryItem
	err := r.db.Preload("Item", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ?", userID).Order("updated_at DESC").Find(&out).Error
	return out, err
}
