package shop

import (
	"time"

	"gorm.io/gorm"
)

// UnlimitedStock marks an item that never sells out.
const UnlimitedStock = -1

type ShopItem struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"size:40;index"`
	Price       int64  `json:"price" gorm:"not null"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock" gorm:"not null"`
	Active      bool   `json:"active" gorm:"index;not null"`
}

type InventoryItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex:idx_inventory_user_item;not null"`
	ItemID      uint      `json:"item_id" gorm:"uniqueIndex:idx_inventory_user_item;not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	PurchasedAt time.Time `json:"purchased_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Item        *ShopItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Category    string `json:"category" binding:"omitempty,max=40"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	ImageURL    string `json:"image_url" binding:"omitempty,url|uri,max=255"`
	Stock       *int   `json:"stock" binding:"omitempty,min=-1"`
	Active      *bool  `json:"active"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Category    *string `json:"category" binding:"omitempty,max=40"`
	Price       *int64  `json:"price" binding:"omitempty,gt=0"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=255"`
	Stock       *int    `json:"stock" binding:"omitempty,min=-1"`
	Active      *bool   `json:"active"`
}

type PurchaseRequest struct {
	Quantity int `json:"quantity" binding:"omitempty,min=1,max=100"`
}

type PurchaseResult struct {
	Item      *ShopItem      `json:"item"`
	Inventory *InventoryItem `json:"inventory"`
	Spent     int64          `json:"spent"`
	Balance   int64          `json:"balance"`
}
