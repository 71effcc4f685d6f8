package shop

import (
	"fmt"

	"github.com/DhavalSuthar-24/arena/internal/models"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"gorm.io/gorm"
)

type ShopService struct {
	db       *gorm.DB
	notifier notification.Notifier
}

func NewShopService(db *gorm.DB, notifier notification.Notifier) *ShopService {
	return &ShopService{db: db, notifier: notifier}
}

func (s *ShopService) repo() *GormShopRepository { return NewGormShopRepository(s.db) }

func (s *ShopService) List(category string, includeInactive bool, page, pageSize int) ([]ShopItem, int64, error) {
	out, total, err := s.repo().List(category, !includeInactive, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list shop items")
	}
	return out, total, nil
}

func (s *ShopService) Get(id uint, includeInactive bool) (*ShopItem, error) {
	item, err := s.repo().GetByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "Item not found")
	}
	if !item.Active && !includeInactive {
		return nil, apperr.NotFound("Item not found")
	}
	return item, nil
}

// Purchase debits the wallet, takes stock and adds to the inventory in one
// transaction.
func (s *ShopService) Purchase(userID, itemID uint, qty int) (*PurchaseResult, error) {
	if qty <= 0 {
		qty = 1
	}
	var res *PurchaseResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormShopRepository(tx)
		item, err := repo.GetByID(itemID)
		if err != nil {
			return apperr.FromDB(err, "Item not found")
		}
		if !item.Active {
			return apperr.NotFound("Item not found")
		}
		if item.Stock != UnlimitedStock {
			ok, err := repo.TakeStock(item.ID, qty)
			if err != nil {
				return apperr.Internal(err, "take stock")
			}
			if !ok {
				return apperr.Conflict("Not enough stock")
			}
		}
		total := item.Price * int64(qty)
		t, err := wallet.Debit(tx, wallet.Entry{
			UserID:      userID,
			Amount:      total,
			Type:        wallet.TxPurchase,
			Description: fmt.Sprintf("Purchase %dx %s", qty, item.Name),
		})
		if err != nil {
			return err
		}
		inv, err := repo.AddToInventory(userID, item.ID, qty)
		if err != nil {
			return apperr.Internal(err, "update inventory")
		}
		if item, err = repo.GetByID(item.ID); err != nil {
			return apperr.Internal(err, "reload item")
		}
		res = &PurchaseResult{Item: item, Inventory: inv, Spent: total, Balance: t.BalanceAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(userID, notification.Message{
		Type:  notification.TypePurchase,
		Title: "Purchase complete",
		Body:  fmt.Sprintf("You bought %dx %s", qty, res.Item.Name),
		Data:  models.JSONMap{"itemId": itemID, "quantity": qty, "spent": res.Spent},
	})
	return res, nil
}

func (s *ShopService) Inventory(userID uint) ([]InventoryItem, error) {
	out, err := s.repo().Inventory(userID)
	if err != nil {
		return nil, apperr.Internal(err, "load inventory")
	}
	return out, nil
}

func (s *ShopService) Create(req CreateItemRequest) (*ShopItem, error) {
	item := &ShopItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       UnlimitedStock,
		Active:      true,
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := s.repo().Create(item); err != nil {
		return nil, apperr.Internal(err, "create shop item")
	}
	return item, nil
}

func (s *ShopService) Update(id uint, req UpdateItemRequest) (*ShopItem, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	repo := s.repo()
	if len(fields) > 0 {
		if err := repo.Update(id, fields); err != nil {
			return nil, apperr.FromDB(err, "Item not found")
		}
	}
	item, err := repo.GetByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "Item not found")
	}
	return item, nil
}

func (s *ShopService) Delete(id uint) error {
	if err := s.repo().Delete(id); err != nil {
		return apperr.FromDB(err, "Item not found")
	}
	return nil
}
