package shop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/shop"
	"github.com/DhavalSuthar-24/arena/internal/testutil"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestCreateDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := shop.NewShopService(db, &testutil.Notifier{})

	item, err := svc.Create(shop.CreateItemRequest{Name: "Skin", Price: 50})
	require.NoError(t, err)
	assert.Equal(t, shop.UnlimitedStock, item.Stock)
	assert.True(t, item.Active)

	sold, err := svc.Create(shop.CreateItemRequest{Name: "Sold out", Price: 50, Stock: intPtr(0), Active: boolPtr(false)})
	require.NoError(t, err)
	got, err := svc.Get(sold.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.False(t, got.Active)

	_, err = svc.Get(sold.ID, false)
	assert.Equal(t, 404, apperr.StatusCode(err))

	items, total, err := svc.List("", false, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestPurchaseTakesStockAndStacksInventory(t *testing.T) {
	db := testutil.NewDB(t)
	n := &testutil.Notifier{}
	svc := shop.NewShopService(db, n)
	u := testutil.CreateUser(t, db, "buyer")
	testutil.Fund(t, db, u.ID, 1000)

	item, err := svc.Create(shop.CreateItemRequest{Name: "Emote", Price: 100, Stock: intPtr(3)})
	require.NoError(t, err)

	res, err := svc.Purchase(u.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.Spent)
	assert.Equal(t, int64(800), res.Balance)
	assert.Equal(t, 1, res.Item.Stock)
	assert.Equal(t, 2, res.Inventory.Quantity)

	_, err = svc.Purchase(u.ID, item.ID, 2)
	assert.Equal(t, 409, apperr.StatusCode(err))
	assert.Equal(t, int64(800), testutil.Balance(t, db, u.ID))

	res, err = svc.Purchase(u.ID, item.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inventory.Quantity)
	assert.Equal(t, 0, res.Item.Stock)

	inv, err := svc.Inventory(u.ID)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	require.NotNil(t, inv[0].Item)
	assert.Equal(t, "Emote", inv[0].Item.Name)
	assert.Len(t, n.Of(notification.TypePurchase), 2)
}

func TestPurchaseWithoutFundsRollsBackStock(t *testing.T) {
	db := testutil.NewDB(t)
	svc := shop.NewShopService(db, &testutil.Notifier{})
	u := testutil.CreateUser(t, db, "buyer")
	testutil.Fund(t, db, u.ID, 50)

	item, err := svc.Create(shop.CreateItemRequest{Name: "Bundle", Price: 80, Stock: intPtr(5)})
	require.NoError(t, err)

	_, err = svc.Purchase(u.ID, item.ID, 1)
	assert.Equal(t, 400, apperr.StatusCode(err))

	got, err := svc.Get(item.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, int64(50), testutil.Balance(t, db, u.ID))

	inv, err := svc.Inventory(u.ID)
	require.NoError(t, err)
	assert.Empty(t, inv)
}

func TestUpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := shop.NewShopService(db, &testutil.Notifier{})
	item, err := svc.Create(shop.CreateItemRequest{Name: "Crate", Price: 10})
	require.NoError(t, err)

	price := int64(25)
	got, err := svc.Update(item.ID, shop.UpdateItemRequest{Price: &price, Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.Price)
	assert.False(t, got.Active)

	require.NoError(t, svc.Delete(item.ID))
	assert.Equal(t, 404, apperr.StatusCode(svc.Delete(item.ID)))
	_, err = svc.Update(item.ID, shop.UpdateItemRequest{Price: &price})
	assert.Equal(t, 404, apperr.StatusCode(err))
}
