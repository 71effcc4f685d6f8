package shop

import (
	"net/http"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type ShopController struct {
	service *ShopService
}

func NewShopController(service *ShopService) *ShopController {
	return &ShopController{service: service}
}

// ListItems godoc
// @Summary      Active store items
// @Tags         Shop
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Param        page      query     int     false  "Page"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  responses.PaginatedResponse{data=[]ShopItem}
// @Router       /shop/items [get]
func (sc *ShopController) ListItems(c *gin.Context) {
	page, limit := common.Pagination(c, 20, 100)
	items, total, err := sc.service.List(c.Query("category"), false, page, limit)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, page, limit)
}

// GetItem godoc
// @Summary      Store item
// @Tags         Shop
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  responses.SuccessResponse{data=ShopItem}
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /shop/items/{id} [get]
func (sc *ShopController) GetItem(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	item, err := sc.service.Get(id, false)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", item)
}

// Purchase godoc
// @Summary      Buy an item with wallet coins
// @Tags         Shop
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true   "Item ID"
// @Param        body  body      PurchaseRequest  false  "Quantity (default 1)"
// @Success      200   {object}  responses.SuccessResponse{data=PurchaseResult}
// @Failure      400   {object}  responses.ErrorResponse "Insufficient balance"
// @Failure      409   {object}  responses.ErrorResponse "Out of stock"
// @Router       /shop/items/{id}/purchase [post]
func (sc *ShopController) Purchase(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req PurchaseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationError(c, err)
			return
		}
	}
	res, err := sc.service.Purchase(userID, id, req.Quantity)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Purchase complete", res)
}

// Inventory godoc
// @Summary      Items the caller owns
// @Tags         Shop
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=[]InventoryItem}
// @Router       /shop/inventory [get]
func (sc *ShopController) Inventory(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	out, err := sc.service.Inventory(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// CreateItem godoc
// @Summary      Add a store item (admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateItemRequest  true  "Item"
// @Success      201   {object}  responses.SuccessResponse{data=ShopItem}
// @Router       /admin/shop/items [post]
func (sc *ShopController) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	item, err := sc.service.Create(req)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Item created", item)
}

// UpdateItem godoc
// @Summary      Edit a store item (admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Item ID"
// @Param        body  body      UpdateItemRequest  true  "Fields to change"
// @Success      200   {object}  responses.SuccessResponse{data=ShopItem}
// @Router       /admin/shop/items/{id} [put]
func (sc *ShopController) UpdateItem(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	item, err := sc.service.Update(id, req)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Item updated", item)
}

// DeleteItem godoc
// @Summary      Remove a store item (admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  responses.SuccessResponse
// @Router       /admin/shop/items/{id} [delete]
func (sc *ShopController) DeleteItem(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := sc.service.Delete(id); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Item deleted", nil)
}
