package wallet

import (
	"net/http"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type WalletController struct {
	service *WalletService
}

func NewWalletController(service *WalletService) *WalletController {
	return &WalletController{service: service}
}

// Balance godoc
// @Summary      Wallet balance
// @Tags         Wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=BalanceResponse}
// @Router       /wallet/balance [get]
func (wc *WalletController) Balance(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	bal, err := wc.service.Balance(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", BalanceResponse{Balance: bal})
}

// Deposit godoc
// @Summary      Deposit coins
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      AmountRequest  true  "Amount"
// @Success      200   {object}  responses.SuccessResponse{data=Transaction}
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /wallet/deposit [post]
func (wc *WalletController) Deposit(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	t, err := wc.service.Deposit(userID, req.Amount)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Deposit successful", t)
}

// Withdraw godoc
// @Summary      Withdraw coins
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      AmountRequest  true  "Amount"
// @Success      200   {object}  responses.SuccessResponse{data=Transaction}
// @Failure      400   {object}  responses.ErrorResponse "Below minimum or insufficient balance"
// @Router       /wallet/withdraw [post]
func (wc *WalletController) Withdraw(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	t, err := wc.service.Withdraw(userID, req.Amount)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Withdrawal successful", t)
}

// Transactions godoc
// @Summary      Ledger history
// @Tags         Wallet
// @Produce      json
// @Security     BearerAuth
// @Param        type   query     string  false  "Filter by transaction type"
// @Param        page   query     int     false  "Page"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  responses.PaginatedResponse{data=[]Transaction}
// @Router       /wallet/transactions [get]
func (wc *WalletController) Transactions(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	page, limit := common.Pagination(c, 20, 100)
	items, total, err := wc.service.Transactions(userID, c.Query("type"), page, limit)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, page, limit)
}
