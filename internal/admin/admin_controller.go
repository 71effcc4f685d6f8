package admin

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	service *AdminService
}

func NewAdminController(service *AdminService) *AdminController {
	return &AdminController{service: service}
}

// Dashboard godoc
// @Summary      Platform counters
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=Dashboard}
// @Router       /admin/dashboard [get]
func (ac *AdminController) Dashboard(c *gin.Context) {
	d, err := ac.service.Dashboard()
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", d)
}

// Users godoc
// @Summary      Users, optionally filtered by username or email
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Search"
// @Param        page   query     int     false  "Page"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  responses.PaginatedResponse{data=[]user.UserResponse}
// @Router       /admin/users [get]
func (ac *AdminController) Users(c *gin.Context) {
	page, limit := common.Pagination(c, 20, 100)
	out, total, err := ac.service.Users(strings.TrimSpace(c.Query("q")), page, limit)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", out, total, page, limit)
}

// SetRole godoc
// @Summary      Change a user's role
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "User ID"
// @Param        body  body      RoleRequest  true  "Role"
// @Success      200   {object}  responses.SuccessResponse{data=user.UserResponse}
// @Router       /admin/users/{id}/role [put]
func (ac *AdminController) SetRole(c *gin.Context) {
	adminID, targetID, ok := adminCall(c)
	if !ok {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	u, err := ac.service.SetRole(adminID, targetID, req.Role)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Role updated", u)
}

// Ban godoc
// @Summary      Ban a user
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int         true   "User ID"
// @Param        body  body      BanRequest  false  "Reason"
// @Success      200   {object}  responses.SuccessResponse{data=user.UserResponse}
// @Router       /admin/users/{id}/ban [post]
func (ac *AdminController) Ban(c *gin.Context) {
	adminID, targetID, ok := adminCall(c)
	if !ok {
		return
	}
	var req BanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationError(c, err)
			return
		}
	}
	u, err := ac.service.Ban(adminID, targetID, req.Reason)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User banned", u)
}

// Unban godoc
// @Summary      Lift a ban
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  responses.SuccessResponse{data=user.UserResponse}
// @Router       /admin/users/{id}/unban [post]
func (ac *AdminController) Unban(c *gin.Context) {
	_, targetID, ok := adminCall(c)
	if !ok {
		return
	}
	u, err := ac.service.Unban(targetID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User unbanned", u)
}

// AdjustBalance godoc
// @Summary      Credit or debit a user's wallet
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "User ID"
// @Param        body  body      BalanceRequest  true  "Signed amount"
// @Success      200   {object}  responses.SuccessResponse{data=wallet.Transaction}
// @Failure      400   {object}  responses.ErrorResponse "Zero amount or insufficient balance"
// @Router       /admin/users/{id}/balance [post]
func (ac *AdminController) AdjustBalance(c *gin.Context) {
	_, targetID, ok := adminCall(c)
	if !ok {
		return
	}
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	t, err := ac.service.AdjustBalance(targetID, req.Amount, req.Reason)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Balance adjusted", t)
}

func adminCall(c *gin.Context) (adminID, targetID uint, ok bool) {
	adminID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return 0, 0, false
	}
	targetID, err = common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return 0, 0, false
	}
	return adminID, targetID, true
}
