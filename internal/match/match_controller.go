package match

import (
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type MatchController struct {
	service *MatchService
}

func NewMatchController(service *MatchService) *MatchController {
	return &MatchController{service: service}
}

// ListMine godoc
// @Summary      Matches the caller played in
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  responses.PaginatedResponse{data=[]MatchView}
// @Router       /matches/my [get]
func (mc *MatchController) ListMine(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	page, limit := common.Pagination(c, 20, 100)
	items, total, err := mc.service.ListMine(userID, c.Query("status"), page, limit)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, page, limit)
}

// Get godoc
// @Summary      Match details
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /matches/{id} [get]
func (mc *MatchController) Get(c *gin.Context) {
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
	v, err := mc.service.Get(id, userID, common.IsAdmin(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", v)
}

// Status godoc
// @Summary      Poll match status and room timer
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=StatusView}
// @Router       /matches/{id}/status [get]
func (mc *MatchController) Status(c *gin.Context) {
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
	v, err := mc.service.Status(id, userID, common.IsAdmin(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", v)
}

// ConfigureRoom godoc
// @Summary      Set room credentials (admin)
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ConfigureRoomRequest  true  "Room"
// @Success      200   {object}  responses.SuccessResponse{data=MatchView}
// @Failure      409   {object}  responses.ErrorResponse
// @Router       /matches/configure-room [post]
func (mc *MatchController) ConfigureRoom(c *gin.Context) {
	var req ConfigureRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	v, err := mc.service.ConfigureRoom(req.MatchID, req.IDSala, req.SenhaSala, req.StartTimer)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Room configured", v)
}

// ConfigureByID godoc
// @Summary      Set room credentials for a match (admin)
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Match ID"
// @Param        body  body      ConfigureByIDRequest  true  "Room"
// @Success      200   {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/configure [post]
func (mc *MatchController) ConfigureByID(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req ConfigureByIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	v, err := mc.service.ConfigureRoom(id, req.IDSala, req.SenhaSala, req.StartTimer)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Room configured", v)
}

// SubmitResult godoc
// @Summary      Upload the result screenshot
// @Tags         Matches
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        matchId  formData  int   true  "Match ID"
// @Param        image    formData  file  true  "Screenshot (png, jpg, webp, max 5MB)"
// @Success      200      {object}  responses.SuccessResponse{data=MatchView}
// @Failure      403      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Router       /matches/submit-result [post]
func (mc *MatchController) SubmitResult(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	matchID, err := strconv.ParseUint(c.PostForm("matchId"), 10, 64)
	if err != nil || matchID == 0 {
		responses.BadRequest(c, "matchId is required")
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		responses.BadRequest(c, "image is required")
		return
	}
	v, err := mc.service.SubmitResult(userID, uint(matchID), file)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Result submitted for validation", v)
}

// Validate godoc
// @Summary      Approve or reject a submitted result (admin)
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Match ID"
// @Param        body  body      ValidateRequest  true  "Decision"
// @Success      200   {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/validate [post]
func (mc *MatchController) Validate(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	v, err := mc.service.Validate(id, *req.Approve, req.WinnerTeam, req.Reason)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	msg := "Result rejected"
	if *req.Approve {
		msg = "Match completed"
	}
	responses.SendSuccess(c, http.StatusOK, msg, v)
}

// Cancel godoc
// @Summary      Cancel a match and refund bets (admin)
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true   "Match ID"
// @Param        body  body      CancelRequest  false  "Reason"
// @Success      200   {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/cancel [post]
func (mc *MatchController) Cancel(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationError(c, err)
			return
		}
	}
	v, err := mc.service.Cancel(id, req.Reason)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match canceled", v)
}

// AdminList godoc
// @Summary      All matches (admin)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  responses.PaginatedResponse{data=[]MatchView}
// @Router       /admin/matches [get]
func (mc *MatchController) AdminList(c *gin.Context) {
	page, limit := common.Pagination(c, 20, 100)
	items, total, err := mc.service.ListAll(c.Query("status"), page, limit)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, page, limit)
}
