package bet

import (
	"net/http"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type BetController struct {
	service *BetService
}

func NewBetController(service *BetService) *BetController {
	return &BetController{service: service}
}

// Place godoc
// @Summary      Bet on your own team
// @Tags         Bets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Match ID"
// @Param        body  body      PlaceBetRequest  true  "Stake"
// @Success      201   {object}  responses.SuccessResponse{data=Bet}
// @Failure      400   {object}  responses.ErrorResponse "Out of range or insufficient balance"
// @Failure      403   {object}  responses.ErrorResponse "Not a participant"
// @Failure      409   {object}  responses.ErrorResponse "Betting closed or already placed"
// @Router       /match/{id}/bet [post]
func (bc *BetController) Place(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	matchID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	b, err := bc.service.Place(userID, matchID, req.Amount)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Bet placed", b)
}

// Get godoc
// @Summary      Caller's bet on a match
// @Tags         Bets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=Bet}
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /match/{id}/bet [get]
func (bc *BetController) Get(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	matchID, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	b, err := bc.service.Get(userID, matchID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", b)
}

// ListMine godoc
// @Summary      Caller's bets
// @Tags         Bets
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  responses.PaginatedResponse{data=[]Bet}
// @Router       /bets/my [get]
func (bc *BetController) ListMine(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	page, limit := common.Pagination(c, 20, 100)
	items, total, err := bc.service.ListMine(userID, page, limit)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, page, limit)
}
