package matchmaking

import (
	"net/http"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type MatchmakingController struct {
	service   *MatchmakingService
	processor *Processor
}

func NewMatchmakingController(service *MatchmakingService, processor *Processor) *MatchmakingController {
	return &MatchmakingController{service: service, processor: processor}
}

// EnqueueLobby godoc
// @Summary      Queue a ready lobby for matchmaking (owner only)
// @Tags         Matchmaking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      LobbyQueueRequest  true  "Queue parameters"
// @Success      201   {object}  responses.SuccessResponse{data=QueueEntry}
// @Failure      403   {object}  responses.ErrorResponse
// @Failure      409   {object}  responses.ErrorResponse "Already queued, in a match, or not ready"
// @Router       /lobby/matchmaking [post]
func (mc *MatchmakingController) EnqueueLobby(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req LobbyQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	e, err := mc.service.EnqueueLobby(userID, req)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Lobby queued for matchmaking", e)
}

// Find godoc
// @Summary      Queue the caller alone
// @Tags         Matchmaking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      FindRequest  true  "Queue parameters"
// @Success      201   {object}  responses.SuccessResponse{data=QueueEntry}
// @Router       /matchmaking/find [post]
func (mc *MatchmakingController) Find(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req FindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	e, err := mc.service.Find(userID, req)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Searching for a match", e)
}

// Cancel godoc
// @Summary      Leave the matchmaking queue
// @Tags         Matchmaking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CancelRequest  false  "Entry to cancel; defaults to the caller's"
// @Success      200   {object}  responses.SuccessResponse{data=QueueEntry}
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /matchmaking/cancel [post]
func (mc *MatchmakingController) Cancel(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationError(c, err)
			return
		}
	}
	e, err := mc.service.Cancel(userID, req.WaitingID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Matchmaking canceled", e)
}

// Status godoc
// @Summary      Poll the caller's matchmaking state
// @Tags         Matchmaking
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=StatusResponse}
// @Router       /matchmaking/status [get]
func (mc *MatchmakingController) Status(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	st, err := mc.service.Status(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", st)
}

// Process godoc
// @Summary      Run one matchmaking pass (admin)
// @Tags         Debug
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=Summary}
// @Router       /debug/matchmaking-process [post]
func (mc *MatchmakingController) Process(c *gin.Context) {
	sum, err := mc.processor.Process(c.Request.Context())
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Matchmaking pass finished", sum)
}

// Auto godoc
// @Summary      Queue every ready lobby then run a pass (admin)
// @Tags         Debug
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=AutoSummary}
// @Router       /debug/auto-matchmaking [post]
func (mc *MatchmakingController) Auto(c *gin.Context) {
	queued, err := mc.service.EnqueueReadyLobbies()
	if err != nil {
		responses.FromError(c, err)
		return
	}
	sum, err := mc.processor.Process(c.Request.Context())
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Auto matchmaking finished", AutoSummary{Enqueued: queued, Pass: sum})
}
