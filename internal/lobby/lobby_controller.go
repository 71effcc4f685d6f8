package lobby

import (
	"net/http"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type LobbyController struct {
	service *LobbyService
}

func NewLobbyController(service *LobbyService) *LobbyController {
	return &LobbyController{service: service}
}

// lobbyCall resolves the caller and the :id param shared by most handlers.
func lobbyCall(c *gin.Context) (userID, lobbyID uint, ok bool) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return 0, 0, false
	}
	lobbyID, err = common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return 0, 0, false
	}
	return userID, lobbyID, true
}

// Create godoc
// @Summary      Create a lobby
// @Tags         Lobby
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateLobbyRequest  true  "Lobby"
// @Success      201   {object}  responses.SuccessResponse{data=LobbyView}
// @Failure      409   {object}  responses.ErrorResponse "Already in a lobby"
// @Router       /lobby [post]
func (lc *LobbyController) Create(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req CreateLobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	v, err := lc.service.Create(userID, req)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Lobby created", v)
}

// Current godoc
// @Summary      The caller's open lobby
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=LobbyView}
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /lobby/current [get]
func (lc *LobbyController) Current(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	v, err := lc.service.Current(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", v)
}

// Get godoc
// @Summary      Lobby details (members or admin)
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Lobby ID"
// @Success      200  {object}  responses.SuccessResponse{data=LobbyView}
// @Router       /lobby/{id} [get]
func (lc *LobbyController) Get(c *gin.Context) {
	userID, lobbyID, ok := lobbyCall(c)
	if !ok {
		return
	}
	v, err := lc.service.Get(lobbyID, userID, common.IsAdmin(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", v)
}

// Join godoc
// @Summary      Join a lobby
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Lobby ID"
// @Success      200  {object}  responses.SuccessResponse{data=LobbyView}
// @Failure      409  {object}  responses.ErrorResponse "Full or not accepting players"
// @Router       /lobby/{id}/join [post]
func (lc *LobbyController) Join(c *gin.Context) {
	userID, lobbyID, ok := lobbyCall(c)
	if !ok {
		return
	}
	v, err := lc.service.Join(lobbyID, userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Joined lobby", v)
}

// Invite godoc
// @Summary      Invite a player
// @Tags         Lobby
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Lobby ID"
// @Param        body  body      InviteRequest  true  "Invitee"
// @Success      201   {object}  responses.SuccessResponse{data=LobbyInvite}
// @Router       /lobby/{id}/invite [post]
func (lc *LobbyController) Invite(c *gin.Context) {
	userID, lobbyID, ok := lobbyCall(c)
	if !ok {
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	inv, err := lc.service.Invite(lobbyID, userID, req.UserID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Invite sent", inv)
}

// Invites godoc
// @Summary      Pending lobby invites for the caller
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=[]LobbyInvite}
// @Router       /lobby/invites [get]
func (lc *LobbyController) Invites(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	out, err := lc.service.Invites(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// AcceptInvite godoc
// @Summary      Accept a lobby invite
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Param        inviteId  path      int  true  "Invite ID"
// @Success      200       {object}  responses.SuccessResponse{data=LobbyView}
// @Router       /lobby/invites/{inviteId}/accept [post]
func (lc *LobbyController) AcceptInvite(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	inviteID, err := common.ParseIDParam(c, "inviteId")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	v, err := lc.service.AcceptInvite(inviteID, userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Joined lobby", v)
}

// DeclineInvite godoc
// @Summary      Decline a lobby invite
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Param        inviteId  path      int  true  "Invite ID"
// @Success      200       {object}  responses.SuccessResponse
// @Router       /lobby/invites/{inviteId}/decline [post]
func (lc *LobbyController) DeclineInvite(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	inviteID, err := common.ParseIDParam(c, "inviteId")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := lc.service.DeclineInvite(inviteID, userID); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Invite declined", nil)
}

// Leave godoc
// @Summary      Leave a lobby (the owner leaving closes it)
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Lobby ID"
// @Success      200  {object}  responses.SuccessResponse
// @Router       /lobby/{id}/leave [post]
func (lc *LobbyController) Leave(c *gin.Context) {
	userID, lobbyID, ok := lobbyCall(c)
	if !ok {
		return
	}
	if err := lc.service.Leave(lobbyID, userID); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Left lobby", nil)
}

// Kick godoc
// @Summary      Remove a member (owner only)
// @Tags         Lobby
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Lobby ID"
// @Param        body  body      KickRequest  true  "Target"
// @Success      200   {object}  responses.SuccessResponse{data=LobbyView}
// @Failure      403   {object}  responses.ErrorResponse
// @Router       /lobby/{id}/kick [post]
func (lc *LobbyController) Kick(c *gin.Context) {
	userID, lobbyID, ok := lobbyCall(c)
	if !ok {
		return
	}
	var req KickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	v, err := lc.service.Kick(lobbyID, userID, req.UserID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member removed", v)
}

// Ready godoc
// @Summary      Set the caller's ready flag
// @Tags         Lobby
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Lobby ID"
// @Param        body  body      ReadyRequest  true  "Ready flag"
// @Success      200   {object}  responses.SuccessResponse{data=LobbyView}
// @Router       /lobby/{id}/ready [post]
func (lc *LobbyController) Ready(c *gin.Context) {
	userID, lobbyID, ok := lobbyCall(c)
	if !ok {
		return
	}
	var req ReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	v, err := lc.service.SetReady(lobbyID, userID, *req.IsReady)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Ready state updated", v)
}

// Start godoc
// @Summary      Start a match from a ready lobby (owner only)
// @Tags         Lobby
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Lobby ID"
// @Success      201  {object}  responses.SuccessResponse{data=match.Match}
// @Failure      403  {object}  responses.ErrorResponse "Not the owner"
// @Failure      409  {object}  responses.ErrorResponse "Not active or not all ready"
// @Router       /lobby/{id}/start [post]
func (lc *LobbyController) Start(c *gin.Context) {
	userID, lobbyID, ok := lobbyCall(c)
	if !ok {
		return
	}
	m, err := lc.service.Start(lobbyID, userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Match created", m)
}
