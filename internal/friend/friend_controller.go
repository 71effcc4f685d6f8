package friend

import (
	"net/http"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type FriendController struct {
	service *FriendService
}

func NewFriendController(service *FriendService) *FriendController {
	return &FriendController{service: service}
}

// Send godoc
// @Summary      Send a friend request
// @Tags         Friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      SendRequest  true  "Receiver by id or username"
// @Success      201   {object}  responses.SuccessResponse{data=FriendRequest}
// @Failure      409   {object}  responses.ErrorResponse
// @Router       /friends/requests [post]
func (fc *FriendController) Send(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	fr, err := fc.service.Send(userID, req)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Friend request sent", fr)
}

// Requests godoc
// @Summary      Pending friend requests
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        direction  query     string  false  "incoming (default) or outgoing"
// @Success      200        {object}  responses.SuccessResponse{data=[]RequestView}
// @Router       /friends/requests [get]
func (fc *FriendController) Requests(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	out, err := fc.service.Requests(userID, c.Query("direction"))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

func (fc *FriendController) answer(c *gin.Context, accept bool) {
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
	if accept {
		fr, err := fc.service.Accept(userID, id)
		if err != nil {
			responses.FromError(c, err)
			return
		}
		responses.SendSuccess(c, http.StatusOK, "Friend request accepted", fr)
		return
	}
	fr, err := fc.service.Reject(userID, id)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Friend request rejected", fr)
}

// Accept godoc
// @Summary      Accept a friend request
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  responses.SuccessResponse{data=FriendRequest}
// @Router       /friends/requests/{id}/accept [post]
func (fc *FriendController) Accept(c *gin.Context) { fc.answer(c, true) }

// Reject godoc
// @Summary      Reject a friend request
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  responses.SuccessResponse{data=FriendRequest}
// @Router       /friends/requests/{id}/reject [post]
func (fc *FriendController) Reject(c *gin.Context) { fc.answer(c, false) }

// List godoc
// @Summary      The caller's friends
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=[]RequestView}
// @Router       /friends [get]
func (fc *FriendController) List(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	out, err := fc.service.List(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// Remove godoc
// @Summary      Unfriend a player
// @Tags         Friends
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "Friend's user ID"
// @Success      200     {object}  responses.SuccessResponse
// @Router       /friends/{userId} [delete]
func (fc *FriendController) Remove(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	friendID, err := common.ParseIDParam(c, "userId")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := fc.service.Remove(userID, friendID); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Friend removed", nil)
}
