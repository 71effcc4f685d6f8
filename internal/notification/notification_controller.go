package notification

import (
	"net/http"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	repo NotificationRepository
	hub  *Hub
}

func NewNotificationController(repo NotificationRepository, hub *Hub) *NotificationController {
	return &NotificationController{repo: repo, hub: hub}
}

// List godoc
// @Summary      List notifications
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query     bool  false  "Only unread"
// @Param        page    query     int   false  "Page"
// @Param        limit   query     int   false  "Page size"
// @Success      200     {object}  responses.PaginatedResponse{data=[]Notification}
// @Router       /notifications [get]
func (nc *NotificationController) List(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	page, limit := common.Pagination(c, 20, 100)
	items, total, err := nc.repo.List(userID, c.Query("unread") == "true", page, limit)
	if err != nil {
		responses.FromError(c, apperr.Internal(err, "list notifications"))
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, page, limit)
}

// UnreadCount godoc
// @Summary      Number of unread notifications
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse
// @Router       /notifications/unread-count [get]
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	n, err := nc.repo.UnreadCount(userID)
	if err != nil {
		responses.FromError(c, apperr.Internal(err, "count notifications"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"unread": n})
}

// MarkRead godoc
// @Summary      Mark one notification read
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /notifications/{id}/read [post]
func (nc *NotificationController) MarkRead(c *gin.Context) {
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
	if err := nc.repo.MarkRead(userID, id); err != nil {
		responses.FromError(c, apperr.FromDB(err, "Notification not found"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse
// @Router       /notifications/read-all [post]
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	n, err := nc.repo.MarkAllRead(userID)
	if err != nil {
		responses.FromError(c, apperr.Internal(err, "mark all read"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": n})
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /notifications/{id} [delete]
func (nc *NotificationController) Delete(c *gin.Context) {
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
	if err := nc.repo.Delete(userID, id); err != nil {
		responses.FromError(c, apperr.FromDB(err, "Notification not found"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Notification deleted", nil)
}

// Socket godoc
// @Summary      Live notification socket
// @Description  Upgrades to a websocket. Browsers pass the access token as ?token=.
// @Tags         Notifications
// @Security     BearerAuth
// @Param        token  query  string  false  "Access token"
// @Router       /ws [get]
func (nc *NotificationController) Socket(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	// The upgrader already wrote an HTTP error on failure.
	_ = nc.hub.Serve(c.Writer, c.Request, userID)
}
