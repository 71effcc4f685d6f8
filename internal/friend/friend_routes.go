package friend

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterFriendRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, notifier notification.Notifier) {
	fc := NewFriendController(NewFriendService(db, notifier))

	friends := router.Group("/friends")
	friends.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		friends.GET("", fc.List)
		friends.POST("/requests", fc.Send)
		friends.GET("/requests", fc.Requests)
		friends.POST("/requests/:id/accept", fc.Accept)
		friends.POST("/requests/:id/reject", fc.Reject)
		friends.DELETE("/:userId", fc.Remove)
	}
}
