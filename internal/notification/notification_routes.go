package notification

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterNotificationRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, hub *Hub) {
	nc := NewNotificationController(NewGormNotificationRepository(db), hub)
	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	router.GET("/ws", auth, nc.Socket)

	n := router.Group("/notifications")
	n.Use(auth)
	{
		n.GET("", nc.List)
		n.GET("/unread-count", nc.UnreadCount)
		n.POST("/read-all", nc.MarkAllRead)
		n.POST("/:id/read", nc.MarkRead)
		n.DELETE("/:id", nc.Delete)
	}
}
