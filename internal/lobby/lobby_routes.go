package lobby

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterLobbyRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, service *LobbyService) {
	lc := NewLobbyController(service)

	lobby := router.Group("/lobby")
	lobby.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		lobby.POST("", lc.Create)
		lobby.GET("/current", lc.Current)
		lobby.GET("/invites", lc.Invites)
		lobby.POST("/invites/:inviteId/accept", lc.AcceptInvite)
		lobby.POST("/invites/:inviteId/decline", lc.DeclineInvite)

		lobby.GET("/:id", lc.Get)
		lobby.POST("/:id/join", lc.Join)
		lobby.POST("/:id/invite", lc.Invite)
		lobby.POST("/:id/leave", lc.Leave)
		lobby.POST("/:id/kick", lc.Kick)
		lobby.POST("/:id/ready", lc.Ready)
		lobby.POST("/:id/start", lc.Start)
	}
}
