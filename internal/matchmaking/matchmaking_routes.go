package matchmaking

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterMatchmakingRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, service *MatchmakingService, processor *Processor) {
	mc := NewMatchmakingController(service, processor)
	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	router.POST("/lobby/matchmaking", auth, mc.EnqueueLobby)

	mm := router.Group("/matchmaking")
	mm.Use(auth)
	{
		mm.POST("/find", mc.Find)
		mm.POST("/cancel", mc.Cancel)
		mm.GET("/status", mc.Status)
	}

	debug := router.Group("/debug")
	debug.Use(auth, rmiddleware.AdminMiddleware(user.NewGormUserRepository(db)))
	{
		debug.POST("/matchmaking-process", mc.Process)
		debug.POST("/auto-matchmaking", mc.Auto)
	}
}
