package match

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterMatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, service *MatchService) {
	mc := NewMatchController(service)
	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)
	admin := rmiddleware.AdminMiddleware(user.NewGormUserRepository(db))

	matches := router.Group("/matches")
	matches.Use(auth)
	{
		matches.GET("/my", mc.ListMine)
		matches.POST("/submit-result", mc.SubmitResult)
		matches.GET("/:id", mc.Get)
		matches.GET("/:id/status", mc.Status)

		matches.POST("/configure-room", admin, mc.ConfigureRoom)
		matches.POST("/:id/configure", admin, mc.ConfigureByID)
		matches.POST("/:id/validate", admin, mc.Validate)
		matches.POST("/:id/cancel", admin, mc.Cancel)
	}

	router.GET("/admin/matches", auth, admin, mc.AdminList)
}
