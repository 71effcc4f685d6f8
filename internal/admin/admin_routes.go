package admin

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterAdminRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, notifier notification.Notifier) {
	ac := NewAdminController(NewAdminService(db, wallet.NewWalletService(db, appConfig), notifier))

	admin := router.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db),
		rmiddleware.AdminMiddleware(user.NewGormUserRepository(db)),
	)
	{
		admin.GET("/dashboard", ac.Dashboard)
		admin.GET("/users", ac.Users)
		admin.PUT("/users/:id/role", ac.SetRole)
		admin.POST("/users/:id/ban", ac.Ban)
		admin.POST("/users/:id/unban", ac.Unban)
		admin.POST("/users/:id/balance", ac.AdjustBalance)
	}
}
