package shop

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterShopRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, notifier notification.Notifier) {
	sc := NewShopController(NewShopService(db, notifier))
	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	public := router.Group("/shop")
	{
		public.GET("/items", sc.ListItems)
		public.GET("/items/:id", sc.GetItem)
	}

	authed := router.Group("/shop")
	authed.Use(auth)
	{
		authed.POST("/items/:id/purchase", sc.Purchase)
		authed.GET("/inventory", sc.Inventory)
	}

	admin := router.Group("/admin/shop")
	admin.Use(auth, rmiddleware.AdminMiddleware(user.NewGormUserRepository(db)))
	{
		admin.POST("/items", sc.CreateItem)
		admin.PUT("/items/:id", sc.UpdateItem)
		admin.DELETE("/items/:id", sc.DeleteItem)
	}
}
