package wallet

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterWalletRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	wc := NewWalletController(NewWalletService(db, appConfig))

	w := router.Group("/wallet")
	w.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		w.GET("/balance", wc.Balance)
		w.POST("/deposit", wc.Deposit)
		w.POST("/withdraw", wc.Withdraw)
		w.GET("/transactions", wc.Transactions)
	}
}
