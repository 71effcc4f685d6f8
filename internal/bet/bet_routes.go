package bet

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterBetRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	bc := NewBetController(NewBetService(db, appConfig))
	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	router.POST("/match/:id/bet", auth, bc.Place)
	router.GET("/match/:id/bet", auth, bc.Get)
	router.GET("/bets/my", auth, bc.ListMine)
}
