package user

import (
	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterUserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	uc := NewUserController(NewGormUserRepository(db))

	router.GET("/users/leaderboard", uc.Leaderboard)

	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		users.GET("/me", uc.GetMe)
		users.PUT("/me", uc.UpdateMe)
		users.GET("/search", uc.Search)
		users.GET("/:id", uc.GetProfile)
	}
}
