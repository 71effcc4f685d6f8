package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/admin"
	"github.com/DhavalSuthar-24/arena/internal/auth"
	"github.com/DhavalSuthar-24/arena/internal/bet"
	"github.com/DhavalSuthar-24/arena/internal/friend"
	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/matchmaking"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/shop"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/lock"
	"github.com/DhavalSuthar-24/arena/pkg/metrics"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
)

// uploadsURLPrefix is where files under App.UploadDir are served.
const uploadsURLPrefix = "/public/uploads"

// Services are the long-lived pieces shared between handlers and the
// background matchmaking worker.
type Services struct {
	Hub         *notification.Hub
	Notifier    notification.Notifier
	Matches     *match.MatchService
	Matchmaking *matchmaking.MatchmakingService
	Lobbies     *lobby.LobbyService
	Processor   *matchmaking.Processor
}

func NewServices(db *gorm.DB, cfg *config.Config, locker lock.Locker) *Services {
	hub := notification.NewHub(cfg.App.FrontendURL)
	sink := notification.NewSink(db, hub)
	mm := matchmaking.NewMatchmakingService(db, cfg)
	store := match.NewDiskStore(cfg.App.UploadDir, uploadsURLPrefix)

	return &Services{
		Hub:         hub,
		Notifier:    sink,
		Matches:     match.NewMatchService(db, cfg, sink, bet.NewSettler(cfg.Betting.PayoutMultiplier), store),
		Matchmaking: mm,
		Lobbies:     lobby.NewLobbyService(db, cfg, sink, mm),
		Processor:   matchmaking.NewProcessor(db, locker, sink, cfg.QueueTTL()),
	}
}

func SetupRoutes(db *gorm.DB, cfg *config.Config, svc *Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.App.FrontendURL}
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg))

	r.Static(uploadsURLPrefix, cfg.App.UploadDir)

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`
			<html>
				<head><title>Arena</title></head>
				<body style="text-align:center; margin-top: 40px;">
					<h1>Arena API</h1>
					<a href="/swagger/index.html">swagger</a>
				</body>
			</html>
		`))
	})

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			responses.SendError(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		responses.SendSuccess(c, http.StatusOK, "ok", nil)
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, cfg)
	user.RegisterUserRoutes(api, db, cfg)
	wallet.RegisterWalletRoutes(api, db, cfg)
	notification.RegisterNotificationRoutes(api, db, cfg, svc.Hub)
	lobby.RegisterLobbyRoutes(api, db, cfg, svc.Lobbies)
	matchmaking.RegisterMatchmakingRoutes(api, db, cfg, svc.Matchmaking, svc.Processor)
	match.RegisterMatchRoutes(api, db, cfg, svc.Matches)
	bet.RegisterBetRoutes(api, db, cfg)
	friend.RegisterFriendRoutes(api, db, cfg, svc.Notifier)
	shop.RegisterShopRoutes(api, db, cfg, svc.Notifier)
	admin.RegisterAdminRoutes(api, db, cfg, svc.Notifier)

	return r
}
