package router

import (
	"net/http"
	"time"

	"parley/config"
	"parley/internal/handler"
	"parley/internal/middleware"
	"parley/internal/repository"
	"parley/internal/service"
	"parley/internal/ws"
	"parley/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(300, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	realmRepo := repository.NewRealmRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	emojiRepo := repository.NewEmojiRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, realmRepo)
	presenceSvc := service.NewPresenceService(&cfg.Presence, presenceRepo, userRepo, realmRepo, activityRepo)
	statusSvc := service.NewStatusService(statusRepo, emojiRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	presenceHandler := handler.NewPresenceHandler(presenceSvc, userRepo)
	statusHandler := handler.NewStatusHandler(statusSvc, userRepo)
	emojiHandler := handler.NewEmojiHandler(emojiRepo, cloud)

	hub := ws.NewHub()

	authMw := middleware.AuthRequired(&cfg.JWT)
	activityMw := middleware.TrackActivity(activityRepo)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_clients": hub.ClientCount()})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		users := api.Group("/users")
		users.Use(authMw, activityMw)
		{
			users.POST("/me/presence", presenceHandler.UpdateActiveStatus)
			users.POST("/me/status", statusHandler.UpdateStatus)
			users.GET("/:id/presence", presenceHandler.GetUserPresence)
			users.GET("/:id/status", statusHandler.GetStatus)
			users.POST("/:id/status", middleware.AdminRequired(), statusHandler.UpdateStatusAdmin)
		}

		realm := api.Group("/realm")
		realm.Use(authMw, activityMw)
		{
			realm.GET("/presence", presenceHandler.GetRealmPresence)
			realm.GET("/emoji", emojiHandler.List)
			realm.POST("/emoji/:name", middleware.AdminRequired(), emojiHandler.Upload)
			realm.DELETE("/emoji/:name", middleware.AdminRequired(), emojiHandler.Deactivate)
		}
	}

	r.GET("/ws/presence", ws.UpgradePresenceWS(&cfg.JWT, hub, presenceSvc, userRepo))

	return r
}
