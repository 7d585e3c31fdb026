package router

import (
	"time"

	"hibro/config"
	"hibro/internal/handler"
	"hibro/internal/middleware"
	"hibro/internal/repository"
	"hibro/internal/service"
	"hibro/internal/ws"
	"hibro/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	matchingSvc := service.NewMatchingService(db)
	notifSvc := service.NewNotificationService(notificationRepo, notifHub)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, postRepo)
	postHandler := handler.NewPostHandler(postRepo, requestRepo, userRepo, matchingSvc)
	requestHandler := handler.NewRequestHandler(requestRepo, postRepo, userRepo, matchingSvc, notifSvc)
	favoriteHandler := handler.NewFavoriteHandler(favRepo, postRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		api.GET("/travel-posts", postHandler.List)
		api.GET("/travel-posts/:id", postHandler.Get)

		authed := api.Group("")
		authed.Use(authMw)
		{
			authed.POST("/travel-posts", postHandler.Create)
			authed.PUT("/travel-posts/:id", postHandler.Update)
			authed.DELETE("/travel-posts/:id", postHandler.Delete)

			authed.POST("/travel-posts/:id/requests", requestHandler.Create)
			authed.GET("/travel-posts/:id/requests", requestHandler.ListForPost)
			authed.GET("/requests", requestHandler.ListPending)
			authed.POST("/requests/:id/accept", requestHandler.Accept)
			authed.POST("/requests/:id/reject", requestHandler.Reject)

			authed.POST("/travel-posts/:id/favorite", favoriteHandler.Add)
			authed.DELETE("/travel-posts/:id/favorite", favoriteHandler.Remove)

			authed.POST("/uploads/post-image", uploadHandler.UploadPostImage)

			me := authed.Group("/me")
			{
				me.GET("/profile", meHandler.GetProfile)
				me.PATCH("/profile", meHandler.UpdateProfile)
				me.GET("/requests", requestHandler.ListMine)
				me.GET("/favorites", favoriteHandler.List)
				me.GET("/notifications", notificationHandler.List)
				me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			}
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, notifHub))

	return r
}
