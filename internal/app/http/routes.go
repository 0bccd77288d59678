package routes

import (
	"net/http"

	"artshare-api/config"
	adminapi "artshare-api/internal/api/admin"
	"artshare-api/internal/api/apierr"
	artsapi "artshare-api/internal/api/arts"
	authapi "artshare-api/internal/api/auth"
	commentsapi "artshare-api/internal/api/comments"
	commissionsapi "artshare-api/internal/api/commissions"
	mediaapi "artshare-api/internal/api/media"
	stripewebhooks "artshare-api/internal/api/stripewebhook"
	"artshare-api/internal/api/users"
	"artshare-api/internal/app/http/middleware"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	apierr.Setup()

	// raw body, checked against the Stripe signature
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/login", middleware.RateLimit(config.RATE_LIMIT_PER_MINUTE), authapi.Login)
	if config.GOOGLE_CLIENT_ID != "" {
		public.GET("/auth/google", authapi.GoogleStart)
		public.GET("/auth/google/callback", authapi.GoogleCallback)
	}

	public.POST("/users", middleware.RateLimit(config.RATE_LIMIT_PER_MINUTE), users.CreateUser)
	public.GET("/users", users.ListUsers)
	public.GET("/users/:id", users.GetUser)
	public.GET("/arts", artsapi.ListArts)
	public.GET("/arts/:id", artsapi.GetArt)
	public.GET("/comments", commentsapi.ListComments)
	public.GET("/comments/:id", commentsapi.GetComment)
	public.GET("/commissions", commissionsapi.ListCommissions)
	public.GET("/commissions/:id", commissionsapi.GetCommission)
	public.GET("/media_objects/:id", mediaapi.GetMediaObject)

	// Authenticated
	auth := public.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.PUT("/users/:id", users.ReplaceUser)
	auth.DELETE("/users/:id", users.DeleteUser)
	auth.POST("/users/:id/follow", users.FollowUser)
	auth.DELETE("/users/:id/follow", users.UnfollowUser)

	auth.POST("/arts", artsapi.CreateArt)
	auth.PUT("/arts/:id", artsapi.ReplaceArt)
	auth.POST("/arts/:id/likes", artsapi.LikeArt)
	auth.DELETE("/arts/:id/likes", artsapi.UnlikeArt)

	auth.POST("/comments", commentsapi.CreateComment)
	auth.PUT("/comments/:id", commentsapi.ReplaceComment)

	auth.POST("/commissions", commissionsapi.CreateCommission)
	auth.PUT("/commissions/:id", commissionsapi.ReplaceCommission)
	auth.POST("/commissions/:id/checkout", commissionsapi.CreateCheckout)
	auth.GET("/commissions/:id/payments", commissionsapi.ListPayments)

	auth.POST("/media_objects", middleware.RateLimit(config.RATE_LIMIT_PER_MINUTE), mediaapi.UploadMediaObject)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(gallery.RoleAdmin))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/stats", adminapi.GetAdminStats)
}
