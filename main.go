package main

import (
	"context"
	"os"
	"time"

	"artshare-api/config"
	"artshare-api/database"
	mediaapi "artshare-api/internal/api/media"
	routes "artshare-api/internal/app/http"
	"artshare-api/internal/app/http/middleware"
	"artshare-api/internal/infra/logger"
	"artshare-api/internal/infra/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
)

func main() {
	config.LoadEnv()

	base := logger.New("artshare-api", config.LOG_DEBUG)
	log.SetLogger(base)
	helper := log.NewHelper(base)

	database.InitDB()

	if config.MEDIA_BUCKET != "" {
		store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:          config.MEDIA_BUCKET,
			Endpoint:        config.MEDIA_ENDPOINT,
			Region:          config.MEDIA_REGION,
			AccessKeyID:     config.MEDIA_ACCESS_KEY_ID,
			SecretAccessKey: config.MEDIA_SECRET_ACCESS_KEY,
		})
		if err != nil {
			helper.Fatalf("media storage: %v", err)
		}
		mediaapi.SetStore(store)
	} else {
		helper.Warn("MEDIA_BUCKET not set, media uploads are disabled")
	}

	if !config.LOG_DEBUG {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger.With(base, "http")))

	// CORS before the routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	helper.Infof("listening on :%s", config.PORT)
	if err := r.Run(":" + config.PORT); err != nil {
		helper.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
