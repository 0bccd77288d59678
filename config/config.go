package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_DRIVER   string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string
	APP_URL     string
	LOG_DEBUG   bool

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string

	MEDIA_BUCKET            string
	MEDIA_ENDPOINT          string
	MEDIA_REGION            string
	MEDIA_ACCESS_KEY_ID     string
	MEDIA_SECRET_ACCESS_KEY string
	MEDIA_PUBLIC_URL        string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	RATE_LIMIT_PER_MINUTE int
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_DRIVER = strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	if DB_DRIVER == "sqlite" {
		DB_URL = getEnv("DB_URL", "")
		if DB_URL == "" {
			DB_URL = "artshare.db"
		}
	} else {
		DB_URL = mustEnv("DB_URL")
	}
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")
	APP_URL = getEnv("APP_URL", "http://localhost:3000")
	LOG_DEBUG = getBool("LOG_DEBUG", false)

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")

	MEDIA_BUCKET = getEnv("MEDIA_BUCKET", "")
	MEDIA_ENDPOINT = getEnv("MEDIA_ENDPOINT", "")
	MEDIA_REGION = getEnv("MEDIA_REGION", "auto")
	MEDIA_ACCESS_KEY_ID = getEnv("MEDIA_ACCESS_KEY_ID", "")
	MEDIA_SECRET_ACCESS_KEY = getEnv("MEDIA_SECRET_ACCESS_KEY", "")
	MEDIA_PUBLIC_URL = getEnv("MEDIA_PUBLIC_URL", "")

	// Google sign-in is optional; routes are only mounted when the client id is set.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	RATE_LIMIT_PER_MINUTE = getInt("RATE_LIMIT_PER_MINUTE", 20)
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warnf("invalid integer for %s: %q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warnf("invalid boolean for %s: %q, using %t", key, raw, fallback)
		return fallback
	}
	return b
}
