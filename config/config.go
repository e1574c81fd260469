package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRICE_ID       string

	OPENAI_BASE_URL string
	OPENAI_MODEL    string

	APP_URL          string
	PREVIEW_BASE_URL string
	UPLOAD_DIR       string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")
	STRIPE_PRICE_ID = mustEnv("STRIPE_PRICE_ID")

	OPENAI_BASE_URL = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
	OPENAI_MODEL = getEnv("OPENAI_MODEL", "gpt-4o")

	APP_URL = getEnv("APP_URL", "http://localhost:5173")
	PREVIEW_BASE_URL = getEnv("PREVIEW_BASE_URL", "https://preview.cleaninghq.io")
	UPLOAD_DIR = getEnv("UPLOAD_DIR", "./uploads")

	// Google login is optional; routes are registered only when configured.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")
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
