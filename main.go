package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cleaninghq-app/config"
	"cleaninghq-app/database"
	routes "cleaninghq-app/internal/app/http"
	"cleaninghq-app/internal/infra/llm"
	"cleaninghq-app/internal/store"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	deps := routes.Deps{
		Store: store.NewGorm(database.DB),
		// Full-site generation is slow; edit interpretation returns a small
		// plan and gets a tighter budget.
		GenLLM:  llm.NewClient(config.OPENAI_BASE_URL, config.OPENAI_MODEL, 120*time.Second),
		EditLLM: llm.NewClient(config.OPENAI_BASE_URL, config.OPENAI_MODEL, 60*time.Second),
	}
	routes.RegisterRoutes(r, deps)

	r.Run(":" + config.PORT)
}
