package database

import (
	"os"

	"cleaninghq-app/internal/domain/sites"
	"cleaninghq-app/internal/domain/users"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	DB = db

	// Required for uuid generation on primary keys.
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("Failed to enable pgcrypto extension: ", err)
	}

	if err := DB.AutoMigrate(
		&users.User{},

		&sites.SiteRequest{},
		&sites.WebsiteEdit{},
		&sites.WebsiteAsset{},
		&sites.WebhookEvent{},
	); err != nil {
		log.Fatal("AutoMigrate error: ", err)
	}

	log.Info("Connected and migrated successfully")
}
