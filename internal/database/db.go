package database

import (
	"log"

	"foodrescue-backend/internal/config"
	"foodrescue-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] could not connect to database: %v", err)
	}

	Migrate(DB)
	log.Println("Database connected, migration complete.")
}

// Migrate runs AutoMigrate for every model. Split out from Init so tests
// can run it against their own (sqlite) database.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Donation{},
		&models.Pickup{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("[FATAL] AutoMigrate failed: %v", err)
	}
}
