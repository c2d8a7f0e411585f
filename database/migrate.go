package database

import (
	"fmt"

	"estatedesk_backend/internal/config"
	"estatedesk_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens the shared GORM pool using the configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate creates or updates all tables. The deliveries table gets
// its composite unique index from the model tags, which is what keeps
// fan-out repair idempotent.
func AutoMigrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension present.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.Delivery{},
		&models.Property{},
		&models.Task{},
		&models.RentRecord{},
		&models.TenantQuery{},
	)
}
