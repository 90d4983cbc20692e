package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations runs GORM auto-migration for the given models.
func RunMigrations(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}
