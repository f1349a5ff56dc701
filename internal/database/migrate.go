package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecochef/ecochef/backend/internal/models"
)

// RunMigrations brings the relational schema up to date.
func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("running auto-migration", zap.String("dialect", db.Dialector.Name()))
	if err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Favorite{},
		&models.Feedback{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
