package migrations

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateUserTable creates/updates the users table.
func MigrateUserTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating users table...")
	if err := db.AutoMigrate(&models.User{}); err != nil {
		configslog.Log.Error("failed to migrate users table", zap.Error(err))
		return err
	}
	return nil
}
