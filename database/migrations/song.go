package migrations

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateSongTable creates/updates the songs table.
func MigrateSongTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating songs table...")
	if err := db.AutoMigrate(&models.Song{}); err != nil {
		configslog.Log.Error("failed to migrate songs table", zap.Error(err))
		return err
	}
	return nil
}
