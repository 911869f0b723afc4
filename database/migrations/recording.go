package migrations

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateRecordingTable creates/updates the recordings table.
func MigrateRecordingTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating recordings table...")
	if err := db.AutoMigrate(&models.Recording{}); err != nil {
		configslog.Log.Error("failed to migrate recordings table", zap.Error(err))
		return err
	}
	return nil
}
