package migrations

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateCapabilityTable creates/updates the capability catalog table.
func MigrateCapabilityTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating capabilities table...")
	if err := db.AutoMigrate(&models.Capability{}); err != nil {
		configslog.Log.Error("failed to migrate capabilities table", zap.Error(err))
		return err
	}
	return nil
}
