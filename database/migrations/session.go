package migrations

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateSessionTable creates/updates the sessions table and the setlist
// snapshot table.
func MigrateSessionTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating sessions table...")
	if err := db.AutoMigrate(&models.Session{}, &models.SessionSong{}); err != nil {
		configslog.Log.Error("failed to migrate sessions table", zap.Error(err))
		return err
	}
	return nil
}
