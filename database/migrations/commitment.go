package migrations

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateCommitmentTable creates/updates the commitments table. The composite
// unique index on (session_id, user_id) is the ledger's one-commitment-per-
// member guard; AutoMigrate creates it from the model tags.
func MigrateCommitmentTable(db *gorm.DB) error {
	configslog.SLog.Info("migrating commitments table...")
	if err := db.AutoMigrate(&models.Commitment{}); err != nil {
		configslog.Log.Error("failed to migrate commitments table", zap.Error(err))
		return err
	}
	return nil
}
