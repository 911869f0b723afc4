package database

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/database/migrations"
	"bandmate.link/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and/or seeders inside one transaction.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("neither -migrate nor -seed given, nothing to do")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("failed to begin database transaction", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("database initialization panicked", zap.Any("panic_info", r))
		}
	}()

	if migrate {
		configslog.SLog.Info("running migrations...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("migration failed", zap.Error(err))
			tx.Rollback()
			return
		}
		configslog.SLog.Info("migrations complete")
	}

	if seed {
		configslog.SLog.Info("running seeders...")
		if err := seeders.SeedCapabilities(tx); err != nil {
			configslog.Log.Error("seeding failed", zap.Error(err))
			tx.Rollback()
			return
		}
		configslog.SLog.Info("seeding complete")
	}

	if err := tx.Commit().Error; err != nil {
		configslog.Log.Error("failed to commit initialization", zap.Error(err))
	}
}

// RunMigrationsInOrder migrates leaf tables first so foreign keys resolve.
func RunMigrationsInOrder(db *gorm.DB) error {
	steps := []func(*gorm.DB) error{
		migrations.MigrateCapabilityTable,
		migrations.MigrateUserTable,
		migrations.MigrateSongTable,
		migrations.MigrateSessionTable,
		migrations.MigrateCommitmentTable,
		migrations.MigrateRecordingTable,
	}
	for _, step := range steps {
		if err := step(db); err != nil {
			return err
		}
	}
	return nil
}
