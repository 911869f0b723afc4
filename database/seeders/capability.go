package seeders

import (
	"context"
	"errors"

	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedCapabilities installs the default instrument catalog. Existing entries
// (matched case-insensitively) are left alone, so re-running is safe.
func SeedCapabilities(db *gorm.DB) error {
	systemUserID := uint(1)
	ctx := models.ContextWithUserID(context.Background(), systemUserID)

	capabilitiesToSeed := []models.Capability{
		{Name: models.CapabilityNameVocals, Icon: "mic"},
		{Name: models.CapabilityNameGuitar, Icon: "guitar"},
		{Name: models.CapabilityNameBass, Icon: "bass"},
		{Name: models.CapabilityNameDrums, Icon: "drums"},
		{Name: models.CapabilityNameKeys, Icon: "piano"},
	}

	var createdCount int64
	errorOccurred := false

	configslog.SLog.Info("seeding capability catalog...")

	for _, capabilityToSeed := range capabilitiesToSeed {
		var existing models.Capability
		result := db.Where("LOWER(name) = LOWER(?)", capabilityToSeed.Name).First(&existing)

		if result.Error == nil {
			configslog.SLog.Debugf("capability %q already present, skipping", capabilityToSeed.Name)
			continue
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			configslog.Log.Error("failed to check capability",
				zap.String("name", capabilityToSeed.Name),
				zap.Error(result.Error),
			)
			errorOccurred = true
			continue
		}

		if err := db.WithContext(ctx).Create(&capabilityToSeed).Error; err != nil {
			configslog.Log.Error("failed to create capability",
				zap.String("name", capabilityToSeed.Name),
				zap.Error(err),
			)
			errorOccurred = true
			continue
		}

		configslog.SLog.Infof("capability %q seeded (id %d)", capabilityToSeed.Name, capabilityToSeed.ID)
		createdCount++
	}

	if createdCount > 0 {
		configslog.SLog.Infof("%d new capabilities seeded", createdCount)
	} else if !errorOccurred {
		configslog.SLog.Info("capability catalog already complete")
	}

	if errorOccurred {
		return errors.New("at least one capability failed to seed")
	}
	return nil
}
