package repositories

import (
	"context"
	"errors"
	"strings"

	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ICapabilityRepository is the capability catalog storage contract.
type ICapabilityRepository interface {
	Create(ctx context.Context, capability *models.Capability) error
	FindByID(ctx context.Context, id uint) (*models.Capability, error)
	FindByName(ctx context.Context, name string) (*models.Capability, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Capability, error)
	FindAll(ctx context.Context) ([]models.Capability, error)
	Update(ctx context.Context, capability *models.Capability) error
	Delete(ctx context.Context, capability *models.Capability) error
	CountReferences(ctx context.Context, capabilityID uint) (int64, error)
}

type CapabilityRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Capability]
}

func NewCapabilityRepository() ICapabilityRepository {
	db := configs.GetDB()
	return &CapabilityRepository{db: db, base: NewBaseRepository[models.Capability](db)}
}

// NewCapabilityRepositoryTx binds the repository to an open transaction.
func NewCapabilityRepositoryTx(tx *gorm.DB) ICapabilityRepository {
	return &CapabilityRepository{db: tx, base: NewBaseRepository[models.Capability](tx)}
}

func (r *CapabilityRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *CapabilityRepository) Create(ctx context.Context, capability *models.Capability) error {
	return r.base.Create(ctx, capability)
}

func (r *CapabilityRepository) FindByID(ctx context.Context, id uint) (*models.Capability, error) {
	return r.base.FindByID(ctx, id)
}

// FindByName matches case-insensitively; the catalog treats "Bass" and "bass"
// as the same capability.
func (r *CapabilityRepository) FindByName(ctx context.Context, name string) (*models.Capability, error) {
	var capability models.Capability
	err := r.getDB(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&capability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("capability FindByName failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return &capability, nil
}

func (r *CapabilityRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Capability, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var capabilities []models.Capability
	err := r.getDB(ctx).Where("id IN ?", ids).Find(&capabilities).Error
	if err != nil {
		configslog.Log.Error("capability FindByIDs failed", zap.Error(err))
		return nil, err
	}
	return capabilities, nil
}

func (r *CapabilityRepository) FindAll(ctx context.Context) ([]models.Capability, error) {
	var capabilities []models.Capability
	err := r.getDB(ctx).Order("name asc").Find(&capabilities).Error
	if err != nil {
		configslog.Log.Error("capability FindAll failed", zap.Error(err))
		return nil, err
	}
	return capabilities, nil
}

func (r *CapabilityRepository) Update(ctx context.Context, capability *models.Capability) error {
	return r.base.Save(ctx, capability)
}

func (r *CapabilityRepository) Delete(ctx context.Context, capability *models.Capability) error {
	return r.base.Delete(ctx, capability)
}

// CountReferences counts live rows in the three join tables that may hold the
// capability: commitment pledges, song requirements and user profiles. A
// non-zero count blocks deletion.
func (r *CapabilityRepository) CountReferences(ctx context.Context, capabilityID uint) (int64, error) {
	db := r.getDB(ctx)
	var total int64

	for _, table := range []string{"commitment_capabilities", "song_requirements", "user_capabilities"} {
		var n int64
		if err := db.Table(table).Where("capability_id = ?", capabilityID).Count(&n).Error; err != nil {
			configslog.Log.Error("capability CountReferences failed",
				zap.String("table", table), zap.Uint("capabilityID", capabilityID), zap.Error(err))
			return 0, err
		}
		total += n
	}
	return total, nil
}

var _ ICapabilityRepository = (*CapabilityRepository)(nil)
