package repositories

import (
	"context"
	"errors"

	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ICommitmentRepository is the commitment ledger storage contract. The
// composite unique index on (session_id, user_id) is the authoritative guard
// for the one-commitment-per-member invariant; Upsert rides on it.
type ICommitmentRepository interface {
	Upsert(ctx context.Context, sessionID, userID uint, capabilities []models.Capability) (*models.Commitment, error)
	Find(ctx context.Context, sessionID, userID uint) (*models.Commitment, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.Commitment, error)
	Delete(ctx context.Context, sessionID, userID uint) error
	CommittedUserIDs(ctx context.Context, sessionID uint) ([]uint, error)
}

type CommitmentRepository struct {
	db *gorm.DB
}

func NewCommitmentRepository() ICommitmentRepository {
	return &CommitmentRepository{db: configs.GetDB()}
}

func NewCommitmentRepositoryTx(tx *gorm.DB) ICommitmentRepository {
	return &CommitmentRepository{db: tx}
}

func (r *CommitmentRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Upsert replaces any prior commitment for (session, user) atomically: the
// row is created if absent, otherwise its capability set is swapped. The slot
// is claimed with ON CONFLICT DO NOTHING, so racing first-time commits
// serialize on the unique index instead of failing the loser; the last
// writer's set wins, sets are never merged.
func (r *CommitmentRepository) Upsert(ctx context.Context, sessionID, userID uint, capabilities []models.Capability) (*models.Commitment, error) {
	db := r.getDB(ctx)

	var result *models.Commitment
	err := db.Transaction(func(tx *gorm.DB) error {
		seed := models.Commitment{SessionID: sessionID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}

		var commitment models.Commitment
		if err := tx.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&commitment).Error; err != nil {
			return err
		}
		if err := tx.Model(&commitment).Association("CoveredCapabilities").Replace(capabilities); err != nil {
			return err
		}
		if err := tx.Save(&commitment).Error; err != nil {
			return err
		}
		commitment.CoveredCapabilities = capabilities
		result = &commitment
		return nil
	})
	if err != nil {
		configslog.Log.Error("commitment Upsert failed",
			zap.Uint("sessionID", sessionID), zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (r *CommitmentRepository) Find(ctx context.Context, sessionID, userID uint) (*models.Commitment, error) {
	var commitment models.Commitment
	err := r.getDB(ctx).Where("session_id = ? AND user_id = ?", sessionID, userID).
		Preload("User").
		Preload("CoveredCapabilities").
		First(&commitment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("commitment Find failed",
			zap.Uint("sessionID", sessionID), zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return &commitment, nil
}

// ListBySession returns the ledger in insertion order (first RSVP first) with
// members and pledged capabilities resolved for display.
func (r *CommitmentRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Commitment, error) {
	var commitments []models.Commitment
	err := r.getDB(ctx).Where("session_id = ?", sessionID).
		Preload("User").
		Preload("CoveredCapabilities").
		Order("created_at asc, id asc").
		Find(&commitments).Error
	if err != nil {
		configslog.Log.Error("commitment ListBySession failed", zap.Uint("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	return commitments, nil
}

// Delete removes the commitment and its capability pledges for good. A hard
// delete, not soft: a cancelled RSVP must leave no trace that would collide
// with a later re-commit on the unique index.
func (r *CommitmentRepository) Delete(ctx context.Context, sessionID, userID uint) error {
	db := r.getDB(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		var commitment models.Commitment
		err := tx.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&commitment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&commitment).Association("CoveredCapabilities").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&commitment).Error
	})
}

// CommittedUserIDs returns the ids of every member with a commitment on the
// session, insertion order.
func (r *CommitmentRepository) CommittedUserIDs(ctx context.Context, sessionID uint) ([]uint, error) {
	var ids []uint
	err := r.getDB(ctx).Model(&models.Commitment{}).
		Where("session_id = ?", sessionID).
		Order("created_at asc, id asc").
		Pluck("user_id", &ids).Error
	if err != nil {
		configslog.Log.Error("commitment CommittedUserIDs failed", zap.Uint("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

var _ ICommitmentRepository = (*CommitmentRepository)(nil)
