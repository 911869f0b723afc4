package repositories

import (
	"context"
	"errors"

	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IUserRepository is the member directory storage contract. It also serves
// the user-directory collaborator surface: profile capability sets and
// contact channels.
type IUserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	GetCapabilities(ctx context.Context, userID uint) ([]models.Capability, error)
	GetContactChannel(ctx context.Context, userID uint) (string, error)
	ReplaceCapabilities(ctx context.Context, userID uint, capabilities []models.Capability) error
	UpdateContactChannel(ctx context.Context, userID uint, phone string) error
	FindHoldersNotCommitted(ctx context.Context, capabilityID, sessionID uint) ([]models.User, error)
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository() IUserRepository {
	return &UserRepository{db: configs.GetDB()}
}

func NewUserRepositoryTx(tx *gorm.DB) IUserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.getDB(ctx).Preload("Capabilities").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("user FindByID failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.getDB(ctx).Preload("Capabilities").Order("name asc").Find(&users).Error
	if err != nil {
		configslog.Log.Error("user FindAll failed", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetCapabilities(ctx context.Context, userID uint) ([]models.Capability, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Capabilities, nil
}

// GetContactChannel returns the member's phone number; empty string means no
// usable channel (not an error, the dispatcher reports it as skipped).
func (r *UserRepository) GetContactChannel(ctx context.Context, userID uint) (string, error) {
	var user models.User
	err := r.getDB(ctx).Select("id", "phone").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return user.Phone, nil
}

func (r *UserRepository) ReplaceCapabilities(ctx context.Context, userID uint, capabilities []models.Capability) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	err := r.getDB(ctx).Model(&user).Association("Capabilities").Replace(capabilities)
	if err != nil {
		configslog.Log.Error("user ReplaceCapabilities failed", zap.Uint("userID", userID), zap.Error(err))
	}
	return err
}

func (r *UserRepository) UpdateContactChannel(ctx context.Context, userID uint, phone string) error {
	result := r.getDB(ctx).Model(&models.User{}).Where("id = ?", userID).Update("phone", phone)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindHoldersNotCommitted returns every member holding the capability who has
// no commitment on the session, name ascending. Members with any commitment
// are excluded even when it does not pledge this capability.
func (r *UserRepository) FindHoldersNotCommitted(ctx context.Context, capabilityID, sessionID uint) ([]models.User, error) {
	var users []models.User
	err := r.getDB(ctx).
		Joins("JOIN user_capabilities uc ON uc.user_id = users.id AND uc.capability_id = ?", capabilityID).
		Where("users.id NOT IN (?)",
			r.getDB(ctx).Model(&models.Commitment{}).Select("user_id").Where("session_id = ?", sessionID)).
		Order("users.name asc").
		Find(&users).Error
	if err != nil {
		configslog.Log.Error("user FindHoldersNotCommitted failed",
			zap.Uint("capabilityID", capabilityID), zap.Uint("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	return users, nil
}

var _ IUserRepository = (*UserRepository)(nil)
