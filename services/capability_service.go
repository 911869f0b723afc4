package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bandmate.link/configs/configslog"
	"bandmate.link/models"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/repositories"

	"go.uber.org/zap"
)

var (
	ErrCapabilityNotFound     = fmt.Errorf("%w: capability does not exist", apperrors.ErrNotFound)
	ErrCapabilityNameRequired = fmt.Errorf("%w: capability name is required", apperrors.ErrValidation)
	ErrCapabilityNameTaken    = fmt.Errorf("%w: a capability with that name already exists", apperrors.ErrConflict)
	ErrCapabilityInUse        = fmt.Errorf("%w: capability is referenced by a commitment, song requirement or member profile", apperrors.ErrConflict)
)

// ICapabilityService manages the capability catalog (reference data).
type ICapabilityService interface {
	CreateCapability(ctx context.Context, actorUserID uint, name, icon string) (*models.Capability, error)
	UpdateCapability(ctx context.Context, actorUserID, id uint, name, icon string) error
	DeleteCapability(ctx context.Context, actorUserID, id uint) error
	GetCapabilityByID(ctx context.Context, id uint) (*models.Capability, error)
	ListCapabilities(ctx context.Context) ([]models.Capability, error)
}

type CapabilityService struct {
	repo     repositories.ICapabilityRepository
	userRepo repositories.IUserRepository
}

func NewCapabilityService() ICapabilityService {
	return &CapabilityService{
		repo:     repositories.NewCapabilityRepository(),
		userRepo: repositories.NewUserRepository(),
	}
}

// CreateCapability adds a catalog entry. Admin only; name unique
// case-insensitively.
func (s *CapabilityService) CreateCapability(ctx context.Context, actorUserID uint, name, icon string) (*models.Capability, error) {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCapabilityNameRequired
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, ErrCapabilityNameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	capability := models.Capability{Name: name, Icon: icon}
	if err := s.repo.Create(models.ContextWithUserID(ctx, actorUserID), &capability); err != nil {
		configslog.Log.Error("capability create failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("capability created: %s (id %d)", capability.Name, capability.ID)
	return &capability, nil
}

func (s *CapabilityService) UpdateCapability(ctx context.Context, actorUserID, id uint, name, icon string) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCapabilityNameRequired
	}

	capability, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCapabilityNotFound
		}
		return err
	}

	// Renaming onto another entry's name (case-insensitive) is a conflict.
	if existing, err := s.repo.FindByName(ctx, name); err == nil && existing.ID != id {
		return ErrCapabilityNameTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	capability.Name = name
	capability.Icon = icon
	return s.repo.Update(models.ContextWithUserID(ctx, actorUserID), capability)
}

// DeleteCapability removes a catalog entry unless it is still referenced by
// any commitment pledge, song requirement or member profile.
func (s *CapabilityService) DeleteCapability(ctx context.Context, actorUserID, id uint) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}

	capability, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCapabilityNotFound
		}
		return err
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrCapabilityInUse
	}

	if err := s.repo.Delete(models.ContextWithUserID(ctx, actorUserID), capability); err != nil {
		return err
	}
	configslog.SLog.Infof("capability deleted: %s (id %d)", capability.Name, id)
	return nil
}

func (s *CapabilityService) GetCapabilityByID(ctx context.Context, id uint) (*models.Capability, error) {
	capability, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCapabilityNotFound
		}
		return nil, err
	}
	return capability, nil
}

func (s *CapabilityService) ListCapabilities(ctx context.Context) ([]models.Capability, error) {
	return s.repo.FindAll(ctx)
}

var _ ICapabilityService = (*CapabilityService)(nil)
