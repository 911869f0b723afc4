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
)

var (
	ErrMemberNotFound           = fmt.Errorf("%w: member does not exist", apperrors.ErrNotFound)
	ErrUnknownProfileCapability = fmt.Errorf("%w: profile references an unknown capability", apperrors.ErrValidation)
)

// IMemberService manages the member directory: profile capability sets and
// the contact channel the dispatcher sends to. Accounts themselves come from
// the external identity provider.
type IMemberService interface {
	ListMembers(ctx context.Context) ([]models.User, error)
	GetMember(ctx context.Context, id uint) (*models.User, error)
	GetMemberCapabilities(ctx context.Context, userID uint) ([]models.Capability, error)
	SetMemberCapabilities(ctx context.Context, actorUserID, userID uint, capabilityIDs []uint) error
	UpdateContactChannel(ctx context.Context, actorUserID, userID uint, phone string) error
}

type MemberService struct {
	userRepo       repositories.IUserRepository
	capabilityRepo repositories.ICapabilityRepository
}

func NewMemberService() IMemberService {
	return &MemberService{
		userRepo:       repositories.NewUserRepository(),
		capabilityRepo: repositories.NewCapabilityRepository(),
	}
}

func (s *MemberService) ListMembers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *MemberService) GetMember(ctx context.Context, id uint) (*models.User, error) {
	member, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (s *MemberService) GetMemberCapabilities(ctx context.Context, userID uint) ([]models.Capability, error) {
	capabilities, err := s.userRepo.GetCapabilities(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return capabilities, nil
}

// SetMemberCapabilities fully replaces the member's profile set. An empty set
// is valid: the member simply cannot commit until they hold something again.
// Existing commitments keep their pledges; the profile only gates new ones.
// Admin only.
func (s *MemberService) SetMemberCapabilities(ctx context.Context, actorUserID, userID uint, capabilityIDs []uint) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	capabilityIDs = dedupeIDs(capabilityIDs)
	capabilities, err := s.capabilityRepo.FindByIDs(ctx, capabilityIDs)
	if err != nil {
		return err
	}
	if len(capabilities) != len(capabilityIDs) {
		return ErrUnknownProfileCapability
	}

	if err := s.userRepo.ReplaceCapabilities(models.ContextWithUserID(ctx, actorUserID), userID, capabilities); err != nil {
		return err
	}
	configslog.SLog.Infof("member %d profile replaced (%d capabilities)", userID, len(capabilities))
	return nil
}

// UpdateContactChannel sets (or clears, with an empty phone) the number the
// dispatcher messages. Admin only.
func (s *MemberService) UpdateContactChannel(ctx context.Context, actorUserID, userID uint, phone string) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}

	err := s.userRepo.UpdateContactChannel(models.ContextWithUserID(ctx, actorUserID), userID, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	configslog.SLog.Infof("member %d contact channel updated", userID)
	return nil
}

var _ IMemberService = (*MemberService)(nil)
