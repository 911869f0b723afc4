package services

import (
	"context"
	"errors"
	"fmt"

	"bandmate.link/configs/configslog"
	"bandmate.link/models"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/repositories"

	"go.uber.org/zap"
)

var (
	ErrCommitmentNotFound     = fmt.Errorf("%w: no commitment exists for this member and session", apperrors.ErrNotFound)
	ErrEmptyCapabilitySet     = fmt.Errorf("%w: a commitment must declare at least one capability", apperrors.ErrValidation)
	ErrCapabilityNotOwned     = fmt.Errorf("%w: you don't have that capability", apperrors.ErrValidation)
	ErrCommitmentUserNotFound = fmt.Errorf("%w: member does not exist", apperrors.ErrNotFound)
)

// ICommitmentService is the commitment ledger: who is coming to a session and
// what they will cover.
type ICommitmentService interface {
	Commit(ctx context.Context, actorUserID, sessionID, userID uint, capabilityIDs []uint) (*models.Commitment, error)
	Cancel(ctx context.Context, actorUserID, sessionID, userID uint) error
	ListCommitments(ctx context.Context, sessionID uint) ([]models.Commitment, error)
}

type CommitmentService struct {
	repo        repositories.ICommitmentRepository
	sessionRepo repositories.ISessionRepository
	userRepo    repositories.IUserRepository
}

func NewCommitmentService() ICommitmentService {
	return &CommitmentService{
		repo:        repositories.NewCommitmentRepository(),
		sessionRepo: repositories.NewSessionRepository(),
		userRepo:    repositories.NewUserRepository(),
	}
}

// newCommitmentServiceWith wires explicit dependencies; used by tests.
func newCommitmentServiceWith(repo repositories.ICommitmentRepository, sessionRepo repositories.ISessionRepository, userRepo repositories.IUserRepository) ICommitmentService {
	return &CommitmentService{repo: repo, sessionRepo: sessionRepo, userRepo: userRepo}
}

// Commit RSVPs a member to a session covering the given capabilities. A
// repeated call replaces the prior capability set (upsert, last writer wins).
// Fails with a validation error when the set is empty or pledges a capability
// the member's profile does not hold. Acting on another member's commitment
// is admin only.
func (s *CommitmentService) Commit(ctx context.Context, actorUserID, sessionID, userID uint, capabilityIDs []uint) (*models.Commitment, error) {
	if actorUserID != userID {
		if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
			return nil, err
		}
	}

	capabilityIDs = dedupeIDs(capabilityIDs)
	if len(capabilityIDs) == 0 {
		return nil, ErrEmptyCapabilitySet
	}

	exists, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSessionNotFound
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCommitmentUserNotFound
		}
		return nil, err
	}

	// A member can only pledge capabilities their own profile holds.
	capabilities := make([]models.Capability, 0, len(capabilityIDs))
	for _, id := range capabilityIDs {
		if !user.HasCapability(id) {
			return nil, ErrCapabilityNotOwned
		}
		for _, owned := range user.Capabilities {
			if owned.ID == id {
				capabilities = append(capabilities, owned)
				break
			}
		}
	}

	commitment, err := s.repo.Upsert(models.ContextWithUserID(ctx, actorUserID), sessionID, userID, capabilities)
	if err != nil {
		return nil, err
	}
	commitment.User = *user
	configslog.SLog.Infof("commitment upserted: session %d, member %d, %d capabilities",
		sessionID, userID, len(capabilities))
	return commitment, nil
}

// Cancel withdraws a member's RSVP. Songs and requirements are untouched.
func (s *CommitmentService) Cancel(ctx context.Context, actorUserID, sessionID, userID uint) error {
	if actorUserID != userID {
		if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
			return err
		}
	}

	err := s.repo.Delete(models.ContextWithUserID(ctx, actorUserID), sessionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommitmentNotFound
		}
		configslog.Log.Error("commitment cancel failed",
			zap.Uint("sessionID", sessionID), zap.Uint("userID", userID), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("commitment cancelled: session %d, member %d", sessionID, userID)
	return nil
}

// ListCommitments returns the session ledger in first-RSVP-first order with
// members and pledged capabilities resolved.
func (s *CommitmentService) ListCommitments(ctx context.Context, sessionID uint) ([]models.Commitment, error) {
	return s.repo.ListBySession(ctx, sessionID)
}

var _ ICommitmentService = (*CommitmentService)(nil)
