package services

import (
	"context"
	"errors"

	"bandmate.link/models"
	"bandmate.link/repositories"
)

// IMatcherService finds members who could fill a coverage gap.
type IMatcherService interface {
	FindCandidates(ctx context.Context, sessionID, capabilityID uint) ([]models.User, error)
}

type MatcherService struct {
	userRepo       repositories.IUserRepository
	sessionRepo    repositories.ISessionRepository
	capabilityRepo repositories.ICapabilityRepository
}

func NewMatcherService() IMatcherService {
	return &MatcherService{
		userRepo:       repositories.NewUserRepository(),
		sessionRepo:    repositories.NewSessionRepository(),
		capabilityRepo: repositories.NewCapabilityRepository(),
	}
}

func newMatcherServiceWith(userRepo repositories.IUserRepository, sessionRepo repositories.ISessionRepository, capabilityRepo repositories.ICapabilityRepository) IMatcherService {
	return &MatcherService{userRepo: userRepo, sessionRepo: sessionRepo, capabilityRepo: capabilityRepo}
}

// FindCandidates returns every member who holds the capability and has no
// commitment on the session, name ascending. Members already committed are
// excluded even when their commitment does not pledge this capability:
// a committed member who didn't volunteer it is treated as unavailable for
// it, and inviting them again is not useful. A capability with no holders
// yields an empty list, not an error.
func (s *MatcherService) FindCandidates(ctx context.Context, sessionID, capabilityID uint) ([]models.User, error) {
	exists, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSessionNotFound
	}
	if _, err := s.capabilityRepo.FindByID(ctx, capabilityID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCapabilityNotFound
		}
		return nil, err
	}

	candidates, err := s.userRepo.FindHoldersNotCommitted(ctx, capabilityID, sessionID)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []models.User{}
	}
	return candidates, nil
}

var _ IMatcherService = (*MatcherService)(nil)
