package services

import (
	"context"
	"errors"
	"fmt"

	"bandmate.link/pkg/apperrors"
	"bandmate.link/repositories"
)

// The identity provider is external; services receive a pre-authenticated
// actor id and only verify the admin flag for admin-gated operations.

var ErrForbidden = fmt.Errorf("%w: you are not allowed to perform this action", apperrors.ErrValidation)

func requireAdmin(ctx context.Context, userRepo repositories.IUserRepository, actorUserID uint) error {
	if actorUserID == 0 {
		return ErrForbidden
	}
	actor, err := userRepo.FindByID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return nil
}
