package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// EnsureUserUseCase provisions local user rows for authenticated identities.
// the first request from a new identity creates a viewer-role profile;
// subsequent requests return the existing one.
type EnsureUserUseCase struct {
	userRepo domain.UserRepository
	sessions SessionProvider
	logger   *logging.Logger
}

// NewEnsureUserUseCase creates a new EnsureUserUseCase.
func NewEnsureUserUseCase(userRepo domain.UserRepository, sessions SessionProvider, logger *logging.Logger) *EnsureUserUseCase {
	return &EnsureUserUseCase{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger.WithComponent("ensure_user"),
	}
}

// Execute returns the user for an external identity, creating it if needed.
func (uc *EnsureUserUseCase) Execute(ctx context.Context, externalID, username string) (*domain.User, error) {
	user, err := uc.userRepo.FindByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		// the row may have appeared between the lookup and the transaction
		existing, err := uc.userRepo.FindByExternalID(ctx, externalID)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("looking up user: %w", err)
		}

		user, err = domain.NewUser(externalID, username)
		if err != nil {
			return err
		}
		if err := uc.userRepo.Save(ctx, user); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}

		uc.logger.Info("user provisioned",
			"user_id", user.ID().String(),
			"external_id", externalID,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
