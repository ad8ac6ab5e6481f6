package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// AdvanceApplicationUseCase moves applications through the hiring pipeline.
// the stage change and its notification are written in one unit of work.
type AdvanceApplicationUseCase struct {
	applicationRepo  domain.ApplicationRepository
	offerRepo        domain.JobOfferRepository
	notificationRepo domain.NotificationRepository
	sessions         SessionProvider
	enqueuer         NotificationEnqueuer
	logger           *logging.Logger
}

// NewAdvanceApplicationUseCase creates a new AdvanceApplicationUseCase.
func NewAdvanceApplicationUseCase(
	applicationRepo domain.ApplicationRepository,
	offerRepo domain.JobOfferRepository,
	notificationRepo domain.NotificationRepository,
	sessions SessionProvider,
	logger *logging.Logger,
) *AdvanceApplicationUseCase {
	return &AdvanceApplicationUseCase{
		applicationRepo:  applicationRepo,
		offerRepo:        offerRepo,
		notificationRepo: notificationRepo,
		sessions:         sessions,
		logger:           logger.WithComponent("advance_application"),
	}
}

// WithEnqueuer sets the notification dispatcher handoff.
func (uc *AdvanceApplicationUseCase) WithEnqueuer(e NotificationEnqueuer) *AdvanceApplicationUseCase {
	uc.enqueuer = e
	return uc
}

// AdvanceApplicationInput identifies the application and the move to make.
type AdvanceApplicationInput struct {
	ApplicationID string

	// TargetStage is optional: empty means advance one step forward.
	TargetStage string

	// Note optionally replaces the recruiter note along with the move.
	Note string
}

// AdvanceApplicationOutput reports the stage transition.
type AdvanceApplicationOutput struct {
	ApplicationID string
	FromStage     string
	ToStage       string
}

// Execute advances an application to its next stage, or to TargetStage
// when one is given and the pipeline allows it.
func (uc *AdvanceApplicationUseCase) Execute(ctx context.Context, input AdvanceApplicationInput) (*AdvanceApplicationOutput, error) {
	applicationID, err := domain.ParseApplicationID(input.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("invalid application id: %w", err)
	}

	var target domain.Stage
	if input.TargetStage != "" {
		target, err = domain.ParseStage(input.TargetStage)
		if err != nil {
			return nil, fmt.Errorf("invalid target stage: %w", err)
		}
	}

	var output *AdvanceApplicationOutput
	var notification *domain.Notification

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		application, err := uc.applicationRepo.FindByID(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("application lookup: %w", err)
		}

		from := application.Stage()

		if target == "" {
			if _, err := application.Advance(); err != nil {
				return err
			}
		} else {
			if err := application.AdvanceTo(target); err != nil {
				return err
			}
		}

		if input.Note != "" {
			application.SetNote(input.Note)
		}

		if err := uc.applicationRepo.Save(ctx, application); err != nil {
			return fmt.Errorf("saving application: %w", err)
		}

		notification, err = uc.queueStageNotification(ctx, application, from)
		if err != nil {
			return err
		}

		output = &AdvanceApplicationOutput{
			ApplicationID: application.ID().String(),
			FromStage:     from.String(),
			ToStage:       application.Stage().String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.enqueuer != nil && notification != nil {
		uc.enqueuer.Enqueue(notification)
	}

	uc.logger.Info("application advanced",
		"application_id", output.ApplicationID,
		"from", output.FromStage,
		"to", output.ToStage,
	)

	return output, nil
}

// Reject moves an application to the rejected stage from any non-terminal
// stage, recording an optional note.
func (uc *AdvanceApplicationUseCase) Reject(ctx context.Context, rawApplicationID, note string) (*AdvanceApplicationOutput, error) {
	applicationID, err := domain.ParseApplicationID(rawApplicationID)
	if err != nil {
		return nil, fmt.Errorf("invalid application id: %w", err)
	}

	var output *AdvanceApplicationOutput
	var notification *domain.Notification

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		application, err := uc.applicationRepo.FindByID(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("application lookup: %w", err)
		}

		from := application.Stage()
		if err := application.Reject(note); err != nil {
			return err
		}

		if err := uc.applicationRepo.Save(ctx, application); err != nil {
			return fmt.Errorf("saving application: %w", err)
		}

		notification, err = uc.queueStageNotification(ctx, application, from)
		if err != nil {
			return err
		}

		output = &AdvanceApplicationOutput{
			ApplicationID: application.ID().String(),
			FromStage:     from.String(),
			ToStage:       application.Stage().String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.enqueuer != nil && notification != nil {
		uc.enqueuer.Enqueue(notification)
	}

	uc.logger.Info("application rejected",
		"application_id", output.ApplicationID,
		"from", output.FromStage,
	)

	return output, nil
}

// queueStageNotification writes a stage-change notification for the offer's
// recruiter inside the current transaction.
func (uc *AdvanceApplicationUseCase) queueStageNotification(ctx context.Context, application *domain.Application, from domain.Stage) (*domain.Notification, error) {
	offer, err := uc.offerRepo.FindByID(ctx, application.OfferID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// the offer row is gone but the stage change is still valid;
			// skip the notification rather than failing the move
			uc.logger.Warn("stage notification skipped: offer missing",
				"application_id", application.ID().String(),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("offer lookup for notification: %w", err)
	}

	notification, err := domain.NewNotification(offer.CreatedBy(), domain.NotificationApplicationStageChanged, map[string]any{
		"application_id": application.ID().String(),
		"offer_id":       application.OfferID().String(),
		"from_stage":     from.String(),
		"stage":          application.Stage().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	if err := uc.notificationRepo.Save(ctx, notification); err != nil {
		return nil, fmt.Errorf("saving notification: %w", err)
	}
	return notification, nil
}
