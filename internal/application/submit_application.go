package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// OfferAvailability abstracts the offer availability cache.
// allows the use case to skip a database round trip for hot offers.
type OfferAvailability interface {
	CheckOpen(ctx context.Context, id domain.OfferID) (exists, isOpen bool, err error)
}

// NotificationEnqueuer hands a stored notification to the async dispatcher.
// enqueueing is best-effort: the worker also picks up pending rows on start.
type NotificationEnqueuer interface {
	Enqueue(notification *domain.Notification)
}

// ApplicationCounter abstracts the board counter for submissions.
type ApplicationCounter interface {
	IncrementOfferScore(ctx context.Context, offerID string) error
}

// SubmitApplicationUseCase handles candidates applying to published offers.
// the candidate record, the application, and the recruiter notification are
// written in a single unit of work.
type SubmitApplicationUseCase struct {
	offerRepo        domain.JobOfferRepository
	candidateRepo    domain.CandidateRepository
	applicationRepo  domain.ApplicationRepository
	notificationRepo domain.NotificationRepository
	sessions         SessionProvider
	availability     OfferAvailability
	enqueuer         NotificationEnqueuer
	counter          ApplicationCounter
	logger           *logging.Logger
}

// NewSubmitApplicationUseCase creates a new SubmitApplicationUseCase.
func NewSubmitApplicationUseCase(
	offerRepo domain.JobOfferRepository,
	candidateRepo domain.CandidateRepository,
	applicationRepo domain.ApplicationRepository,
	notificationRepo domain.NotificationRepository,
	sessions SessionProvider,
	logger *logging.Logger,
) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{
		offerRepo:        offerRepo,
		candidateRepo:    candidateRepo,
		applicationRepo:  applicationRepo,
		notificationRepo: notificationRepo,
		sessions:         sessions,
		logger:           logger.WithComponent("submit_application"),
	}
}

// WithAvailability sets the offer availability cache.
func (uc *SubmitApplicationUseCase) WithAvailability(a OfferAvailability) *SubmitApplicationUseCase {
	uc.availability = a
	return uc
}

// WithEnqueuer sets the notification dispatcher handoff.
func (uc *SubmitApplicationUseCase) WithEnqueuer(e NotificationEnqueuer) *SubmitApplicationUseCase {
	uc.enqueuer = e
	return uc
}

// WithCounter sets the board counter (redis cache).
func (uc *SubmitApplicationUseCase) WithCounter(c ApplicationCounter) *SubmitApplicationUseCase {
	uc.counter = c
	return uc
}

// SubmitApplicationInput contains the data needed to apply to an offer.
type SubmitApplicationInput struct {
	OfferID string

	// candidate contact details; an existing candidate is matched by email
	Email     string
	FullName  string
	Phone     string
	ResumeURL string

	// Note is an optional free-form message from the candidate
	Note string
}

// SubmitApplicationOutput contains the result of a submission.
type SubmitApplicationOutput struct {
	ApplicationID string
	CandidateID   string
	OfferID       string
	Stage         string
}

// use case specific errors
var (
	ErrOfferNotFound  = errors.New("offer not found")
	ErrOfferNotOpen   = errors.New("offer is not accepting applications")
	ErrAlreadyApplied = errors.New("candidate already applied to this offer")
)

// Execute submits an application to a published offer.
func (uc *SubmitApplicationUseCase) Execute(ctx context.Context, input SubmitApplicationInput) (*SubmitApplicationOutput, error) {
	offerID, err := domain.ParseOfferID(input.OfferID)
	if err != nil {
		return nil, fmt.Errorf("invalid offer id: %w", err)
	}

	email, err := domain.NewEmail(input.Email)
	if err != nil {
		uc.logger.Info("application rejected: invalid email",
			"offer_id", input.OfferID,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	// fast path: reject against the availability cache before opening a
	// transaction. the authoritative check still happens inside the unit
	// of work.
	if uc.availability != nil {
		exists, isOpen, err := uc.availability.CheckOpen(ctx, offerID)
		if err == nil {
			if !exists {
				return nil, ErrOfferNotFound
			}
			if !isOpen {
				return nil, ErrOfferNotOpen
			}
		}
	}

	var (
		application  *domain.Application
		candidate    *domain.Candidate
		notification *domain.Notification
	)

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		offer, err := uc.offerRepo.FindByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrOfferNotFound
			}
			return fmt.Errorf("offer lookup: %w", err)
		}
		if !offer.IsPublished() {
			return ErrOfferNotOpen
		}

		// match an existing candidate by email or create a new one
		candidate, err = uc.candidateRepo.FindByEmail(ctx, email)
		if errors.Is(err, domain.ErrNotFound) {
			candidate, err = domain.NewCandidate(email, input.FullName)
			if err != nil {
				return fmt.Errorf("creating candidate: %w", err)
			}
			if input.Phone != "" || input.ResumeURL != "" {
				if err := candidate.UpdateContact(input.FullName, input.Phone, input.ResumeURL); err != nil {
					return fmt.Errorf("setting candidate contact: %w", err)
				}
			}
			if err := uc.candidateRepo.Save(ctx, candidate); err != nil {
				return fmt.Errorf("saving candidate: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("candidate lookup: %w", err)
		}

		existing, err := uc.applicationRepo.FindByOfferAndCandidate(ctx, offerID, candidate.ID())
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("checking existing application: %w", err)
		}
		if existing != nil {
			return ErrAlreadyApplied
		}

		application, err = domain.NewApplication(offerID, candidate.ID(), input.Note)
		if err != nil {
			return fmt.Errorf("creating application: %w", err)
		}
		if err := uc.applicationRepo.Save(ctx, application); err != nil {
			return fmt.Errorf("saving application: %w", err)
		}

		// queue the recruiter notification in the same transaction so a
		// rollback discards it together with the application
		notification, err = domain.NewNotification(offer.CreatedBy(), domain.NotificationApplicationStageChanged, map[string]any{
			"application_id": application.ID().String(),
			"offer_id":       offerID.String(),
			"stage":          application.Stage().String(),
		})
		if err != nil {
			return fmt.Errorf("creating notification: %w", err)
		}
		if err := uc.notificationRepo.Save(ctx, notification); err != nil {
			return fmt.Errorf("saving notification: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// the transaction is committed, everything past here is best-effort
	if uc.enqueuer != nil {
		uc.enqueuer.Enqueue(notification)
	}
	if uc.counter != nil {
		if err := uc.counter.IncrementOfferScore(ctx, offerID.String()); err != nil {
			uc.logger.Warn("offer board increment failed",
				"offer_id", offerID.String(),
				"error", err.Error(),
			)
		}
	}

	uc.logger.Info("application submitted",
		"application_id", application.ID().String(),
		"offer_id", offerID.String(),
		"candidate_id", candidate.ID().String(),
	)

	return &SubmitApplicationOutput{
		ApplicationID: application.ID().String(),
		CandidateID:   candidate.ID().String(),
		OfferID:       offerID.String(),
		Stage:         application.Stage().String(),
	}, nil
}
