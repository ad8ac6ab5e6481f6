package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// AccessRequestUseCase handles role elevation requests and their review.
// an approval updates the requester's role and queues the notification in
// the same unit of work as the request itself, so a crash can never leave
// an approved request without the matching role grant.
type AccessRequestUseCase struct {
	accessRepo       domain.AccessRequestRepository
	userRepo         domain.UserRepository
	notificationRepo domain.NotificationRepository
	sessions         SessionProvider
	enqueuer         NotificationEnqueuer
	logger           *logging.Logger
}

// NewAccessRequestUseCase creates a new AccessRequestUseCase.
func NewAccessRequestUseCase(
	accessRepo domain.AccessRequestRepository,
	userRepo domain.UserRepository,
	notificationRepo domain.NotificationRepository,
	sessions SessionProvider,
	logger *logging.Logger,
) *AccessRequestUseCase {
	return &AccessRequestUseCase{
		accessRepo:       accessRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		sessions:         sessions,
		logger:           logger.WithComponent("access_requests"),
	}
}

// WithEnqueuer sets the notification dispatcher handoff.
func (uc *AccessRequestUseCase) WithEnqueuer(e NotificationEnqueuer) *AccessRequestUseCase {
	uc.enqueuer = e
	return uc
}

// RequestAccessInput contains the data needed to request a role.
type RequestAccessInput struct {
	// RequesterExternalID comes from the validated JWT, not the body.
	RequesterExternalID string

	Role   string
	Reason string
}

// RequestAccessOutput contains the created request.
type RequestAccessOutput struct {
	RequestID string
	Role      string
	Status    string
}

// use case specific errors
var (
	ErrRequesterNotFound = errors.New("requester user not found")
	ErrRequestPending    = errors.New("a pending access request already exists")
	ErrReviewerNotFound  = errors.New("reviewer user not found")
)

// Request creates a pending access request for the authenticated user.
// one pending request per user at a time.
func (uc *AccessRequestUseCase) Request(ctx context.Context, input RequestAccessInput) (*RequestAccessOutput, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	requester, err := uc.userRepo.FindByExternalID(ctx, input.RequesterExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRequesterNotFound
		}
		return nil, fmt.Errorf("looking up requester: %w", err)
	}

	var request *domain.AccessRequest
	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		pending, err := uc.accessRepo.FindPendingByRequester(ctx, requester.ID())
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("checking pending requests: %w", err)
		}
		if pending != nil {
			return ErrRequestPending
		}

		request, err = domain.NewAccessRequest(requester.ID(), role, input.Reason)
		if err != nil {
			return err
		}
		if err := uc.accessRepo.Save(ctx, request); err != nil {
			return fmt.Errorf("saving access request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("access requested",
		"request_id", request.ID().String(),
		"requester_id", requester.ID().String(),
		"role", role.String(),
	)

	return &RequestAccessOutput{
		RequestID: request.ID().String(),
		Role:      request.Role().String(),
		Status:    request.Status().String(),
	}, nil
}

// ReviewAccessInput contains the review decision.
type ReviewAccessInput struct {
	RequestID string

	// ReviewerExternalID comes from the validated JWT.
	ReviewerExternalID string

	// Approve grants the requested role; false rejects the request.
	Approve bool

	Note string
}

// Review approves or rejects a pending access request.
// approval also grants the requested role to the requester.
func (uc *AccessRequestUseCase) Review(ctx context.Context, input ReviewAccessInput) error {
	requestID, err := domain.ParseAccessRequestID(input.RequestID)
	if err != nil {
		return fmt.Errorf("invalid request id: %w", err)
	}

	reviewer, err := uc.userRepo.FindByExternalID(ctx, input.ReviewerExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrReviewerNotFound
		}
		return fmt.Errorf("looking up reviewer: %w", err)
	}
	if !reviewer.Role().CanReviewAccess() {
		return ErrNotAuthorized
	}

	var notification *domain.Notification

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		request, err := uc.accessRepo.FindByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("request lookup: %w", err)
		}

		if input.Approve {
			if err := request.Approve(reviewer.ID(), input.Note); err != nil {
				return err
			}

			requester, err := uc.userRepo.FindByID(ctx, request.RequesterID())
			if err != nil {
				return fmt.Errorf("requester lookup: %w", err)
			}
			if err := requester.GrantRole(request.Role()); err != nil {
				return err
			}
			if err := uc.userRepo.Save(ctx, requester); err != nil {
				return fmt.Errorf("saving requester: %w", err)
			}
		} else {
			if err := request.Reject(reviewer.ID(), input.Note); err != nil {
				return err
			}
		}

		if err := uc.accessRepo.Save(ctx, request); err != nil {
			return fmt.Errorf("saving access request: %w", err)
		}

		notification, err = domain.NewNotification(request.RequesterID(), domain.NotificationAccessRequestReviewed, map[string]any{
			"request_id": request.ID().String(),
			"role":       request.Role().String(),
			"status":     request.Status().String(),
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
		return err
	}

	if uc.enqueuer != nil {
		uc.enqueuer.Enqueue(notification)
	}

	uc.logger.Info("access request reviewed",
		"request_id", requestID.String(),
		"reviewer_id", reviewer.ID().String(),
		"approved", input.Approve,
	)
	return nil
}
