package application

import (
	"context"
	"fmt"
	"time"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// ScheduleInterviewUseCase handles the interview lifecycle.
// scheduling writes the interview and the interviewer notification in one
// unit of work; outcome recording is a single-row update.
type ScheduleInterviewUseCase struct {
	interviewRepo    domain.InterviewRepository
	applicationRepo  domain.ApplicationRepository
	userRepo         domain.UserRepository
	notificationRepo domain.NotificationRepository
	sessions         SessionProvider
	enqueuer         NotificationEnqueuer
	logger           *logging.Logger
}

// NewScheduleInterviewUseCase creates a new ScheduleInterviewUseCase.
func NewScheduleInterviewUseCase(
	interviewRepo domain.InterviewRepository,
	applicationRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	notificationRepo domain.NotificationRepository,
	sessions SessionProvider,
	logger *logging.Logger,
) *ScheduleInterviewUseCase {
	return &ScheduleInterviewUseCase{
		interviewRepo:    interviewRepo,
		applicationRepo:  applicationRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		sessions:         sessions,
		logger:           logger.WithComponent("schedule_interview"),
	}
}

// WithEnqueuer sets the notification dispatcher handoff.
func (uc *ScheduleInterviewUseCase) WithEnqueuer(e NotificationEnqueuer) *ScheduleInterviewUseCase {
	uc.enqueuer = e
	return uc
}

// ScheduleInterviewInput contains the data needed to schedule an interview.
type ScheduleInterviewInput struct {
	ApplicationID string
	InterviewerID string
	ScheduledAt   time.Time
	Duration      time.Duration
	Location      string
}

// ScheduleInterviewOutput contains the result of scheduling.
type ScheduleInterviewOutput struct {
	InterviewID   string
	ApplicationID string
	InterviewerID string
	ScheduledAt   time.Time
}

// Execute schedules an interview for an application in the interview stage.
func (uc *ScheduleInterviewUseCase) Execute(ctx context.Context, input ScheduleInterviewInput) (*ScheduleInterviewOutput, error) {
	applicationID, err := domain.ParseApplicationID(input.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("invalid application id: %w", err)
	}

	interviewerID, err := domain.ParseUserID(input.InterviewerID)
	if err != nil {
		return nil, fmt.Errorf("invalid interviewer id: %w", err)
	}

	var interview *domain.Interview
	var notification *domain.Notification

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		application, err := uc.applicationRepo.FindByID(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("application lookup: %w", err)
		}
		if application.Stage() != domain.StageInterview {
			return domain.ErrStageNotInterviewing
		}

		exists, err := uc.userRepo.Exists(ctx, interviewerID)
		if err != nil {
			return fmt.Errorf("interviewer lookup: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}

		interview, err = domain.NewInterview(applicationID, interviewerID, input.ScheduledAt, input.Duration, input.Location)
		if err != nil {
			return err
		}
		if err := uc.interviewRepo.Save(ctx, interview); err != nil {
			return fmt.Errorf("saving interview: %w", err)
		}

		notification, err = domain.NewNotification(interviewerID, domain.NotificationInterviewScheduled, map[string]any{
			"interview_id":   interview.ID().String(),
			"application_id": applicationID.String(),
			"scheduled_at":   interview.ScheduledAt().Format(time.RFC3339),
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

	if uc.enqueuer != nil {
		uc.enqueuer.Enqueue(notification)
	}

	uc.logger.Info("interview scheduled",
		"interview_id", interview.ID().String(),
		"application_id", applicationID.String(),
		"interviewer_id", interviewerID.String(),
	)

	return &ScheduleInterviewOutput{
		InterviewID:   interview.ID().String(),
		ApplicationID: applicationID.String(),
		InterviewerID: interviewerID.String(),
		ScheduledAt:   interview.ScheduledAt(),
	}, nil
}

// RecordOutcomeInput captures how an interview ended.
type RecordOutcomeInput struct {
	InterviewID string

	// Outcome is one of "completed", "cancelled", "no_show".
	Outcome string

	// Feedback and Score only apply to completed interviews.
	Feedback string
	Score    int
}

// RecordOutcome records the terminal state of a scheduled interview.
func (uc *ScheduleInterviewUseCase) RecordOutcome(ctx context.Context, input RecordOutcomeInput) error {
	interviewID, err := domain.ParseInterviewID(input.InterviewID)
	if err != nil {
		return fmt.Errorf("invalid interview id: %w", err)
	}

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		interview, err := uc.interviewRepo.FindByID(ctx, interviewID)
		if err != nil {
			return fmt.Errorf("interview lookup: %w", err)
		}

		switch input.Outcome {
		case domain.InterviewStatusCompleted.String():
			err = interview.Complete(input.Feedback, input.Score)
		case domain.InterviewStatusCancelled.String():
			err = interview.Cancel()
		case domain.InterviewStatusNoShow.String():
			err = interview.MarkNoShow()
		default:
			return fmt.Errorf("%w: %q", domain.ErrInvalidInterviewStatus, input.Outcome)
		}
		if err != nil {
			return err
		}

		if err := uc.interviewRepo.Save(ctx, interview); err != nil {
			return fmt.Errorf("saving interview: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info("interview outcome recorded",
		"interview_id", interviewID.String(),
		"outcome", input.Outcome,
	)
	return nil
}
