package domain

import (
	"context"
	"errors"
	"time"
)

// InterviewStatus represents the lifecycle state of an interview.
type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCancelled InterviewStatus = "cancelled"
	InterviewStatusNoShow    InterviewStatus = "no_show"
)

var validInterviewStatuses = map[InterviewStatus]bool{
	InterviewStatusScheduled: true,
	InterviewStatusCompleted: true,
	InterviewStatusCancelled: true,
	InterviewStatusNoShow:    true,
}

// ParseInterviewStatus validates and returns an InterviewStatus from a string.
func ParseInterviewStatus(s string) (InterviewStatus, error) {
	st := InterviewStatus(s)
	if !validInterviewStatuses[st] {
		return "", ErrInvalidInterviewStatus
	}
	return st, nil
}

// String returns the string representation of the InterviewStatus.
func (s InterviewStatus) String() string {
	return string(s)
}

const (
	// MinInterviewDuration is the shortest schedulable interview.
	MinInterviewDuration = 15 * time.Minute

	// MaxInterviewDuration is the longest schedulable interview.
	MaxInterviewDuration = 4 * time.Hour
)

// Interview represents a scheduled conversation with a candidate.
type Interview struct {
	id            InterviewID
	applicationID ApplicationID
	interviewerID UserID
	scheduledAt   time.Time
	duration      time.Duration
	location      string
	status        InterviewStatus
	feedback      string
	score         *int
	createdAt     time.Time
	updatedAt     time.Time
}

var (
	ErrInterviewApplicationEmpty = errors.New("interview must reference an application")
	ErrInterviewInterviewerEmpty = errors.New("interview must have an interviewer")
	ErrInterviewInPast           = errors.New("interview cannot be scheduled in the past")
	ErrInterviewDuration         = errors.New("interview duration must be between 15 minutes and 4 hours")
	ErrInterviewNotScheduled     = errors.New("interview is not in the scheduled state")
	ErrInterviewScore            = errors.New("interview score must be between 0 and 10")
	ErrInvalidInterviewStatus    = errors.New("invalid interview status")
)

// NewInterview creates a new scheduled Interview.
// scheduledAt must be in the future at creation time.
func NewInterview(
	applicationID ApplicationID,
	interviewerID UserID,
	scheduledAt time.Time,
	duration time.Duration,
	location string,
) (*Interview, error) {
	if applicationID.IsZero() {
		return nil, ErrInterviewApplicationEmpty
	}
	if interviewerID.IsZero() {
		return nil, ErrInterviewInterviewerEmpty
	}

	now := time.Now().UTC()
	if !scheduledAt.After(now) {
		return nil, ErrInterviewInPast
	}
	if duration < MinInterviewDuration || duration > MaxInterviewDuration {
		return nil, ErrInterviewDuration
	}

	return &Interview{
		id:            NewInterviewID(),
		applicationID: applicationID,
		interviewerID: interviewerID,
		scheduledAt:   scheduledAt.UTC(),
		duration:      duration,
		location:      location,
		status:        InterviewStatusScheduled,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructInterview recreates an Interview from stored data.
// use this when loading from database, not for creating new interviews.
func ReconstructInterview(
	id InterviewID,
	applicationID ApplicationID,
	interviewerID UserID,
	scheduledAt time.Time,
	duration time.Duration,
	location string,
	status InterviewStatus,
	feedback string,
	score *int,
	createdAt time.Time,
	updatedAt time.Time,
) *Interview {
	return &Interview{
		id:            id,
		applicationID: applicationID,
		interviewerID: interviewerID,
		scheduledAt:   scheduledAt,
		duration:      duration,
		location:      location,
		status:        status,
		feedback:      feedback,
		score:         score,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the interview's unique identifier.
func (i *Interview) ID() InterviewID {
	return i.id
}

// ApplicationID returns the application this interview belongs to.
func (i *Interview) ApplicationID() ApplicationID {
	return i.applicationID
}

// InterviewerID returns the user conducting the interview.
func (i *Interview) InterviewerID() UserID {
	return i.interviewerID
}

// ScheduledAt returns the scheduled start time.
func (i *Interview) ScheduledAt() time.Time {
	return i.scheduledAt
}

// Duration returns the planned length of the interview.
func (i *Interview) Duration() time.Duration {
	return i.duration
}

// Location returns the meeting room or video call link.
func (i *Interview) Location() string {
	return i.location
}

// Status returns the interview's lifecycle status.
func (i *Interview) Status() InterviewStatus {
	return i.status
}

// Feedback returns the interviewer's written feedback.
func (i *Interview) Feedback() string {
	return i.feedback
}

// Score returns the interviewer's score, set on completion.
func (i *Interview) Score() *int {
	return i.score
}

// CreatedAt returns when the interview was scheduled.
func (i *Interview) CreatedAt() time.Time {
	return i.createdAt
}

// UpdatedAt returns when the interview was last updated.
func (i *Interview) UpdatedAt() time.Time {
	return i.updatedAt
}

// Complete records feedback and a score, moving to completed.
func (i *Interview) Complete(feedback string, score int) error {
	if i.status != InterviewStatusScheduled {
		return ErrInterviewNotScheduled
	}
	if score < 0 || score > 10 {
		return ErrInterviewScore
	}

	i.status = InterviewStatusCompleted
	i.feedback = feedback
	i.score = &score
	i.updatedAt = time.Now().UTC()
	return nil
}

// Cancel moves the interview to cancelled.
func (i *Interview) Cancel() error {
	if i.status != InterviewStatusScheduled {
		return ErrInterviewNotScheduled
	}

	i.status = InterviewStatusCancelled
	i.updatedAt = time.Now().UTC()
	return nil
}

// MarkNoShow records that the candidate did not attend.
func (i *Interview) MarkNoShow() error {
	if i.status != InterviewStatusScheduled {
		return ErrInterviewNotScheduled
	}

	i.status = InterviewStatusNoShow
	i.updatedAt = time.Now().UTC()
	return nil
}

// InterviewRepository defines persistence for interviews.
type InterviewRepository interface {
	// Save persists an interview (insert or update).
	Save(ctx context.Context, interview *Interview) error

	// FindByID retrieves an interview by its ID.
	FindByID(ctx context.Context, id InterviewID) (*Interview, error)

	// ListByApplication returns interviews for an application, oldest first.
	ListByApplication(ctx context.Context, applicationID ApplicationID) ([]*Interview, error)

	// ListUpcomingByInterviewer returns scheduled interviews for a user,
	// soonest first.
	ListUpcomingByInterviewer(ctx context.Context, interviewerID UserID, limit int) ([]*Interview, error)
}
