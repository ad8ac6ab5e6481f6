package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// NotificationKind represents the type of event being notified.
type NotificationKind string

const (
	NotificationApplicationStageChanged NotificationKind = "application_stage_changed"
	NotificationInterviewScheduled      NotificationKind = "interview_scheduled"
	NotificationAccessRequestReviewed   NotificationKind = "access_request_reviewed"
)

var validNotificationKinds = map[NotificationKind]bool{
	NotificationApplicationStageChanged: true,
	NotificationInterviewScheduled:      true,
	NotificationAccessRequestReviewed:   true,
}

// String returns the string representation of the NotificationKind.
func (k NotificationKind) String() string {
	return string(k)
}

// NotificationStatus represents delivery state.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// String returns the string representation of the NotificationStatus.
func (s NotificationStatus) String() string {
	return string(s)
}

// Notification represents an outbound message queued for delivery.
// notifications are written in the same unit of work as the change they
// describe, then dispatched asynchronously by the notification worker.
type Notification struct {
	id          NotificationID
	recipientID UserID
	kind        NotificationKind
	payload     map[string]any
	status      NotificationStatus
	attempts    int
	createdAt   time.Time
	updatedAt   time.Time
}

var (
	ErrNotificationRecipientEmpty = errors.New("notification must have a recipient")
	ErrInvalidNotificationKind    = errors.New("invalid notification kind")
)

// NewNotification creates a new pending Notification.
func NewNotification(recipientID UserID, kind NotificationKind, payload map[string]any) (*Notification, error) {
	if recipientID.IsZero() {
		return nil, ErrNotificationRecipientEmpty
	}
	if !validNotificationKinds[kind] {
		return nil, ErrInvalidNotificationKind
	}

	now := time.Now().UTC()
	return &Notification{
		id:          NewNotificationID(),
		recipientID: recipientID,
		kind:        kind,
		payload:     payload,
		status:      NotificationStatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructNotification recreates a Notification from stored data.
// bypasses validation for trusted data from database.
func ReconstructNotification(
	id NotificationID,
	recipientID UserID,
	kind NotificationKind,
	payload map[string]any,
	status NotificationStatus,
	attempts int,
	createdAt time.Time,
	updatedAt time.Time,
) *Notification {
	return &Notification{
		id:          id,
		recipientID: recipientID,
		kind:        kind,
		payload:     payload,
		status:      status,
		attempts:    attempts,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters

func (n *Notification) ID() NotificationID         { return n.id }
func (n *Notification) RecipientID() UserID        { return n.recipientID }
func (n *Notification) Kind() NotificationKind     { return n.kind }
func (n *Notification) Payload() map[string]any    { return n.payload }
func (n *Notification) Status() NotificationStatus { return n.status }
func (n *Notification) Attempts() int              { return n.attempts }
func (n *Notification) CreatedAt() time.Time       { return n.createdAt }
func (n *Notification) UpdatedAt() time.Time       { return n.updatedAt }

// PayloadJSON returns the payload as a JSON byte slice.
// useful for database storage and webhook bodies.
func (n *Notification) PayloadJSON() ([]byte, error) {
	if n.payload == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.payload)
}

// MarkSent records a successful delivery attempt.
func (n *Notification) MarkSent() {
	n.status = NotificationStatusSent
	n.attempts++
	n.updatedAt = time.Now().UTC()
}

// MarkFailed records a failed delivery attempt.
func (n *Notification) MarkFailed() {
	n.status = NotificationStatusFailed
	n.attempts++
	n.updatedAt = time.Now().UTC()
}

// NotificationRepository defines persistence for notifications.
type NotificationRepository interface {
	// Save persists a notification (insert or update).
	Save(ctx context.Context, notification *Notification) error

	// ListPending returns pending notifications, oldest first.
	ListPending(ctx context.Context, limit int) ([]*Notification, error)

	// UpdateStatus persists the delivery outcome of a notification.
	UpdateStatus(ctx context.Context, id NotificationID, status NotificationStatus, attempts int) error
}
