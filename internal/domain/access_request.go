package domain

import (
	"context"
	"errors"
	"time"
)

// AccessStatus represents the review state of an access request.
type AccessStatus string

const (
	AccessStatusPending  AccessStatus = "pending"
	AccessStatusApproved AccessStatus = "approved"
	AccessStatusRejected AccessStatus = "rejected"
)

var validAccessStatuses = map[AccessStatus]bool{
	AccessStatusPending:  true,
	AccessStatusApproved: true,
	AccessStatusRejected: true,
}

// ParseAccessStatus validates and returns an AccessStatus from a string.
func ParseAccessStatus(s string) (AccessStatus, error) {
	st := AccessStatus(s)
	if !validAccessStatuses[st] {
		return "", ErrInvalidAccessStatus
	}
	return st, nil
}

// String returns the string representation of the AccessStatus.
func (s AccessStatus) String() string {
	return string(s)
}

// AccessRequest represents a user's request for an elevated platform role.
// requests are reviewed by admins and reach exactly one terminal state.
type AccessRequest struct {
	id          AccessRequestID
	requesterID UserID
	role        Role
	reason      string
	status      AccessStatus
	reviewerID  *UserID
	reviewNote  string
	reviewedAt  *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

var (
	ErrAccessRequesterEmpty = errors.New("access request must have a requester")
	ErrAccessReasonEmpty    = errors.New("access request must state a reason")
	ErrAccessNotPending     = errors.New("access request has already been reviewed")
	ErrAccessReviewerEmpty  = errors.New("access request review must have a reviewer")
	ErrInvalidAccessStatus  = errors.New("invalid access request status")
)

// NewAccessRequest creates a new pending AccessRequest.
func NewAccessRequest(requesterID UserID, role Role, reason string) (*AccessRequest, error) {
	if requesterID.IsZero() {
		return nil, ErrAccessRequesterEmpty
	}
	if !validRoles[role] {
		return nil, ErrInvalidRole
	}
	if reason == "" {
		return nil, ErrAccessReasonEmpty
	}

	now := time.Now().UTC()
	return &AccessRequest{
		id:          NewAccessRequestID(),
		requesterID: requesterID,
		role:        role,
		reason:      reason,
		status:      AccessStatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructAccessRequest recreates an AccessRequest from stored data.
// use this when loading from database, not for creating new requests.
func ReconstructAccessRequest(
	id AccessRequestID,
	requesterID UserID,
	role Role,
	reason string,
	status AccessStatus,
	reviewerID *UserID,
	reviewNote string,
	reviewedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *AccessRequest {
	return &AccessRequest{
		id:          id,
		requesterID: requesterID,
		role:        role,
		reason:      reason,
		status:      status,
		reviewerID:  reviewerID,
		reviewNote:  reviewNote,
		reviewedAt:  reviewedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the request's unique identifier.
func (r *AccessRequest) ID() AccessRequestID {
	return r.id
}

// RequesterID returns the user asking for access.
func (r *AccessRequest) RequesterID() UserID {
	return r.requesterID
}

// Role returns the requested role.
func (r *AccessRequest) Role() Role {
	return r.role
}

// Reason returns the requester's justification.
func (r *AccessRequest) Reason() string {
	return r.reason
}

// Status returns the review status.
func (r *AccessRequest) Status() AccessStatus {
	return r.status
}

// ReviewerID returns the admin who reviewed the request, if reviewed.
func (r *AccessRequest) ReviewerID() *UserID {
	return r.reviewerID
}

// ReviewNote returns the reviewer's note.
func (r *AccessRequest) ReviewNote() string {
	return r.reviewNote
}

// ReviewedAt returns when the request was reviewed, if reviewed.
func (r *AccessRequest) ReviewedAt() *time.Time {
	return r.reviewedAt
}

// CreatedAt returns when the request was created.
func (r *AccessRequest) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the request was last updated.
func (r *AccessRequest) UpdatedAt() time.Time {
	return r.updatedAt
}

// Approve marks the request approved. only pending requests can be reviewed.
func (r *AccessRequest) Approve(reviewerID UserID, note string) error {
	return r.review(AccessStatusApproved, reviewerID, note)
}

// Reject marks the request rejected. only pending requests can be reviewed.
func (r *AccessRequest) Reject(reviewerID UserID, note string) error {
	return r.review(AccessStatusRejected, reviewerID, note)
}

func (r *AccessRequest) review(status AccessStatus, reviewerID UserID, note string) error {
	if r.status != AccessStatusPending {
		return ErrAccessNotPending
	}
	if reviewerID.IsZero() {
		return ErrAccessReviewerEmpty
	}

	now := time.Now().UTC()
	r.status = status
	r.reviewerID = &reviewerID
	r.reviewNote = note
	r.reviewedAt = &now
	r.updatedAt = now
	return nil
}

// AccessRequestRepository defines persistence for access requests.
type AccessRequestRepository interface {
	// Save persists an access request (insert or update).
	Save(ctx context.Context, request *AccessRequest) error

	// FindByID retrieves an access request by its ID.
	FindByID(ctx context.Context, id AccessRequestID) (*AccessRequest, error)

	// FindPendingByRequester retrieves the requester's pending request, if any.
	FindPendingByRequester(ctx context.Context, requesterID UserID) (*AccessRequest, error)

	// ListByStatus returns requests in a given status, oldest first.
	ListByStatus(ctx context.Context, status AccessStatus, limit, offset int) ([]*AccessRequest, error)
}
