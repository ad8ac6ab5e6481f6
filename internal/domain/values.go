package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserID represents a unique identifier for a platform user.
// wrapping uuid to enforce type safety and prevent mixing with other ids.
type UserID struct {
	value uuid.UUID
}

// NewUserID creates a new random UserID.
func NewUserID() UserID {
	return UserID{value: uuid.New()}
}

// ParseUserID parses a string into a UserID.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user id: %w", err)
	}
	return UserID{value: id}, nil
}

// String returns the string representation of the UserID.
func (id UserID) String() string {
	return id.value.String()
}

// UUID returns the underlying uuid value.
func (id UserID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true if the UserID is not set.
func (id UserID) IsZero() bool {
	return id.value == uuid.Nil
}

// OfferID represents a unique identifier for a job offer.
type OfferID struct {
	value uuid.UUID
}

// NewOfferID creates a new random OfferID.
func NewOfferID() OfferID {
	return OfferID{value: uuid.New()}
}

// ParseOfferID parses a string into an OfferID.
func ParseOfferID(s string) (OfferID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return OfferID{}, fmt.Errorf("invalid offer id: %w", err)
	}
	return OfferID{value: id}, nil
}

// String returns the string representation of the OfferID.
func (id OfferID) String() string {
	return id.value.String()
}

// UUID returns the underlying uuid value.
func (id OfferID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true if the OfferID is not set.
func (id OfferID) IsZero() bool {
	return id.value == uuid.Nil
}

// CandidateID represents a unique identifier for a candidate.
type CandidateID struct {
	value uuid.UUID
}

// NewCandidateID creates a new random CandidateID.
func NewCandidateID() CandidateID {
	return CandidateID{value: uuid.New()}
}

// ParseCandidateID parses a string into a CandidateID.
func ParseCandidateID(s string) (CandidateID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CandidateID{}, fmt.Errorf("invalid candidate id: %w", err)
	}
	return CandidateID{value: id}, nil
}

// String returns the string representation of the CandidateID.
func (id CandidateID) String() string {
	return id.value.String()
}

// UUID returns the underlying uuid value.
func (id CandidateID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true if the CandidateID is not set.
func (id CandidateID) IsZero() bool {
	return id.value == uuid.Nil
}

// ApplicationID represents a unique identifier for an application.
type ApplicationID struct {
	value uuid.UUID
}

// NewApplicationID creates a new random ApplicationID.
func NewApplicationID() ApplicationID {
	return ApplicationID{value: uuid.New()}
}

// ParseApplicationID parses a string into an ApplicationID.
func ParseApplicationID(s string) (ApplicationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ApplicationID{}, fmt.Errorf("invalid application id: %w", err)
	}
	return ApplicationID{value: id}, nil
}

// String returns the string representation of the ApplicationID.
func (id ApplicationID) String() string {
	return id.value.String()
}

// UUID returns the underlying uuid value.
func (id ApplicationID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true if the ApplicationID is not set.
func (id ApplicationID) IsZero() bool {
	return id.value == uuid.Nil
}

// InterviewID represents a unique identifier for an interview.
type InterviewID struct {
	value uuid.UUID
}

// NewInterviewID creates a new random InterviewID.
func NewInterviewID() InterviewID {
	return InterviewID{value: uuid.New()}
}

// ParseInterviewID parses a string into an InterviewID.
func ParseInterviewID(s string) (InterviewID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return InterviewID{}, fmt.Errorf("invalid interview id: %w", err)
	}
	return InterviewID{value: id}, nil
}

// String returns the string representation of the InterviewID.
func (id InterviewID) String() string {
	return id.value.String()
}

// UUID returns the underlying uuid value.
func (id InterviewID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true if the InterviewID is not set.
func (id InterviewID) IsZero() bool {
	return id.value == uuid.Nil
}

// AccessRequestID represents a unique identifier for an access request.
type AccessRequestID struct {
	value uuid.UUID
}

// NewAccessRequestID creates a new random AccessRequestID.
func NewAccessRequestID() AccessRequestID {
	return AccessRequestID{value: uuid.New()}
}

// ParseAccessRequestID parses a string into an AccessRequestID.
func ParseAccessRequestID(s string) (AccessRequestID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return AccessRequestID{}, fmt.Errorf("invalid access request id: %w", err)
	}
	return AccessRequestID{value: id}, nil
}

// String returns the string representation of the AccessRequestID.
func (id AccessRequestID) String() string {
	return id.value.String()
}

// UUID returns the underlying uuid value.
func (id AccessRequestID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true if the AccessRequestID is not set.
func (id AccessRequestID) IsZero() bool {
	return id.value == uuid.Nil
}

// NotificationID represents a unique identifier for a notification.
type NotificationID struct {
	value uuid.UUID
}

// NewNotificationID creates a new random NotificationID.
func NewNotificationID() NotificationID {
	return NotificationID{value: uuid.New()}
}

// ParseNotificationID parses a string into a NotificationID.
func ParseNotificationID(s string) (NotificationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NotificationID{}, fmt.Errorf("invalid notification id: %w", err)
	}
	return NotificationID{value: id}, nil
}

// String returns the string representation of the NotificationID.
func (id NotificationID) String() string {
	return id.value.String()
}

// UUID returns the underlying uuid value.
func (id NotificationID) UUID() uuid.UUID {
	return id.value
}

// IsZero returns true if the NotificationID is not set.
func (id NotificationID) IsZero() bool {
	return id.value == uuid.Nil
}

// Slug represents a url-friendly identifier for a job offer.
// must be lowercase, alphanumeric with hyphens, 3-100 chars.
type Slug struct {
	value string
}

var (
	ErrSlugEmpty    = errors.New("slug cannot be empty")
	ErrSlugTooShort = errors.New("slug must be at least 3 characters")
	ErrSlugTooLong  = errors.New("slug must be at most 100 characters")
	ErrSlugInvalid  = errors.New("slug must contain only lowercase letters, numbers, and hyphens")
)

// NewSlug creates a new Slug from a string, validating the format.
func NewSlug(s string) (Slug, error) {
	if s == "" {
		return Slug{}, ErrSlugEmpty
	}
	if len(s) < 3 {
		return Slug{}, ErrSlugTooShort
	}
	if len(s) > 100 {
		return Slug{}, ErrSlugTooLong
	}

	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return Slug{}, ErrSlugInvalid
		}
	}

	return Slug{value: s}, nil
}

// SlugFromTrusted creates a Slug without validation.
// only use this when loading from database where data is already validated.
func SlugFromTrusted(s string) Slug {
	return Slug{value: s}
}

// String returns the string representation of the Slug.
func (s Slug) String() string {
	return s.value
}

// Email represents a validated email address.
// validation is intentionally shallow: presence of one @ with non-empty
// local and domain parts. delivery is the notifier's problem.
type Email struct {
	value string
}

var (
	ErrEmailEmpty   = errors.New("email cannot be empty")
	ErrEmailTooLong = errors.New("email must be at most 320 characters")
	ErrEmailInvalid = errors.New("email format is invalid")
)

// NewEmail creates a new Email from a string, validating the format.
func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Email{}, ErrEmailEmpty
	}
	if len(s) > 320 {
		return Email{}, ErrEmailTooLong
	}

	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return Email{}, ErrEmailInvalid
	}
	if strings.Count(s, "@") != 1 {
		return Email{}, ErrEmailInvalid
	}
	if strings.ContainsAny(s, " \t\n") {
		return Email{}, ErrEmailInvalid
	}

	return Email{value: strings.ToLower(s)}, nil
}

// EmailFromTrusted creates an Email without validation.
// only use this when loading from database where data is already validated.
func EmailFromTrusted(s string) Email {
	return Email{value: s}
}

// String returns the string representation of the Email.
func (e Email) String() string {
	return e.value
}

// IsZero returns true if the Email is not set.
func (e Email) IsZero() bool {
	return e.value == ""
}
