package domain

import (
	"context"
	"errors"
	"time"
)

// OfferStatus represents the lifecycle state of a job offer.
type OfferStatus string

const (
	OfferStatusDraft     OfferStatus = "draft"
	OfferStatusPublished OfferStatus = "published"
	OfferStatusClosed    OfferStatus = "closed"
)

var validOfferStatuses = map[OfferStatus]bool{
	OfferStatusDraft:     true,
	OfferStatusPublished: true,
	OfferStatusClosed:    true,
}

// ParseOfferStatus validates and returns an OfferStatus from a string.
func ParseOfferStatus(s string) (OfferStatus, error) {
	st := OfferStatus(s)
	if !validOfferStatuses[st] {
		return "", ErrInvalidOfferStatus
	}
	return st, nil
}

// String returns the string representation of the OfferStatus.
func (s OfferStatus) String() string {
	return string(s)
}

// JobOffer represents an open position candidates can apply to.
// offers start as drafts, are published to accept applications,
// and are closed when filled or withdrawn.
type JobOffer struct {
	id          OfferID
	slug        Slug
	title       string
	description string
	department  string
	location    string
	salaryMin   int
	salaryMax   int
	status      OfferStatus
	createdBy   UserID
	publishedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

var (
	ErrOfferTitleEmpty     = errors.New("offer title cannot be empty")
	ErrOfferTitleTooLong   = errors.New("offer title must be at most 255 characters")
	ErrOfferCreatorEmpty   = errors.New("offer must have a creator")
	ErrOfferSalaryRange    = errors.New("offer salary minimum cannot exceed maximum")
	ErrOfferNotDraft       = errors.New("offer is not a draft")
	ErrOfferNotPublished   = errors.New("offer is not published")
	ErrInvalidOfferStatus  = errors.New("invalid offer status")
)

// NewJobOffer creates a new draft JobOffer with the required fields.
func NewJobOffer(slug Slug, title string, createdBy UserID) (*JobOffer, error) {
	if title == "" {
		return nil, ErrOfferTitleEmpty
	}
	if len(title) > 255 {
		return nil, ErrOfferTitleTooLong
	}
	if createdBy.IsZero() {
		return nil, ErrOfferCreatorEmpty
	}

	now := time.Now().UTC()
	return &JobOffer{
		id:        NewOfferID(),
		slug:      slug,
		title:     title,
		status:    OfferStatusDraft,
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructJobOffer recreates a JobOffer from stored data.
// use this when loading from database, not for creating new offers.
func ReconstructJobOffer(
	id OfferID,
	slug Slug,
	title string,
	description string,
	department string,
	location string,
	salaryMin int,
	salaryMax int,
	status OfferStatus,
	createdBy UserID,
	publishedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *JobOffer {
	return &JobOffer{
		id:          id,
		slug:        slug,
		title:       title,
		description: description,
		department:  department,
		location:    location,
		salaryMin:   salaryMin,
		salaryMax:   salaryMax,
		status:      status,
		createdBy:   createdBy,
		publishedAt: publishedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the offer's unique identifier.
func (o *JobOffer) ID() OfferID {
	return o.id
}

// Slug returns the offer's URL-friendly slug.
func (o *JobOffer) Slug() Slug {
	return o.slug
}

// Title returns the offer's title.
func (o *JobOffer) Title() string {
	return o.title
}

// Description returns the offer's description.
func (o *JobOffer) Description() string {
	return o.description
}

// Department returns the hiring department.
func (o *JobOffer) Department() string {
	return o.department
}

// Location returns the offer's location.
func (o *JobOffer) Location() string {
	return o.location
}

// SalaryMin returns the lower bound of the salary range.
func (o *JobOffer) SalaryMin() int {
	return o.salaryMin
}

// SalaryMax returns the upper bound of the salary range.
func (o *JobOffer) SalaryMax() int {
	return o.salaryMax
}

// Status returns the offer's lifecycle status.
func (o *JobOffer) Status() OfferStatus {
	return o.status
}

// CreatedBy returns the ID of the recruiter who created this offer.
func (o *JobOffer) CreatedBy() UserID {
	return o.createdBy
}

// PublishedAt returns when the offer was published, if ever.
func (o *JobOffer) PublishedAt() *time.Time {
	return o.publishedAt
}

// CreatedAt returns when the offer was created.
func (o *JobOffer) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the offer was last updated.
func (o *JobOffer) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsPublished returns true if the offer currently accepts applications.
func (o *JobOffer) IsPublished() bool {
	return o.status == OfferStatusPublished
}

// UpdateDetails updates the offer's descriptive fields.
// only draft offers can be edited.
func (o *JobOffer) UpdateDetails(title, description, department, location string, salaryMin, salaryMax int) error {
	if o.status != OfferStatusDraft {
		return ErrOfferNotDraft
	}
	if title == "" {
		return ErrOfferTitleEmpty
	}
	if len(title) > 255 {
		return ErrOfferTitleTooLong
	}
	if salaryMin > salaryMax {
		return ErrOfferSalaryRange
	}

	o.title = title
	o.description = description
	o.department = department
	o.location = location
	o.salaryMin = salaryMin
	o.salaryMax = salaryMax
	o.updatedAt = time.Now().UTC()
	return nil
}

// Publish moves the offer from draft to published.
func (o *JobOffer) Publish() error {
	if o.status != OfferStatusDraft {
		return ErrOfferNotDraft
	}

	now := time.Now().UTC()
	o.status = OfferStatusPublished
	o.publishedAt = &now
	o.updatedAt = now
	return nil
}

// Close moves the offer from published to closed.
func (o *JobOffer) Close() error {
	if o.status != OfferStatusPublished {
		return ErrOfferNotPublished
	}

	o.status = OfferStatusClosed
	o.updatedAt = time.Now().UTC()
	return nil
}

// JobOfferRepository defines persistence for job offers.
type JobOfferRepository interface {
	// Save persists an offer (insert or update).
	Save(ctx context.Context, offer *JobOffer) error

	// FindByID retrieves an offer by its ID.
	FindByID(ctx context.Context, id OfferID) (*JobOffer, error)

	// FindBySlug retrieves an offer by its URL-friendly slug.
	FindBySlug(ctx context.Context, slug Slug) (*JobOffer, error)

	// FindByIDs retrieves multiple offers, preserving input order.
	FindByIDs(ctx context.Context, ids []OfferID) ([]*JobOffer, error)

	// ListPublished returns published offers, newest first.
	ListPublished(ctx context.Context, limit, offset int) ([]*JobOffer, error)

	// ListAll returns offers in any status, newest first.
	ListAll(ctx context.Context, limit, offset int) ([]*JobOffer, error)

	// Exists checks if an offer with the given ID exists.
	Exists(ctx context.Context, id OfferID) (bool, error)

	// CountApplications returns the number of applications per offer id.
	CountApplications(ctx context.Context, ids []OfferID) (map[OfferID]int64, error)
}
