package domain

import (
	"context"
	"errors"
	"time"
)

// Candidate represents a person applying to job offers.
// candidates are created on first application and shared across offers.
type Candidate struct {
	id        CandidateID
	email     Email
	fullName  string
	phone     string
	resumeURL string
	createdAt time.Time
	updatedAt time.Time
}

var (
	ErrCandidateNameEmpty = errors.New("candidate full name cannot be empty")
	ErrCandidateNameLong  = errors.New("candidate full name must be at most 255 characters")
)

// NewCandidate creates a new Candidate with the required fields.
func NewCandidate(email Email, fullName string) (*Candidate, error) {
	if email.IsZero() {
		return nil, ErrEmailEmpty
	}
	if fullName == "" {
		return nil, ErrCandidateNameEmpty
	}
	if len(fullName) > 255 {
		return nil, ErrCandidateNameLong
	}

	now := time.Now().UTC()
	return &Candidate{
		id:        NewCandidateID(),
		email:     email,
		fullName:  fullName,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCandidate recreates a Candidate from stored data.
// use this when loading from database, not for creating new candidates.
func ReconstructCandidate(
	id CandidateID,
	email Email,
	fullName string,
	phone string,
	resumeURL string,
	createdAt time.Time,
	updatedAt time.Time,
) *Candidate {
	return &Candidate{
		id:        id,
		email:     email,
		fullName:  fullName,
		phone:     phone,
		resumeURL: resumeURL,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the candidate's unique identifier.
func (c *Candidate) ID() CandidateID {
	return c.id
}

// Email returns the candidate's email address.
func (c *Candidate) Email() Email {
	return c.email
}

// FullName returns the candidate's full name.
func (c *Candidate) FullName() string {
	return c.fullName
}

// Phone returns the candidate's phone number.
func (c *Candidate) Phone() string {
	return c.phone
}

// ResumeURL returns a link to the candidate's resume.
func (c *Candidate) ResumeURL() string {
	return c.resumeURL
}

// CreatedAt returns when the candidate was created.
func (c *Candidate) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the candidate was last updated.
func (c *Candidate) UpdatedAt() time.Time {
	return c.updatedAt
}

// UpdateContact updates the candidate's contact fields.
func (c *Candidate) UpdateContact(fullName, phone, resumeURL string) error {
	if fullName == "" {
		return ErrCandidateNameEmpty
	}
	if len(fullName) > 255 {
		return ErrCandidateNameLong
	}

	c.fullName = fullName
	c.phone = phone
	c.resumeURL = resumeURL
	c.updatedAt = time.Now().UTC()
	return nil
}

// CandidateRepository defines persistence for candidates.
type CandidateRepository interface {
	// Save persists a candidate (insert or update).
	Save(ctx context.Context, candidate *Candidate) error

	// FindByID retrieves a candidate by their ID.
	FindByID(ctx context.Context, id CandidateID) (*Candidate, error)

	// FindByEmail retrieves a candidate by their email address.
	FindByEmail(ctx context.Context, email Email) (*Candidate, error)

	// FindByIDs retrieves multiple candidates, preserving input order.
	FindByIDs(ctx context.Context, ids []CandidateID) ([]*Candidate, error)
}
