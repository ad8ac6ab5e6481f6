package domain

import (
	"context"
	"errors"
	"time"
)

// Application represents one candidate's application to one job offer.
// applications move through the stage pipeline defined in stage.go.
type Application struct {
	id             ApplicationID
	offerID        OfferID
	candidateID    CandidateID
	stage          Stage
	note           string
	stageChangedAt time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

var (
	ErrApplicationOfferEmpty     = errors.New("application must reference an offer")
	ErrApplicationCandidateEmpty = errors.New("application must reference a candidate")
)

// NewApplication creates a new Application in the applied stage.
func NewApplication(offerID OfferID, candidateID CandidateID, note string) (*Application, error) {
	if offerID.IsZero() {
		return nil, ErrApplicationOfferEmpty
	}
	if candidateID.IsZero() {
		return nil, ErrApplicationCandidateEmpty
	}

	now := time.Now().UTC()
	return &Application{
		id:             NewApplicationID(),
		offerID:        offerID,
		candidateID:    candidateID,
		stage:          StageApplied,
		note:           note,
		stageChangedAt: now,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructApplication recreates an Application from stored data.
// use this when loading from database, not for creating new applications.
func ReconstructApplication(
	id ApplicationID,
	offerID OfferID,
	candidateID CandidateID,
	stage Stage,
	note string,
	stageChangedAt time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Application {
	return &Application{
		id:             id,
		offerID:        offerID,
		candidateID:    candidateID,
		stage:          stage,
		note:           note,
		stageChangedAt: stageChangedAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the application's unique identifier.
func (a *Application) ID() ApplicationID {
	return a.id
}

// OfferID returns the offer this application targets.
func (a *Application) OfferID() OfferID {
	return a.offerID
}

// CandidateID returns the candidate who applied.
func (a *Application) CandidateID() CandidateID {
	return a.candidateID
}

// Stage returns the current pipeline stage.
func (a *Application) Stage() Stage {
	return a.stage
}

// Note returns the free-form recruiter note.
func (a *Application) Note() string {
	return a.note
}

// StageChangedAt returns when the stage last changed.
func (a *Application) StageChangedAt() time.Time {
	return a.stageChangedAt
}

// CreatedAt returns when the application was submitted.
func (a *Application) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the application was last updated.
func (a *Application) UpdatedAt() time.Time {
	return a.updatedAt
}

// Advance moves the application to the next pipeline stage.
func (a *Application) Advance() (Stage, error) {
	next, err := a.stage.Next()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	a.stage = next
	a.stageChangedAt = now
	a.updatedAt = now
	return next, nil
}

// AdvanceTo moves the application to target if the pipeline allows it.
func (a *Application) AdvanceTo(target Stage) error {
	if a.stage.IsTerminal() {
		return ErrStageTerminal
	}
	if !a.stage.CanAdvanceTo(target) {
		return ErrStageTransition
	}

	now := time.Now().UTC()
	a.stage = target
	a.stageChangedAt = now
	a.updatedAt = now
	return nil
}

// Reject moves the application to the rejected stage.
// allowed from any non-terminal stage.
func (a *Application) Reject(note string) error {
	if a.stage.IsTerminal() {
		return ErrStageTerminal
	}

	now := time.Now().UTC()
	a.stage = StageRejected
	if note != "" {
		a.note = note
	}
	a.stageChangedAt = now
	a.updatedAt = now
	return nil
}

// SetNote replaces the recruiter note.
func (a *Application) SetNote(note string) {
	a.note = note
	a.updatedAt = time.Now().UTC()
}

// ApplicationRepository defines persistence for applications.
type ApplicationRepository interface {
	// Save persists an application (insert or update).
	Save(ctx context.Context, application *Application) error

	// FindByID retrieves an application by its ID.
	FindByID(ctx context.Context, id ApplicationID) (*Application, error)

	// FindByOfferAndCandidate retrieves the application a candidate has
	// for a specific offer, if any.
	FindByOfferAndCandidate(ctx context.Context, offerID OfferID, candidateID CandidateID) (*Application, error)

	// ListByOffer returns applications for an offer, newest first.
	ListByOffer(ctx context.Context, offerID OfferID, limit, offset int) ([]*Application, error)

	// ListByStage returns applications in a given stage, oldest first.
	ListByStage(ctx context.Context, stage Stage, limit, offset int) ([]*Application, error)

	// ListAll returns every application, used by the warehouse export.
	ListAll(ctx context.Context) ([]*Application, error)
}
