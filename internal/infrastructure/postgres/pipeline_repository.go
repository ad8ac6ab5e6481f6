package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hiredesk/hiredesk/internal/domain"
)

// ApplicationRepository implements domain.ApplicationRepository using Postgres.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

const applicationColumns = `id, offer_id, candidate_id, stage, note, stage_changed_at, created_at, updated_at`

// Save persists an application (insert or update).
func (r *ApplicationRepository) Save(ctx context.Context, application *domain.Application) error {
	const query = `
		INSERT INTO hiredesk.applications (id, offer_id, candidate_id, stage, note, stage_changed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			stage = EXCLUDED.stage,
			note = EXCLUDED.note,
			stage_changed_at = EXCLUDED.stage_changed_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := GetQuerier(ctx, r.pool).Exec(ctx, query,
		application.ID().UUID(),
		application.OfferID().UUID(),
		application.CandidateID().UUID(),
		application.Stage().String(),
		nullableString(application.Note()),
		application.StageChangedAt(),
		application.CreatedAt(),
		application.UpdatedAt(),
	)

	if err != nil {
		return fmt.Errorf("saving application: %w", err)
	}
	return nil
}

// FindByID retrieves an application by its ID.
func (r *ApplicationRepository) FindByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM hiredesk.applications
		WHERE id = $1
	`

	return r.scanApplication(ctx, query, id.UUID())
}

// FindByOfferAndCandidate retrieves the application a candidate has for an offer.
func (r *ApplicationRepository) FindByOfferAndCandidate(ctx context.Context, offerID domain.OfferID, candidateID domain.CandidateID) (*domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM hiredesk.applications
		WHERE offer_id = $1 AND candidate_id = $2
	`

	return r.scanApplication(ctx, query, offerID.UUID(), candidateID.UUID())
}

// ListByOffer returns applications for an offer, newest first.
func (r *ApplicationRepository) ListByOffer(ctx context.Context, offerID domain.OfferID, limit, offset int) ([]*domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM hiredesk.applications
		WHERE offer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.listApplications(ctx, query, offerID.UUID(), limit, offset)
}

// ListByStage returns applications in a given stage, oldest first.
func (r *ApplicationRepository) ListByStage(ctx context.Context, stage domain.Stage, limit, offset int) ([]*domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM hiredesk.applications
		WHERE stage = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	return r.listApplications(ctx, query, stage.String(), limit, offset)
}

// ListAll returns every application ordered by submission time.
func (r *ApplicationRepository) ListAll(ctx context.Context) ([]*domain.Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM hiredesk.applications
		ORDER BY created_at ASC
	`

	return r.listApplications(ctx, query)
}

func (r *ApplicationRepository) listApplications(ctx context.Context, query string, args ...any) ([]*domain.Application, error) {
	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var applications []*domain.Application
	for rows.Next() {
		application, err := scanApplicationRow(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, application)
	}

	return applications, rows.Err()
}

func (r *ApplicationRepository) scanApplication(ctx context.Context, query string, args ...any) (*domain.Application, error) {
	row := GetQuerier(ctx, r.pool).QueryRow(ctx, query, args...)

	application, err := scanApplicationRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return application, err
}

func scanApplicationRow(row pgx.Row) (*domain.Application, error) {
	var (
		id             string
		offerID        string
		candidateID    string
		stage          string
		note           *string
		stageChangedAt time.Time
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(&id, &offerID, &candidateID, &stage, &note, &stageChangedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	// database stores trusted data, but we still validate for safety
	applicationID, err := domain.ParseApplicationID(id)
	if err != nil {
		return nil, fmt.Errorf("corrupted application id in database: %w", err)
	}

	offerIDParsed, err := domain.ParseOfferID(offerID)
	if err != nil {
		return nil, fmt.Errorf("corrupted offer id in database: %w", err)
	}

	candidateIDParsed, err := domain.ParseCandidateID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("corrupted candidate id in database: %w", err)
	}

	stageParsed, err := domain.ParseStage(stage)
	if err != nil {
		return nil, fmt.Errorf("corrupted stage in database: %w", err)
	}

	return domain.ReconstructApplication(
		applicationID,
		offerIDParsed,
		candidateIDParsed,
		stageParsed,
		derefString(note),
		stageChangedAt,
		createdAt,
		updatedAt,
	), nil
}

// InterviewRepository implements domain.InterviewRepository using Postgres.
type InterviewRepository struct {
	pool *pgxpool.Pool
}

// NewInterviewRepository creates a new InterviewRepository.
func NewInterviewRepository(pool *pgxpool.Pool) *InterviewRepository {
	return &InterviewRepository{pool: pool}
}

const interviewColumns = `id, application_id, interviewer_id, scheduled_at, duration_min,
	       location, status, feedback, score, created_at, updated_at`

// Save persists an interview (insert or update).
func (r *InterviewRepository) Save(ctx context.Context, interview *domain.Interview) error {
	const query = `
		INSERT INTO hiredesk.interviews (id, application_id, interviewer_id, scheduled_at, duration_min,
		                                 location, status, feedback, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			scheduled_at = EXCLUDED.scheduled_at,
			duration_min = EXCLUDED.duration_min,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			feedback = EXCLUDED.feedback,
			score = EXCLUDED.score,
			updated_at = EXCLUDED.updated_at
	`

	_, err := GetQuerier(ctx, r.pool).Exec(ctx, query,
		interview.ID().UUID(),
		interview.ApplicationID().UUID(),
		interview.InterviewerID().UUID(),
		interview.ScheduledAt(),
		int(interview.Duration().Minutes()),
		nullableString(interview.Location()),
		interview.Status().String(),
		nullableString(interview.Feedback()),
		interview.Score(),
		interview.CreatedAt(),
		interview.UpdatedAt(),
	)

	if err != nil {
		return fmt.Errorf("saving interview: %w", err)
	}
	return nil
}

// FindByID retrieves an interview by its ID.
func (r *InterviewRepository) FindByID(ctx context.Context, id domain.InterviewID) (*domain.Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM hiredesk.interviews
		WHERE id = $1
	`

	row := GetQuerier(ctx, r.pool).QueryRow(ctx, query, id.UUID())

	interview, err := scanInterviewRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return interview, err
}

// ListByApplication returns interviews for an application, oldest first.
func (r *InterviewRepository) ListByApplication(ctx context.Context, applicationID domain.ApplicationID) ([]*domain.Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM hiredesk.interviews
		WHERE application_id = $1
		ORDER BY scheduled_at ASC
	`

	return r.listInterviews(ctx, query, applicationID.UUID())
}

// ListUpcomingByInterviewer returns scheduled interviews for a user, soonest first.
func (r *InterviewRepository) ListUpcomingByInterviewer(ctx context.Context, interviewerID domain.UserID, limit int) ([]*domain.Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM hiredesk.interviews
		WHERE interviewer_id = $1 AND status = 'scheduled' AND scheduled_at >= now()
		ORDER BY scheduled_at ASC
		LIMIT $2
	`

	return r.listInterviews(ctx, query, interviewerID.UUID(), limit)
}

func (r *InterviewRepository) listInterviews(ctx context.Context, query string, args ...any) ([]*domain.Interview, error) {
	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing interviews: %w", err)
	}
	defer rows.Close()

	var interviews []*domain.Interview
	for rows.Next() {
		interview, err := scanInterviewRow(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, interview)
	}

	return interviews, rows.Err()
}

func scanInterviewRow(row pgx.Row) (*domain.Interview, error) {
	var (
		id            string
		applicationID string
		interviewerID string
		scheduledAt   time.Time
		durationMin   int
		location      *string
		status        string
		feedback      *string
		score         *int
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(&id, &applicationID, &interviewerID, &scheduledAt, &durationMin,
		&location, &status, &feedback, &score, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	interviewID, err := domain.ParseInterviewID(id)
	if err != nil {
		return nil, fmt.Errorf("corrupted interview id in database: %w", err)
	}

	applicationIDParsed, err := domain.ParseApplicationID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("corrupted application id in database: %w", err)
	}

	interviewerIDParsed, err := domain.ParseUserID(interviewerID)
	if err != nil {
		return nil, fmt.Errorf("corrupted interviewer id in database: %w", err)
	}

	statusParsed, err := domain.ParseInterviewStatus(status)
	if err != nil {
		return nil, fmt.Errorf("corrupted interview status in database: %w", err)
	}

	return domain.ReconstructInterview(
		interviewID,
		applicationIDParsed,
		interviewerIDParsed,
		scheduledAt,
		time.Duration(durationMin)*time.Minute,
		derefString(location),
		statusParsed,
		derefString(feedback),
		score,
		createdAt,
		updatedAt,
	), nil
}
