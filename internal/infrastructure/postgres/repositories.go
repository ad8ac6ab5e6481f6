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

// UserRepository implements domain.UserRepository using Postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByID retrieves a user by their internal ID.
func (r *UserRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	const query = `
		SELECT id, external_id, username, display_name, role, created_at, updated_at
		FROM hiredesk.users
		WHERE id = $1
	`

	return r.scanUser(ctx, query, id.UUID())
}

// FindByExternalID retrieves a user by their external auth provider ID.
func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	const query = `
		SELECT id, external_id, username, display_name, role, created_at, updated_at
		FROM hiredesk.users
		WHERE external_id = $1
	`

	return r.scanUser(ctx, query, externalID)
}

// Save persists a user (insert or update).
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO hiredesk.users (id, external_id, username, display_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
	`

	_, err := GetQuerier(ctx, r.pool).Exec(ctx, query,
		user.ID().UUID(),
		user.ExternalID(),
		user.Username(),
		nullableString(user.DisplayName()),
		user.Role().String(),
		user.CreatedAt(),
		user.UpdatedAt(),
	)

	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// Exists checks if a user with the given ID exists.
func (r *UserRepository) Exists(ctx context.Context, id domain.UserID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM hiredesk.users WHERE id = $1)`

	var exists bool
	err := GetQuerier(ctx, r.pool).QueryRow(ctx, query, id.UUID()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var (
		id          string
		externalID  string
		username    string
		displayName *string
		role        string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := GetQuerier(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&id, &externalID, &username, &displayName, &role, &createdAt, &updatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	// database stores trusted data, but we still validate for safety
	// if parsing fails, we have data corruption
	userID, err := domain.ParseUserID(id)
	if err != nil {
		return nil, fmt.Errorf("corrupted user id in database: %w", err)
	}

	roleParsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("corrupted role in database: %w", err)
	}

	return domain.ReconstructUser(
		userID,
		externalID,
		username,
		derefString(displayName),
		roleParsed,
		createdAt,
		updatedAt,
	), nil
}

// JobOfferRepository implements domain.JobOfferRepository using Postgres.
type JobOfferRepository struct {
	pool *pgxpool.Pool
}

// NewJobOfferRepository creates a new JobOfferRepository.
func NewJobOfferRepository(pool *pgxpool.Pool) *JobOfferRepository {
	return &JobOfferRepository{pool: pool}
}

const offerColumns = `id, slug, title, description, department, location,
	       salary_min, salary_max, status, created_by, published_at, created_at, updated_at`

// FindByID retrieves an offer by its ID.
func (r *JobOfferRepository) FindByID(ctx context.Context, id domain.OfferID) (*domain.JobOffer, error) {
	const query = `
		SELECT ` + offerColumns + `
		FROM hiredesk.job_offers
		WHERE id = $1
	`

	return r.scanOffer(ctx, query, id.UUID())
}

// FindBySlug retrieves an offer by its URL-friendly slug.
func (r *JobOfferRepository) FindBySlug(ctx context.Context, slug domain.Slug) (*domain.JobOffer, error) {
	const query = `
		SELECT ` + offerColumns + `
		FROM hiredesk.job_offers
		WHERE slug = $1
	`

	return r.scanOffer(ctx, query, slug.String())
}

// Save persists an offer (insert or update).
func (r *JobOfferRepository) Save(ctx context.Context, offer *domain.JobOffer) error {
	const query = `
		INSERT INTO hiredesk.job_offers (id, slug, title, description, department, location,
		                                 salary_min, salary_max, status, created_by, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			department = EXCLUDED.department,
			location = EXCLUDED.location,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			status = EXCLUDED.status,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := GetQuerier(ctx, r.pool).Exec(ctx, query,
		offer.ID().UUID(),
		offer.Slug().String(),
		offer.Title(),
		nullableString(offer.Description()),
		nullableString(offer.Department()),
		nullableString(offer.Location()),
		offer.SalaryMin(),
		offer.SalaryMax(),
		offer.Status().String(),
		offer.CreatedBy().UUID(),
		offer.PublishedAt(),
		offer.CreatedAt(),
		offer.UpdatedAt(),
	)

	if err != nil {
		return fmt.Errorf("saving job offer: %w", err)
	}
	return nil
}

// Exists checks if an offer with the given ID exists.
func (r *JobOfferRepository) Exists(ctx context.Context, id domain.OfferID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM hiredesk.job_offers WHERE id = $1)`

	var exists bool
	err := GetQuerier(ctx, r.pool).QueryRow(ctx, query, id.UUID()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking offer existence: %w", err)
	}
	return exists, nil
}

// FindByIDs retrieves multiple offers by their IDs.
// maintains the order of the input IDs.
func (r *JobOfferRepository) FindByIDs(ctx context.Context, ids []domain.OfferID) ([]*domain.JobOffer, error) {
	if len(ids) == 0 {
		return []*domain.JobOffer{}, nil
	}

	uuids := make([]string, len(ids))
	for i, id := range ids {
		uuids[i] = id.String()
	}

	const query = `
		SELECT ` + offerColumns + `
		FROM hiredesk.job_offers
		WHERE id = ANY($1)
	`

	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, uuids)
	if err != nil {
		return nil, fmt.Errorf("finding offers by ids: %w", err)
	}
	defer rows.Close()

	offerMap := make(map[string]*domain.JobOffer)
	for rows.Next() {
		offer, err := r.scanOfferFromRows(rows)
		if err != nil {
			return nil, err
		}
		offerMap[offer.ID().String()] = offer
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating offers: %w", err)
	}

	// reorder results to match input order
	offers := make([]*domain.JobOffer, 0, len(ids))
	for _, id := range ids {
		if offer, ok := offerMap[id.String()]; ok {
			offers = append(offers, offer)
		}
		// silently skip missing offers
	}

	return offers, nil
}

// ListPublished returns published offers, newest publication first.
func (r *JobOfferRepository) ListPublished(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	const query = `
		SELECT ` + offerColumns + `
		FROM hiredesk.job_offers
		WHERE status = 'published'
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.listOffers(ctx, query, limit, offset)
}

// ListAll returns offers in any status, newest first.
func (r *JobOfferRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	const query = `
		SELECT ` + offerColumns + `
		FROM hiredesk.job_offers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.listOffers(ctx, query, limit, offset)
}

// CountApplications returns the number of applications per offer id.
func (r *JobOfferRepository) CountApplications(ctx context.Context, ids []domain.OfferID) (map[domain.OfferID]int64, error) {
	counts := make(map[domain.OfferID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	uuids := make([]string, len(ids))
	for i, id := range ids {
		uuids[i] = id.String()
	}

	const query = `
		SELECT offer_id, COUNT(*)
		FROM hiredesk.applications
		WHERE offer_id = ANY($1)
		GROUP BY offer_id
	`

	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, uuids)
	if err != nil {
		return nil, fmt.Errorf("counting applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			offerID string
			count   int64
		)
		if err := rows.Scan(&offerID, &count); err != nil {
			return nil, fmt.Errorf("scanning application count: %w", err)
		}

		id, err := domain.ParseOfferID(offerID)
		if err != nil {
			return nil, fmt.Errorf("corrupted offer id in database: %w", err)
		}
		counts[id] = count
	}

	return counts, rows.Err()
}

func (r *JobOfferRepository) listOffers(ctx context.Context, query string, args ...any) ([]*domain.JobOffer, error) {
	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	var offers []*domain.JobOffer
	for rows.Next() {
		offer, err := r.scanOfferFromRows(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

func (r *JobOfferRepository) scanOffer(ctx context.Context, query string, args ...any) (*domain.JobOffer, error) {
	row := GetQuerier(ctx, r.pool).QueryRow(ctx, query, args...)

	offer, err := scanOfferRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return offer, err
}

func (r *JobOfferRepository) scanOfferFromRows(rows pgx.Rows) (*domain.JobOffer, error) {
	return scanOfferRow(rows)
}

func scanOfferRow(row pgx.Row) (*domain.JobOffer, error) {
	var (
		id          string
		slug        string
		title       string
		description *string
		department  *string
		location    *string
		salaryMin   int
		salaryMax   int
		status      string
		createdBy   string
		publishedAt *time.Time
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(
		&id, &slug, &title, &description, &department, &location,
		&salaryMin, &salaryMax, &status, &createdBy, &publishedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// database stores trusted data, but we still validate for safety
	offerID, err := domain.ParseOfferID(id)
	if err != nil {
		return nil, fmt.Errorf("corrupted offer id in database: %w", err)
	}

	createdByParsed, err := domain.ParseUserID(createdBy)
	if err != nil {
		return nil, fmt.Errorf("corrupted creator id in database: %w", err)
	}

	statusParsed, err := domain.ParseOfferStatus(status)
	if err != nil {
		return nil, fmt.Errorf("corrupted offer status in database: %w", err)
	}

	return domain.ReconstructJobOffer(
		offerID,
		domain.SlugFromTrusted(slug),
		title,
		derefString(description),
		derefString(department),
		derefString(location),
		salaryMin,
		salaryMax,
		statusParsed,
		createdByParsed,
		publishedAt,
		createdAt,
		updatedAt,
	), nil
}

// CandidateRepository implements domain.CandidateRepository using Postgres.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// FindByID retrieves a candidate by their ID.
func (r *CandidateRepository) FindByID(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	const query = `
		SELECT id, email, full_name, phone, resume_url, created_at, updated_at
		FROM hiredesk.candidates
		WHERE id = $1
	`

	return r.scanCandidate(ctx, query, id.UUID())
}

// FindByEmail retrieves a candidate by their email address.
func (r *CandidateRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.Candidate, error) {
	const query = `
		SELECT id, email, full_name, phone, resume_url, created_at, updated_at
		FROM hiredesk.candidates
		WHERE email = $1
	`

	return r.scanCandidate(ctx, query, email.String())
}

// Save persists a candidate (insert or update).
func (r *CandidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	const query = `
		INSERT INTO hiredesk.candidates (id, email, full_name, phone, resume_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			resume_url = EXCLUDED.resume_url,
			updated_at = EXCLUDED.updated_at
	`

	_, err := GetQuerier(ctx, r.pool).Exec(ctx, query,
		candidate.ID().UUID(),
		candidate.Email().String(),
		candidate.FullName(),
		nullableString(candidate.Phone()),
		nullableString(candidate.ResumeURL()),
		candidate.CreatedAt(),
		candidate.UpdatedAt(),
	)

	if err != nil {
		return fmt.Errorf("saving candidate: %w", err)
	}
	return nil
}

// FindByIDs retrieves multiple candidates by their IDs.
// maintains the order of the input IDs.
func (r *CandidateRepository) FindByIDs(ctx context.Context, ids []domain.CandidateID) ([]*domain.Candidate, error) {
	if len(ids) == 0 {
		return []*domain.Candidate{}, nil
	}

	uuids := make([]string, len(ids))
	for i, id := range ids {
		uuids[i] = id.String()
	}

	const query = `
		SELECT id, email, full_name, phone, resume_url, created_at, updated_at
		FROM hiredesk.candidates
		WHERE id = ANY($1)
	`

	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, uuids)
	if err != nil {
		return nil, fmt.Errorf("finding candidates by ids: %w", err)
	}
	defer rows.Close()

	candidateMap := make(map[string]*domain.Candidate)
	for rows.Next() {
		candidate, err := scanCandidateRow(rows)
		if err != nil {
			return nil, err
		}
		candidateMap[candidate.ID().String()] = candidate
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	candidates := make([]*domain.Candidate, 0, len(ids))
	for _, id := range ids {
		if candidate, ok := candidateMap[id.String()]; ok {
			candidates = append(candidates, candidate)
		}
	}

	return candidates, nil
}

func (r *CandidateRepository) scanCandidate(ctx context.Context, query string, args ...any) (*domain.Candidate, error) {
	row := GetQuerier(ctx, r.pool).QueryRow(ctx, query, args...)

	candidate, err := scanCandidateRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return candidate, err
}

func scanCandidateRow(row pgx.Row) (*domain.Candidate, error) {
	var (
		id        string
		email     string
		fullName  string
		phone     *string
		resumeURL *string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &email, &fullName, &phone, &resumeURL, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	candidateID, err := domain.ParseCandidateID(id)
	if err != nil {
		return nil, fmt.Errorf("corrupted candidate id in database: %w", err)
	}

	return domain.ReconstructCandidate(
		candidateID,
		domain.EmailFromTrusted(email),
		fullName,
		derefString(phone),
		derefString(resumeURL),
		createdAt,
		updatedAt,
	), nil
}

// helper functions

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
