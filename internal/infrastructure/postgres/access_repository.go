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

// AccessRequestRepository implements domain.AccessRequestRepository using Postgres.
type AccessRequestRepository struct {
	pool *pgxpool.Pool
}

// NewAccessRequestRepository creates a new AccessRequestRepository.
func NewAccessRequestRepository(pool *pgxpool.Pool) *AccessRequestRepository {
	return &AccessRequestRepository{pool: pool}
}

const accessRequestColumns = `id, requester_id, role, reason, status, reviewed_by, review_note, reviewed_at, created_at, updated_at`

// Save persists an access request (insert or update).
func (r *AccessRequestRepository) Save(ctx context.Context, request *domain.AccessRequest) error {
	const query = `
		INSERT INTO hiredesk.access_requests (id, requester_id, role, reason, status, reviewed_by, review_note, reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			reviewed_by = EXCLUDED.reviewed_by,
			review_note = EXCLUDED.review_note,
			reviewed_at = EXCLUDED.reviewed_at,
			updated_at = EXCLUDED.updated_at
	`

	var reviewerID any
	if request.ReviewerID() != nil {
		reviewerID = request.ReviewerID().UUID()
	}

	_, err := GetQuerier(ctx, r.pool).Exec(ctx, query,
		request.ID().UUID(),
		request.RequesterID().UUID(),
		request.Role().String(),
		request.Reason(),
		request.Status().String(),
		reviewerID,
		nullableString(request.ReviewNote()),
		request.ReviewedAt(),
		request.CreatedAt(),
		request.UpdatedAt(),
	)

	if err != nil {
		return fmt.Errorf("saving access request: %w", err)
	}
	return nil
}

// FindByID retrieves an access request by its ID.
func (r *AccessRequestRepository) FindByID(ctx context.Context, id domain.AccessRequestID) (*domain.AccessRequest, error) {
	const query = `
		SELECT ` + accessRequestColumns + `
		FROM hiredesk.access_requests
		WHERE id = $1
	`

	return r.scanRequest(ctx, query, id.UUID())
}

// FindPendingByRequester retrieves the requester's pending request, if any.
func (r *AccessRequestRepository) FindPendingByRequester(ctx context.Context, requesterID domain.UserID) (*domain.AccessRequest, error) {
	const query = `
		SELECT ` + accessRequestColumns + `
		FROM hiredesk.access_requests
		WHERE requester_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanRequest(ctx, query, requesterID.UUID())
}

// ListByStatus returns requests in a given status, oldest first.
func (r *AccessRequestRepository) ListByStatus(ctx context.Context, status domain.AccessStatus, limit, offset int) ([]*domain.AccessRequest, error) {
	const query = `
		SELECT ` + accessRequestColumns + `
		FROM hiredesk.access_requests
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, status.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing access requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.AccessRequest
	for rows.Next() {
		request, err := scanAccessRequestRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

func (r *AccessRequestRepository) scanRequest(ctx context.Context, query string, args ...any) (*domain.AccessRequest, error) {
	row := GetQuerier(ctx, r.pool).QueryRow(ctx, query, args...)

	request, err := scanAccessRequestRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return request, err
}

func scanAccessRequestRow(row pgx.Row) (*domain.AccessRequest, error) {
	var (
		id          string
		requesterID string
		role        string
		reason      string
		status      string
		reviewedBy  *string
		reviewNote  *string
		reviewedAt  *time.Time
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&id, &requesterID, &role, &reason, &status, &reviewedBy, &reviewNote, &reviewedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	// database stores trusted data, but we still validate for safety
	requestID, err := domain.ParseAccessRequestID(id)
	if err != nil {
		return nil, fmt.Errorf("corrupted access request id in database: %w", err)
	}

	requesterIDParsed, err := domain.ParseUserID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("corrupted requester id in database: %w", err)
	}

	roleParsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("corrupted role in database: %w", err)
	}

	statusParsed, err := domain.ParseAccessStatus(status)
	if err != nil {
		return nil, fmt.Errorf("corrupted access status in database: %w", err)
	}

	var reviewerID *domain.UserID
	if reviewedBy != nil {
		parsed, err := domain.ParseUserID(*reviewedBy)
		if err != nil {
			return nil, fmt.Errorf("corrupted reviewer id in database: %w", err)
		}
		reviewerID = &parsed
	}

	return domain.ReconstructAccessRequest(
		requestID,
		requesterIDParsed,
		roleParsed,
		reason,
		statusParsed,
		reviewerID,
		derefString(reviewNote),
		reviewedAt,
		createdAt,
		updatedAt,
	), nil
}
