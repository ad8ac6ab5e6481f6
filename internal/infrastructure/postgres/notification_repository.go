package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hiredesk/hiredesk/internal/domain"
)

// NotificationRepository implements domain.NotificationRepository using Postgres.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Save persists a notification (insert or update).
func (r *NotificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	const query = `
		INSERT INTO hiredesk.notifications (id, recipient_id, kind, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			attempts = EXCLUDED.attempts,
			updated_at = EXCLUDED.updated_at
	`

	payloadJSON, err := notification.PayloadJSON()
	if err != nil {
		return fmt.Errorf("serializing payload: %w", err)
	}

	_, err = GetQuerier(ctx, r.pool).Exec(ctx, query,
		notification.ID().UUID(),
		notification.RecipientID().UUID(),
		notification.Kind().String(),
		string(payloadJSON),
		notification.Status().String(),
		notification.Attempts(),
		notification.CreatedAt(),
		notification.UpdatedAt(),
	)

	if err != nil {
		return fmt.Errorf("saving notification: %w", err)
	}
	return nil
}

// ListPending returns pending notifications, oldest first.
func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	const query = `
		SELECT id, recipient_id, kind, payload, status, attempts, created_at, updated_at
		FROM hiredesk.notifications
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := GetQuerier(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pending notifications: %w", err)
	}
	defer rows.Close()

	return r.scanNotifications(rows)
}

// UpdateStatus persists the delivery outcome of a notification.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id domain.NotificationID, status domain.NotificationStatus, attempts int) error {
	const query = `
		UPDATE hiredesk.notifications
		SET status = $2, attempts = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := GetQuerier(ctx, r.pool).Exec(ctx, query, id.UUID(), status.String(), attempts, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating notification status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) scanNotifications(rows pgx.Rows) ([]*domain.Notification, error) {
	var notifications []*domain.Notification

	for rows.Next() {
		var (
			id          string
			recipientID string
			kind        string
			payload     []byte
			status      string
			attempts    int
			createdAt   time.Time
			updatedAt   time.Time
		)

		err := rows.Scan(&id, &recipientID, &kind, &payload, &status, &attempts, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}

		notificationID, err := domain.ParseNotificationID(id)
		if err != nil {
			return nil, fmt.Errorf("corrupted notification id in database: %w", err)
		}

		recipientIDParsed, err := domain.ParseUserID(recipientID)
		if err != nil {
			return nil, fmt.Errorf("corrupted recipient id in database: %w", err)
		}

		var payloadMap map[string]any
		if len(payload) > 0 && string(payload) != "null" {
			if err := json.Unmarshal(payload, &payloadMap); err != nil {
				return nil, fmt.Errorf("corrupted payload json in database: %w", err)
			}
		}

		notification := domain.ReconstructNotification(
			notificationID,
			recipientIDParsed,
			domain.NotificationKind(kind),
			payloadMap,
			domain.NotificationStatus(status),
			attempts,
			createdAt,
			updatedAt,
		)
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}
