package message

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresNotificationRepository implements NotificationRepository using pgxpool.
type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a NotificationRepository backed by the given pool.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &PostgresNotificationRepository{pool: pool}
}

// Create inserts a single notification.
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, message)
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at`

	err := r.pool.QueryRow(ctx, query, n.UserID, n.Type, n.Message).Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

// Broadcast inserts one notification per recipient in a single batch.
func (r *PostgresNotificationRepository) Broadcast(ctx context.Context, recipients []uuid.UUID, typ, msg string) error {
	if len(recipients) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, userID := range recipients {
		batch.Queue("INSERT INTO notifications (user_id, type, message) VALUES ($1, $2, $3)", userID, typ, msg)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range recipients {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("broadcasting notification: %w", err)
		}
	}

	return nil
}

// ListForUser returns the user's notifications, newest first.
func (r *PostgresNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	query := `
		SELECT id, user_id, type, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification rows: %w", err)
	}

	if notifications == nil {
		notifications = []Notification{}
	}

	return notifications, nil
}

// MarkRead marks a notification read; only its owner may do so.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
