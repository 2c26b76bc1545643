package message

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new message.
func (r *PostgresRepository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, message_text)
		VALUES ($1, $2, $3)
		RETURNING id, seen, sent_at`

	err := r.pool.QueryRow(ctx, query, m.SenderID, m.ReceiverID, m.Text).Scan(&m.ID, &m.Seen, &m.SentAt)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	return nil
}

// ListForUser returns every message sent by or to the user, oldest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, message_text, seen, sent_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY sent_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Seen, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	if messages == nil {
		messages = []Message{}
	}

	return messages, nil
}

// MarkSeen marks a message seen; only the receiver may do so.
func (r *PostgresRepository) MarkSeen(ctx context.Context, id, receiverID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE messages SET seen = TRUE WHERE id = $1 AND receiver_id = $2", id, receiverID)
	if err != nil {
		return fmt.Errorf("marking message seen: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMessageNotFound
	}

	return nil
}
