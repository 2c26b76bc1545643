package message

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrMessageNotFound is returned when a message record is not found.
var ErrMessageNotFound = errors.New("message not found")

// ErrNotificationNotFound is returned when a notification record is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// Repository provides operations on the messages table.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	// ListForUser returns every message sent by or to the user, oldest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Message, error)
	// MarkSeen marks a message seen; only the receiver may do so.
	MarkSeen(ctx context.Context, id, receiverID uuid.UUID) error
}

// NotificationRepository provides operations on the notifications table.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// Broadcast inserts one notification per recipient.
	Broadcast(ctx context.Context, recipients []uuid.UUID, typ, msg string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}
