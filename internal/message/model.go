package message

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a row in the messages table.
type Message struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Text       string
	Seen       bool
	SentAt     time.Time
}

// Notification types.
const (
	TypePaymentAlert      = "payment_alert"
	TypeMaintenanceUpdate = "maintenance_update"
	TypeAnnouncement      = "announcement"
	TypeLeaseUpdate       = "lease_update"
)

// Notification represents a row in the notifications table.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Message   string
	Read      bool
	CreatedAt time.Time
}
