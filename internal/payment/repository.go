package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrPaymentNotFound is returned when a payment record is not found.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrAlreadyVerified is returned when verifying a payment that is not pending.
var ErrAlreadyVerified = errors.New("payment already verified")

// Repository provides operations on the payments table.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	List(ctx context.Context) ([]Payment, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Payment, error)
	// Verify marks a pending payment verified or failed, recording the
	// verifying admin and time.
	Verify(ctx context.Context, id uuid.UUID, status string, verifiedBy uuid.UUID) error
}
