package payment

import (
	"time"

	"github.com/google/uuid"
)

// Method values for the payment_method column.
const (
	MethodCard   = "card"
	MethodBank   = "bank"
	MethodMobile = "mobile"
	MethodCash   = "cash"
)

// Status values for the status column on the payments table.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// Payment represents a row in the payments table.
type Payment struct {
	ID          uuid.UUID
	LeaseID     uuid.UUID
	TenantID    uuid.UUID
	Amount      float64
	Method      string
	Reference   *string
	Status      string
	PaymentDate *time.Time
	VerifiedBy  *uuid.UUID // admin principal id
	VerifiedAt  *time.Time
	CreatedAt   time.Time
}
