package validation

import (
	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/payment"
)

// PaymentRequest mirrors the fields needed for payment validation.
type PaymentRequest struct {
	LeaseID string
	Amount  float64
	Method  string
}

// ValidatePaymentRequest validates the fields of a create payment request.
func ValidatePaymentRequest(req PaymentRequest) []FieldError {
	var errs []FieldError

	if req.LeaseID == "" {
		errs = append(errs, FieldError{Field: "leaseId", Message: "leaseId is required"})
	} else if _, err := uuid.Parse(req.LeaseID); err != nil {
		errs = append(errs, FieldError{Field: "leaseId", Message: "leaseId must be a valid UUID"})
	}

	if req.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}

	switch req.Method {
	case payment.MethodCard, payment.MethodBank, payment.MethodMobile, payment.MethodCash:
	default:
		errs = append(errs, FieldError{Field: "method", Message: "method must be \"card\", \"bank\", \"mobile\" or \"cash\""})
	}

	return errs
}
