package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/api/response"
	"github.com/nyumba/nyumba/internal/api/validation"
	"github.com/nyumba/nyumba/internal/payment"
)

type createPaymentRequest struct {
	LeaseID     string  `json:"leaseId"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Reference   *string `json:"reference"`
	PaymentDate *string `json:"paymentDate"`
}

type verifyPaymentRequest struct {
	Status string `json:"status"`
}

type paymentResponse struct {
	ID          string  `json:"id"`
	LeaseID     string  `json:"leaseId"`
	TenantID    string  `json:"tenantId"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Reference   *string `json:"reference,omitempty"`
	Status      string  `json:"status"`
	PaymentDate *string `json:"paymentDate,omitempty"`
	VerifiedBy  *string `json:"verifiedBy,omitempty"`
	VerifiedAt  *string `json:"verifiedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	payments payment.Repository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments payment.Repository) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func toPaymentResponse(p *payment.Payment) paymentResponse {
	resp := paymentResponse{
		ID:        p.ID.String(),
		LeaseID:   p.LeaseID.String(),
		TenantID:  p.TenantID.String(),
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		Status:    p.Status,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if p.PaymentDate != nil {
		date := p.PaymentDate.UTC().Format("2006-01-02")
		resp.PaymentDate = &date
	}
	if p.VerifiedBy != nil {
		verifiedBy := p.VerifiedBy.String()
		resp.VerifiedBy = &verifiedBy
	}
	if p.VerifiedAt != nil {
		verifiedAt := p.VerifiedAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.VerifiedAt = &verifiedAt
	}
	return resp
}

// Create handles POST /my/payments for the signed-in tenant.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidatePaymentRequest(validation.PaymentRequest{
		LeaseID: req.LeaseID,
		Amount:  req.Amount,
		Method:  req.Method,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	leaseID, _ := uuid.Parse(req.LeaseID) // already validated

	p := &payment.Payment{
		LeaseID:   leaseID,
		TenantID:  snap.Principal.ID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Status:    payment.StatusPending,
	}

	if req.PaymentDate != nil {
		date, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
				[]validation.FieldError{{Field: "paymentDate", Message: "paymentDate must use the YYYY-MM-DD format"}}, requestID)
			return
		}
		p.PaymentDate = &date
	}

	if err := h.payments.Create(r.Context(), p); err != nil {
		slog.Error("failed to create payment", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record payment", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toPaymentResponse(p), requestID)
}

// List handles GET /payments for admins.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	payments, err := h.payments.List(r.Context())
	if err != nil {
		slog.Error("failed to list payments", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments", requestID)
		return
	}

	writePaymentList(w, payments, requestID)
}

// ListMine handles GET /my/payments for the signed-in tenant.
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	payments, err := h.payments.ListByTenant(r.Context(), snap.Principal.ID)
	if err != nil {
		slog.Error("failed to list tenant payments", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments", requestID)
		return
	}

	writePaymentList(w, payments, requestID)
}

func writePaymentList(w http.ResponseWriter, payments []payment.Payment, requestID string) {
	items := make([]paymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, toPaymentResponse(&payments[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// Verify handles POST /payments/{id}/verify for admins.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if req.Status != payment.StatusVerified && req.Status != payment.StatusFailed {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "status", Message: "status must be \"verified\" or \"failed\""}}, requestID)
		return
	}

	if err := h.payments.Verify(r.Context(), id, req.Status, snap.Principal.ID); err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Payment not found", requestID)
		case errors.Is(err, payment.ErrAlreadyVerified):
			response.Err(w, http.StatusConflict, "ALREADY_VERIFIED", "Payment has already been reviewed", requestID)
		default:
			slog.Error("failed to verify payment", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify payment", requestID)
		}
		return
	}

	response.NoContent(w)
}
