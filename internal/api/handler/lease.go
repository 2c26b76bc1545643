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
	"github.com/nyumba/nyumba/internal/lease"
)

type createLeaseRequest struct {
	UnitID     string  `json:"unitId"`
	TenantID   string  `json:"tenantId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	RentAmount float64 `json:"rentAmount"`
}

type updateLeaseStatusRequest struct {
	Status string `json:"status"`
}

type leaseResponse struct {
	ID              string  `json:"id"`
	UnitID          string  `json:"unitId"`
	TenantID        string  `json:"tenantId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	RentAmount      float64 `json:"rentAmount"`
	Status          string  `json:"status"`
	AgreementPDFURL *string `json:"agreementPdfUrl,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// LeaseHandler handles lease endpoints.
type LeaseHandler struct {
	leases lease.Repository
}

// NewLeaseHandler creates a new LeaseHandler.
func NewLeaseHandler(leases lease.Repository) *LeaseHandler {
	return &LeaseHandler{leases: leases}
}

func toLeaseResponse(l *lease.Lease) leaseResponse {
	return leaseResponse{
		ID:              l.ID.String(),
		UnitID:          l.UnitID.String(),
		TenantID:        l.TenantID.String(),
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		RentAmount:      l.RentAmount,
		Status:          l.Status,
		AgreementPDFURL: l.AgreementPDFURL,
		CreatedAt:       l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Create handles POST /leases.
func (h *LeaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateLeaseRequest(validation.LeaseRequest{
		UnitID:     req.UnitID,
		TenantID:   req.TenantID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		RentAmount: req.RentAmount,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	unitID, _ := uuid.Parse(req.UnitID)     // already validated
	tenantID, _ := uuid.Parse(req.TenantID) // already validated
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	l := &lease.Lease{
		UnitID:     unitID,
		TenantID:   tenantID,
		StartDate:  start,
		EndDate:    end,
		RentAmount: req.RentAmount,
		Status:     lease.StatusActive,
	}

	if err := h.leases.Create(r.Context(), l); err != nil {
		slog.Error("failed to create lease", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create lease", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toLeaseResponse(l), requestID)
}

// List handles GET /leases.
func (h *LeaseHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	leases, err := h.leases.List(r.Context())
	if err != nil {
		slog.Error("failed to list leases", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leases", requestID)
		return
	}

	writeLeaseList(w, leases, requestID)
}

// ListMine handles GET /my/leases for the signed-in tenant.
func (h *LeaseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	leases, err := h.leases.ListByTenant(r.Context(), snap.Principal.ID)
	if err != nil {
		slog.Error("failed to list tenant leases", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leases", requestID)
		return
	}

	writeLeaseList(w, leases, requestID)
}

func writeLeaseList(w http.ResponseWriter, leases []lease.Lease, requestID string) {
	items := make([]leaseResponse, 0, len(leases))
	for i := range leases {
		items = append(items, toLeaseResponse(&leases[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /leases/{id}.
func (h *LeaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	l, err := h.leases.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, lease.ErrLeaseNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lease not found", requestID)
			return
		}
		slog.Error("failed to get lease", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get lease", requestID)
		return
	}

	response.Success(w, http.StatusOK, toLeaseResponse(l), requestID)
}

// UpdateStatus handles PATCH /leases/{id}/status.
func (h *LeaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateLeaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if fieldErrors := validation.ValidateLeaseStatus(req.Status); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if err := h.leases.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, lease.ErrLeaseNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lease not found", requestID)
			return
		}
		slog.Error("failed to update lease status", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update lease", requestID)
		return
	}

	response.NoContent(w)
}
