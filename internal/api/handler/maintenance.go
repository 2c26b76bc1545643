package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/api/response"
	"github.com/nyumba/nyumba/internal/api/validation"
	"github.com/nyumba/nyumba/internal/maintenance"
)

type createMaintenanceRequest struct {
	UnitID      string  `json:"unitId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	PhotoURL    *string `json:"photoUrl"`
}

type updateMaintenanceRequest struct {
	Status     string  `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

type maintenanceResponse struct {
	ID          string  `json:"id"`
	UnitID      string  `json:"unitId"`
	TenantID    string  `json:"tenantId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
	Status      string  `json:"status"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	SubmittedAt string  `json:"submittedAt"`
	ResolvedAt  *string `json:"resolvedAt,omitempty"`
}

// MaintenanceHandler handles maintenance-request endpoints.
type MaintenanceHandler struct {
	requests maintenance.Repository
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(requests maintenance.Repository) *MaintenanceHandler {
	return &MaintenanceHandler{requests: requests}
}

func toMaintenanceResponse(m *maintenance.Request) maintenanceResponse {
	resp := maintenanceResponse{
		ID:          m.ID.String(),
		UnitID:      m.UnitID.String(),
		TenantID:    m.TenantID.String(),
		Title:       m.Title,
		Description: m.Description,
		PhotoURL:    m.PhotoURL,
		Status:      m.Status,
		SubmittedAt: m.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if m.AssignedTo != nil {
		assigned := m.AssignedTo.String()
		resp.AssignedTo = &assigned
	}
	if m.ResolvedAt != nil {
		resolved := m.ResolvedAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.ResolvedAt = &resolved
	}
	return resp
}

// Create handles POST /my/maintenance-requests for the signed-in tenant.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateMaintenanceRequest(validation.MaintenanceRequest{
		UnitID: req.UnitID,
		Title:  req.Title,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	unitID, _ := uuid.Parse(req.UnitID) // already validated

	m := &maintenance.Request{
		UnitID:      unitID,
		TenantID:    snap.Principal.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Status:      maintenance.StatusSubmitted,
	}

	if err := h.requests.Create(r.Context(), m); err != nil {
		slog.Error("failed to create maintenance request", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create maintenance request", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toMaintenanceResponse(m), requestID)
}

// List handles GET /maintenance-requests for admins.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	requests, err := h.requests.List(r.Context())
	if err != nil {
		slog.Error("failed to list maintenance requests", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list maintenance requests", requestID)
		return
	}

	writeMaintenanceList(w, requests, requestID)
}

// ListMine handles GET /my/maintenance-requests for the signed-in tenant.
func (h *MaintenanceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	requests, err := h.requests.ListByTenant(r.Context(), snap.Principal.ID)
	if err != nil {
		slog.Error("failed to list tenant maintenance requests", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list maintenance requests", requestID)
		return
	}

	writeMaintenanceList(w, requests, requestID)
}

func writeMaintenanceList(w http.ResponseWriter, requests []maintenance.Request, requestID string) {
	items := make([]maintenanceResponse, 0, len(requests))
	for i := range requests {
		items = append(items, toMaintenanceResponse(&requests[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// Update handles PATCH /maintenance-requests/{id} for admins.
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if fieldErrors := validation.ValidateMaintenanceStatus(req.Status); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	upd := maintenance.StatusUpdate{Status: req.Status}

	if req.AssignedTo != nil {
		assigned, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "assignedTo must be a valid UUID", requestID)
			return
		}
		upd.AssignedTo = &assigned
	}

	if req.Status == maintenance.StatusResolved {
		now := time.Now().UTC()
		upd.ResolvedAt = &now
	}

	if err := h.requests.UpdateStatus(r.Context(), id, upd); err != nil {
		if errors.Is(err, maintenance.ErrRequestNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Maintenance request not found", requestID)
			return
		}
		slog.Error("failed to update maintenance request", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update maintenance request", requestID)
		return
	}

	response.NoContent(w)
}
