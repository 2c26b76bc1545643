package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/api/response"
	"github.com/nyumba/nyumba/internal/tenant"
)

type updateTenantRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status"`
}

type tenantResponse struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FullName        string  `json:"fullName"`
	Phone           *string `json:"phone,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
}

// TenantHandler handles the admin-facing tenant directory.
type TenantHandler struct {
	tenants tenant.Repository
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenants tenant.Repository) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

func toTenantResponse(t *tenant.Tenant) tenantResponse {
	return tenantResponse{
		ID:              t.ID.String(),
		Email:           t.Email,
		FullName:        t.FullName,
		Phone:           t.Phone,
		ProfileImageURL: t.ProfileImageURL,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// List handles GET /tenants.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		slog.Error("failed to list tenants", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tenants", requestID)
		return
	}

	items := make([]tenantResponse, 0, len(tenants))
	for i := range tenants {
		items = append(items, toTenantResponse(&tenants[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /tenants/{id}.
func (h *TenantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	t, err := h.tenants.GetByPrincipalID(r.Context(), id)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Tenant not found", requestID)
			return
		}
		slog.Error("failed to get tenant", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get tenant", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTenantResponse(t), requestID)
}

// Update handles PATCH /tenants/{id}.
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	t, err := h.tenants.GetByPrincipalID(r.Context(), id)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Tenant not found", requestID)
			return
		}
		slog.Error("failed to get tenant", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update tenant", requestID)
		return
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "fullName must not be empty", requestID)
			return
		}
		t.FullName = name
	}
	if req.Phone != nil {
		t.Phone = req.Phone
	}
	if req.Status != nil {
		if *req.Status != tenant.StatusActive && *req.Status != tenant.StatusInactive {
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be \"active\" or \"inactive\"", requestID)
			return
		}
		t.Status = *req.Status
	}

	if err := h.tenants.Update(r.Context(), t); err != nil {
		slog.Error("failed to update tenant", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update tenant", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTenantResponse(t), requestID)
}
