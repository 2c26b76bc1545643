package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/api/response"
	"github.com/nyumba/nyumba/internal/api/validation"
	"github.com/nyumba/nyumba/internal/property"
	"github.com/nyumba/nyumba/internal/unit"
)

type propertyRequest struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description *string `json:"description"`
}

type propertyResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// PropertyHandler handles property CRUD endpoints.
type PropertyHandler struct {
	properties property.Repository
	units      unit.Repository
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(properties property.Repository, units unit.Repository) *PropertyHandler {
	return &PropertyHandler{properties: properties, units: units}
}

func toPropertyResponse(p *property.Property) propertyResponse {
	return propertyResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Address:     p.Address,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Create handles POST /properties.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidatePropertyRequest(validation.PropertyRequest{
		Name:    req.Name,
		Address: req.Address,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &property.Property{
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		Description: req.Description,
	}

	if err := h.properties.Create(r.Context(), p); err != nil {
		slog.Error("failed to create property", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create property", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toPropertyResponse(p), requestID)
}

// List handles GET /properties.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	properties, err := h.properties.List(r.Context())
	if err != nil {
		slog.Error("failed to list properties", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list properties", requestID)
		return
	}

	items := make([]propertyResponse, 0, len(properties))
	for i := range properties {
		items = append(items, toPropertyResponse(&properties[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /properties/{id}.
func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	p, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Property not found", requestID)
			return
		}
		slog.Error("failed to get property", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get property", requestID)
		return
	}

	response.Success(w, http.StatusOK, toPropertyResponse(p), requestID)
}

// Update handles PATCH /properties/{id}.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidatePropertyRequest(validation.PropertyRequest{
		Name:    req.Name,
		Address: req.Address,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &property.Property{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		Description: req.Description,
	}

	if err := h.properties.Update(r.Context(), p); err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Property not found", requestID)
			return
		}
		slog.Error("failed to update property", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update property", requestID)
		return
	}

	response.Success(w, http.StatusOK, toPropertyResponse(p), requestID)
}

// Delete handles DELETE /properties/{id}.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.properties.Delete(r.Context(), id); err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Property not found", requestID)
			return
		}
		slog.Error("failed to delete property", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete property", requestID)
		return
	}

	response.NoContent(w)
}

// ListUnits handles GET /properties/{id}/units.
func (h *PropertyHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	units, err := h.units.ListByProperty(r.Context(), id)
	if err != nil {
		slog.Error("failed to list units", "error", err, "propertyId", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list units", requestID)
		return
	}

	items := make([]unitResponse, 0, len(units))
	for i := range units {
		items = append(items, toUnitResponse(&units[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// parseIDParam parses the {id} URL parameter, writing a 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
