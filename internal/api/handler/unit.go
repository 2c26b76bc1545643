package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/api/response"
	"github.com/nyumba/nyumba/internal/api/validation"
	"github.com/nyumba/nyumba/internal/unit"
)

type createUnitRequest struct {
	PropertyID string  `json:"propertyId"`
	UnitNumber string  `json:"unitNumber"`
	Floor      *int    `json:"floor"`
	Size       *string `json:"size"`
	Status     string  `json:"status"`
}

type updateUnitRequest struct {
	UnitNumber string  `json:"unitNumber"`
	Floor      *int    `json:"floor"`
	Size       *string `json:"size"`
	Status     string  `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

type unitResponse struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"propertyId"`
	UnitNumber string  `json:"unitNumber"`
	Floor      *int    `json:"floor,omitempty"`
	Size       *string `json:"size,omitempty"`
	Status     string  `json:"status"`
	AssignedTo *string `json:"assignedTo,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// UnitHandler handles unit CRUD endpoints.
type UnitHandler struct {
	units unit.Repository
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(units unit.Repository) *UnitHandler {
	return &UnitHandler{units: units}
}

func toUnitResponse(u *unit.Unit) unitResponse {
	resp := unitResponse{
		ID:         u.ID.String(),
		PropertyID: u.PropertyID.String(),
		UnitNumber: u.UnitNumber,
		Floor:      u.Floor,
		Size:       u.Size,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if u.AssignedTo != nil {
		assigned := u.AssignedTo.String()
		resp.AssignedTo = &assigned
	}
	return resp
}

// Create handles POST /units.
func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUnitRequest(validation.UnitRequest{
		PropertyID: req.PropertyID,
		UnitNumber: req.UnitNumber,
		Status:     req.Status,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	propertyID, _ := uuid.Parse(req.PropertyID) // already validated

	status := req.Status
	if status == "" {
		status = unit.StatusVacant
	}

	u := &unit.Unit{
		PropertyID: propertyID,
		UnitNumber: strings.TrimSpace(req.UnitNumber),
		Floor:      req.Floor,
		Size:       req.Size,
		Status:     status,
	}

	if err := h.units.Create(r.Context(), u); err != nil {
		slog.Error("failed to create unit", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create unit", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toUnitResponse(u), requestID)
}

// List handles GET /units.
func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	units, err := h.units.List(r.Context())
	if err != nil {
		slog.Error("failed to list units", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list units", requestID)
		return
	}

	items := make([]unitResponse, 0, len(units))
	for i := range units {
		items = append(items, toUnitResponse(&units[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /units/{id}.
func (h *UnitHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	u, err := h.units.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, unit.ErrUnitNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Unit not found", requestID)
			return
		}
		slog.Error("failed to get unit", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get unit", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUnitResponse(u), requestID)
}

// Update handles PATCH /units/{id}.
func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	u, err := h.units.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, unit.ErrUnitNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Unit not found", requestID)
			return
		}
		slog.Error("failed to get unit", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update unit", requestID)
		return
	}

	if req.UnitNumber != "" {
		u.UnitNumber = strings.TrimSpace(req.UnitNumber)
	}
	if req.Floor != nil {
		u.Floor = req.Floor
	}
	if req.Size != nil {
		u.Size = req.Size
	}
	if req.Status != "" {
		if errs := validation.ValidateUnitRequest(validation.UnitRequest{
			PropertyID: u.PropertyID.String(),
			UnitNumber: u.UnitNumber,
			Status:     req.Status,
		}); len(errs) > 0 {
			response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", errs, requestID)
			return
		}
		u.Status = req.Status
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			u.AssignedTo = nil
		} else {
			assigned, err := uuid.Parse(*req.AssignedTo)
			if err != nil {
				response.Err(w, http.StatusBadRequest, "INVALID_ID", "assignedTo must be a valid UUID", requestID)
				return
			}
			u.AssignedTo = &assigned
		}
	}

	if err := h.units.Update(r.Context(), u); err != nil {
		slog.Error("failed to update unit", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update unit", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUnitResponse(u), requestID)
}

// Delete handles DELETE /units/{id}.
func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.units.Delete(r.Context(), id); err != nil {
		if errors.Is(err, unit.ErrUnitNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Unit not found", requestID)
			return
		}
		slog.Error("failed to delete unit", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete unit", requestID)
		return
	}

	response.NoContent(w)
}
