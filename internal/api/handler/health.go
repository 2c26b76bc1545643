package handler

import (
	"context"
	"net/http"

	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SessionPinger checks session-store connectivity.
type SessionPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db       DBPinger
	sessions SessionPinger
	version  string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, sessions SessionPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions, version: version}
}

type healthData struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database bool   `json:"database"`
	Sessions bool   `json:"sessions"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	data := healthData{
		Status:   "healthy",
		Version:  h.version,
		Database: true,
		Sessions: true,
	}

	if h.db == nil || h.db.Ping(r.Context()) != nil {
		data.Database = false
		data.Status = "degraded"
	}
	if h.sessions == nil || h.sessions.Ping(r.Context()) != nil {
		data.Sessions = false
		data.Status = "degraded"
	}

	response.Success(w, http.StatusOK, data, requestID)
}
