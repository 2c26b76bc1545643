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
	"github.com/nyumba/nyumba/internal/message"
	"github.com/nyumba/nyumba/internal/tenant"
)

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

type announcementRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type messageResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Seen       bool   `json:"seen"`
	SentAt     string `json:"sentAt"`
}

type notificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

// MessageHandler handles direct messages and notifications.
type MessageHandler struct {
	messages      message.Repository
	notifications message.NotificationRepository
	tenants       tenant.Repository
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages message.Repository, notifications message.NotificationRepository, tenants tenant.Repository) *MessageHandler {
	return &MessageHandler{messages: messages, notifications: notifications, tenants: tenants}
}

func toMessageResponse(m *message.Message) messageResponse {
	return messageResponse{
		ID:         m.ID.String(),
		SenderID:   m.SenderID.String(),
		ReceiverID: m.ReceiverID.String(),
		Text:       m.Text,
		Seen:       m.Seen,
		SentAt:     m.SentAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Send handles POST /messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateMessageRequest(validation.MessageRequest{
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	receiverID, _ := uuid.Parse(req.ReceiverID) // already validated

	m := &message.Message{
		SenderID:   snap.Principal.ID,
		ReceiverID: receiverID,
		Text:       strings.TrimSpace(req.Text),
	}

	if err := h.messages.Create(r.Context(), m); err != nil {
		slog.Error("failed to send message", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toMessageResponse(m), requestID)
}

// List handles GET /messages for the signed-in user.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	messages, err := h.messages.ListForUser(r.Context(), snap.Principal.ID)
	if err != nil {
		slog.Error("failed to list messages", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list messages", requestID)
		return
	}

	items := make([]messageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, toMessageResponse(&messages[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// MarkSeen handles POST /messages/{id}/seen for the receiving user.
func (h *MessageHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.messages.MarkSeen(r.Context(), id, snap.Principal.ID); err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Message not found", requestID)
			return
		}
		slog.Error("failed to mark message seen", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update message", requestID)
		return
	}

	response.NoContent(w)
}

// ListNotifications handles GET /notifications for the signed-in user.
func (h *MessageHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	notifications, err := h.notifications.ListForUser(r.Context(), snap.Principal.ID)
	if err != nil {
		slog.Error("failed to list notifications", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications", requestID)
		return
	}

	items := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		items = append(items, notificationResponse{
			ID:        n.ID.String(),
			Type:      n.Type,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// MarkNotificationRead handles POST /notifications/{id}/read for the signed-in user.
func (h *MessageHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snap := middleware.GetSnapshot(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, snap.Principal.ID); err != nil {
		if errors.Is(err, message.ErrNotificationNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", requestID)
			return
		}
		slog.Error("failed to mark notification read", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update notification", requestID)
		return
	}

	response.NoContent(w)
}

// Announce handles POST /announcements for admins, broadcasting a
// notification to every tenant.
func (h *MessageHandler) Announce(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAnnouncementRequest(validation.AnnouncementRequest{
		Type:    req.Type,
		Message: req.Message,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		slog.Error("failed to list announcement recipients", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send announcement", requestID)
		return
	}

	recipients := make([]uuid.UUID, 0, len(tenants))
	for i := range tenants {
		recipients = append(recipients, tenants[i].ID)
	}

	if err := h.notifications.Broadcast(r.Context(), recipients, req.Type, strings.TrimSpace(req.Message)); err != nil {
		slog.Error("failed to broadcast announcement", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send announcement", requestID)
		return
	}

	response.Success(w, http.StatusOK, map[string]int{"recipients": len(recipients)}, requestID)
}
