package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/message"
)

// MessageRequest mirrors the fields needed for message validation.
type MessageRequest struct {
	ReceiverID string
	Text       string
}

// ValidateMessageRequest validates the fields of a send message request.
func ValidateMessageRequest(req MessageRequest) []FieldError {
	var errs []FieldError

	if req.ReceiverID == "" {
		errs = append(errs, FieldError{Field: "receiverId", Message: "receiverId is required"})
	} else if _, err := uuid.Parse(req.ReceiverID); err != nil {
		errs = append(errs, FieldError{Field: "receiverId", Message: "receiverId must be a valid UUID"})
	}

	if strings.TrimSpace(req.Text) == "" {
		errs = append(errs, FieldError{Field: "text", Message: "text is required"})
	}

	return errs
}

// AnnouncementRequest mirrors the fields needed for announcement validation.
type AnnouncementRequest struct {
	Type    string
	Message string
}

// ValidateAnnouncementRequest validates the fields of a broadcast announcement request.
func ValidateAnnouncementRequest(req AnnouncementRequest) []FieldError {
	var errs []FieldError

	switch req.Type {
	case message.TypePaymentAlert, message.TypeMaintenanceUpdate, message.TypeAnnouncement, message.TypeLeaseUpdate:
	default:
		errs = append(errs, FieldError{Field: "type", Message: "type must be a known notification type"})
	}

	if strings.TrimSpace(req.Message) == "" {
		errs = append(errs, FieldError{Field: "message", Message: "message is required"})
	}

	return errs
}
