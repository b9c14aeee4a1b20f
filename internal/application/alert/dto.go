package alert

import (
	"time"

	"github.com/google/uuid"

	"github.com/ferrepos/backend/internal/domain/alert"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Target      string     `json:"target"`
	Message     string     `json:"message"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MarkReadRequest lists the notifications a user has seen
type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// SeasonalRuleResponse represents one seasonal demand hint
type SeasonalRuleResponse struct {
	Category string `json:"category"`
	Level    string `json:"level"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

// ToNotificationResponse converts a domain notification to a response DTO
func ToNotificationResponse(n *alert.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Kind:        string(n.Kind),
		Target:      string(n.Target),
		Message:     n.Message,
		ReferenceID: n.ReferenceID,
		CreatedAt:   n.CreatedAt,
	}
}
