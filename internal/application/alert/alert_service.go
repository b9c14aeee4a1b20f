package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/alert"
	"github.com/ferrepos/backend/internal/domain/identity"
)

// AlertService serves the notification inbox. Notifications are
// addressed to roles; read state is tracked per user.
type AlertService struct {
	notificationRepo alert.NotificationRepository
	logger           *zap.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(notificationRepo alert.NotificationRepository, logger *zap.Logger) *AlertService {
	return &AlertService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Unread lists notifications addressed to the user's role that the user
// has not marked as read
func (s *AlertService) Unread(ctx context.Context, tenantID, userID uuid.UUID, role identity.Role) ([]NotificationResponse, error) {
	notifications, err := s.notificationRepo.FindUnreadForUser(ctx, tenantID, userID, alert.TargetRole(role))
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = ToNotificationResponse(&notifications[i])
	}
	return responses, nil
}

// MarkRead records that the user has seen the given notifications
func (s *AlertService) MarkRead(ctx context.Context, tenantID, userID uuid.UUID, req MarkReadRequest) error {
	return s.notificationRepo.MarkRead(ctx, tenantID, userID, req.IDs)
}

// SeasonalOutlook returns the demand hints for the current month
func (s *AlertService) SeasonalOutlook(now time.Time) []SeasonalRuleResponse {
	rules := alert.RulesForMonth(now.Month())

	responses := make([]SeasonalRuleResponse, len(rules))
	for i, rule := range rules {
		responses[i] = SeasonalRuleResponse{
			Category: rule.Category,
			Level:    string(rule.Level),
			Reason:   rule.Reason,
			Message:  rule.Message(),
		}
	}
	return responses
}
