package alert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/alert"
	"github.com/ferrepos/backend/internal/domain/catalog"
	"github.com/ferrepos/backend/internal/domain/shared"
)

// lowStockDedupWindow keeps repeated sales of the same scarce product
// from stacking identical alerts.
const lowStockDedupWindow = 24 * time.Hour

// LivePublisher pushes a persisted notification to connected
// dashboards. Delivery is best effort; the notification row is the
// durable record.
type LivePublisher interface {
	PublishNotification(ctx context.Context, n *alert.Notification) error
}

// LowStockHandler turns low stock events into warehouse notifications
type LowStockHandler struct {
	notificationRepo alert.NotificationRepository
	live             LivePublisher
	logger           *zap.Logger
}

// NewLowStockHandler creates a new LowStockHandler. The live publisher
// may be nil, which skips the push and keeps only the stored
// notification.
func NewLowStockHandler(notificationRepo alert.NotificationRepository, live LivePublisher, logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		notificationRepo: notificationRepo,
		live:             live,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductLowStock}
}

// Handle persists a restock notification for a drained product
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*catalog.ProductLowStockEvent)
	if !ok {
		return nil
	}

	since := time.Now().UTC().Add(-lowStockDedupWindow)
	exists, err := h.notificationRepo.ExistsSimilarSince(ctx, lowStock.TenantID(), alert.KindLowStock, &lowStock.ProductID, since)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	message := fmt.Sprintf("Stock bajo: %s (%d unidades)", lowStock.Name, lowStock.Stock)
	notification, err := alert.NewNotification(lowStock.TenantID(), alert.KindLowStock, alert.TargetRoleWarehouse, message, &lowStock.ProductID)
	if err != nil {
		return err
	}

	if err := h.notificationRepo.Save(ctx, notification); err != nil {
		return err
	}

	if h.live != nil {
		if err := h.live.PublishNotification(ctx, notification); err != nil {
			// A dead channel must not fail the sale that raised the event.
			h.logger.Warn("live alert publish failed",
				zap.String("tenant_id", lowStock.TenantID().String()),
				zap.Error(err))
		}
	}

	h.logger.Info("low stock notification created",
		zap.String("tenant_id", lowStock.TenantID().String()),
		zap.String("product_id", lowStock.ProductID.String()),
		zap.Int("stock", lowStock.Stock))
	return nil
}
