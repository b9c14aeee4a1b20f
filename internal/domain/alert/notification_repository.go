package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Save persists a notification
	Save(ctx context.Context, n *Notification) error

	// FindUnreadForUser finds notifications visible to the role that the
	// user has not marked as read yet
	FindUnreadForUser(ctx context.Context, tenantID, userID uuid.UUID, role TargetRole) ([]Notification, error)

	// MarkRead records that the user has seen the given notifications.
	// Already-read entries are skipped.
	MarkRead(ctx context.Context, tenantID, userID uuid.UUID, notificationIDs []uuid.UUID) error

	// ExistsSimilarSince reports whether a notification of the same kind
	// and reference was already created after the given instant. Used to
	// keep scheduled sweeps from stacking duplicates.
	ExistsSimilarSince(ctx context.Context, tenantID uuid.UUID, kind NotificationKind, referenceID *uuid.UUID, since time.Time) (bool, error)
}
