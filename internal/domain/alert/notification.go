package alert

import (
	"time"

	"github.com/google/uuid"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// NotificationKind classifies what triggered a notification
type NotificationKind string

const (
	// KindLowStock fires when a sale leaves a product at or below the restock threshold
	KindLowStock NotificationKind = "stock_bajo"
	// KindHighSeason fires for categories entering strong seasonal demand
	KindHighSeason NotificationKind = "tendencia_alta"
	// KindMediumSeason fires for categories with moderate seasonal demand
	KindMediumSeason NotificationKind = "tendencia_media"
	// KindLowSeasonPromo suggests promotions for categories in a demand trough
	KindLowSeasonPromo NotificationKind = "promocion_baja"
)

// TargetRole narrows who sees a notification
type TargetRole string

const (
	TargetRoleAdmin     TargetRole = "admin"
	TargetRoleSeller    TargetRole = "seller"
	TargetRoleWarehouse TargetRole = "warehouse"
	TargetRoleAll       TargetRole = "all"
)

// Notification is a persisted alert addressed to a role within a tenant.
// Read state is tracked per user in notification_reads.
type Notification struct {
	shared.BaseEntity
	TenantID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Kind        NotificationKind `gorm:"type:varchar(30);not null;index"`
	Target      TargetRole       `gorm:"type:varchar(20);not null;default:'all'"`
	Message     string           `gorm:"type:text;not null"`
	ReferenceID *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NotificationRead marks a notification as seen by one user
type NotificationRead struct {
	NotificationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReadAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NotificationRead) TableName() string {
	return "notification_reads"
}

// NewNotification creates a notification
func NewNotification(tenantID uuid.UUID, kind NotificationKind, target TargetRole, message string, referenceID *uuid.UUID) (*Notification, error) {
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Notification message cannot be empty")
	}
	if target == "" {
		target = TargetRoleAll
	}

	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		Kind:        kind,
		Target:      target,
		Message:     message,
		ReferenceID: referenceID,
	}, nil
}

// VisibleTo returns true if the notification targets the given role
func (n *Notification) VisibleTo(role TargetRole) bool {
	return n.Target == TargetRoleAll || n.Target == role
}
