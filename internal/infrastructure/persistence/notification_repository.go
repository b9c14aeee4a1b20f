package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ferrepos/backend/internal/domain/alert"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save persists a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *alert.Notification) error {
	return translateError(r.conn(ctx).Save(n).Error)
}

// FindUnreadForUser finds notifications visible to the role that the user
// has not marked as read yet, newest first.
func (r *GormNotificationRepository) FindUnreadForUser(ctx context.Context, tenantID, userID uuid.UUID, role alert.TargetRole) ([]alert.Notification, error) {
	readSubquery := r.conn(ctx).Model(&alert.NotificationRead{}).
		Select("notification_id").
		Where("user_id = ?", userID)

	var notifications []alert.Notification
	if err := r.conn(ctx).
		Where("tenant_id = ? AND (target = ? OR target = ?)", tenantID, alert.TargetRoleAll, role).
		Where("id NOT IN (?)", readSubquery).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead records that the user has seen the given notifications.
// IDs outside the tenant are ignored, repeated reads are no-ops.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, tenantID, userID uuid.UUID, notificationIDs []uuid.UUID) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	var validIDs []uuid.UUID
	if err := r.conn(ctx).Model(&alert.Notification{}).
		Where("tenant_id = ? AND id IN ?", tenantID, notificationIDs).
		Pluck("id", &validIDs).Error; err != nil {
		return err
	}
	if len(validIDs) == 0 {
		return nil
	}

	now := time.Now()
	reads := make([]alert.NotificationRead, len(validIDs))
	for i, id := range validIDs {
		reads[i] = alert.NotificationRead{
			NotificationID: id,
			UserID:         userID,
			ReadAt:         now,
		}
	}

	return r.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&reads).Error
}

// ExistsSimilarSince reports whether a notification of the same kind and
// reference was already created after the given instant.
func (r *GormNotificationRepository) ExistsSimilarSince(ctx context.Context, tenantID uuid.UUID, kind alert.NotificationKind, referenceID *uuid.UUID, since time.Time) (bool, error) {
	query := r.conn(ctx).Model(&alert.Notification{}).
		Where("tenant_id = ? AND kind = ? AND created_at >= ?", tenantID, kind, since)

	if referenceID != nil {
		query = query.Where("reference_id = ?", *referenceID)
	} else {
		query = query.Where("reference_id IS NULL")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormNotificationRepository implements NotificationRepository
var _ alert.NotificationRepository = (*GormNotificationRepository)(nil)
