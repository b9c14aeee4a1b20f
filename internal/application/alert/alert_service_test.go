package alert

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/alert"
	"github.com/ferrepos/backend/internal/domain/identity"
	"github.com/ferrepos/backend/internal/domain/shared"
)

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *alert.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindUnreadForUser(ctx context.Context, tenantID, userID uuid.UUID, role alert.TargetRole) ([]alert.Notification, error) {
	args := m.Called(ctx, tenantID, userID, role)
	return args.Get(0).([]alert.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, tenantID, userID uuid.UUID, notificationIDs []uuid.UUID) error {
	args := m.Called(ctx, tenantID, userID, notificationIDs)
	return args.Error(0)
}

func (m *MockNotificationRepository) ExistsSimilarSince(ctx context.Context, tenantID uuid.UUID, kind alert.NotificationKind, referenceID *uuid.UUID, since time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, kind, referenceID, since)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) DistinctTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func TestAlertService_Unread(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("lists unread notifications for the role", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewAlertService(repo, zap.NewNop())

		n, err := alert.NewNotification(tenantID, alert.KindLowStock, alert.TargetRoleWarehouse, "Stock bajo: Martillo (3 unidades)", nil)
		require.NoError(t, err)

		repo.On("FindUnreadForUser", mock.Anything, tenantID, userID, alert.TargetRoleWarehouse).
			Return([]alert.Notification{*n}, nil)

		responses, err := svc.Unread(context.Background(), tenantID, userID, identity.RoleWarehouse)

		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, string(alert.KindLowStock), responses[0].Kind)
		assert.Equal(t, "Stock bajo: Martillo (3 unidades)", responses[0].Message)
	})

	t.Run("marks notifications as read", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewAlertService(repo, zap.NewNop())
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		repo.On("MarkRead", mock.Anything, tenantID, userID, ids).Return(nil)

		err := svc.MarkRead(context.Background(), tenantID, userID, MarkReadRequest{IDs: ids})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestAlertService_SeasonalOutlook(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), zap.NewNop())

	may := time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)
	responses := svc.SeasonalOutlook(may)

	require.NotEmpty(t, responses)
	var found bool
	for _, r := range responses {
		if r.Category == "impermeabilizantes" {
			found = true
			assert.Equal(t, string(alert.SeasonHigh), r.Level)
			assert.NotEmpty(t, r.Message)
		}
	}
	assert.True(t, found)
}
