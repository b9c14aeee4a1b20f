package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/alert"
	"github.com/ferrepos/backend/internal/domain/identity"
)

// seasonalNamespace derives a stable reference ID per category so the
// monthly dedup check can tell rules of the same level apart.
var seasonalNamespace = uuid.MustParse("4b1c7a52-9e0d-4f6a-8c3b-2d5e8f901a27")

// SeasonalSweepService runs the scheduled seasonal demand sweep. For
// every tenant it raises at most one notification per rule and month.
type SeasonalSweepService struct {
	userRepo         identity.UserRepository
	notificationRepo alert.NotificationRepository
	logger           *zap.Logger
}

// NewSeasonalSweepService creates a new SeasonalSweepService
func NewSeasonalSweepService(
	userRepo identity.UserRepository,
	notificationRepo alert.NotificationRepository,
	logger *zap.Logger,
) *SeasonalSweepService {
	return &SeasonalSweepService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Run sweeps every tenant against the current month's seasonal rules.
// A failing tenant is logged and skipped so one bad tenant cannot stall
// the whole sweep.
func (s *SeasonalSweepService) Run(ctx context.Context, now time.Time) error {
	rules := alert.RulesForMonth(now.Month())
	if len(rules) == 0 {
		return nil
	}

	tenantIDs, err := s.userRepo.DistinctTenantIDs(ctx)
	if err != nil {
		return err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var created int
	for _, tenantID := range tenantIDs {
		n, err := s.sweepTenant(ctx, tenantID, rules, monthStart)
		if err != nil {
			s.logger.Error("seasonal sweep failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			continue
		}
		created += n
	}

	s.logger.Info("seasonal sweep finished",
		zap.String("month", now.Month().String()),
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("notifications_created", created))
	return nil
}

func (s *SeasonalSweepService) sweepTenant(ctx context.Context, tenantID uuid.UUID, rules []alert.SeasonalRule, monthStart time.Time) (int, error) {
	var created int
	for _, rule := range rules {
		referenceID := uuid.NewSHA1(seasonalNamespace, []byte(rule.Category))

		exists, err := s.notificationRepo.ExistsSimilarSince(ctx, tenantID, rule.NotificationKind(), &referenceID, monthStart)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		notification, err := alert.NewNotification(tenantID, rule.NotificationKind(), alert.TargetRoleAll, rule.Message(), &referenceID)
		if err != nil {
			return created, err
		}
		if err := s.notificationRepo.Save(ctx, notification); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
