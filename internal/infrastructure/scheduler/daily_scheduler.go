package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/infrastructure/config"
)

// cronTickerInterval is the interval at which the scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// SweepJob is a unit of scheduled work, run once per day
type SweepJob interface {
	Run(ctx context.Context, now time.Time) error
}

// ParseCronSchedule parses a daily cron expression "minute hour * * *".
// Returns defaults (2:00) when the expression is empty or partial.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 2
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 2); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, fmt.Errorf("not a number: %q", s)
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// DailyScheduler runs a sweep job once a day at a configured time.
// A minute ticker compares wall clock against the cron hour and minute.
type DailyScheduler struct {
	cfg    config.SchedulerConfig
	job    SweepJob
	logger *zap.Logger

	cronHour   int
	cronMinute int

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewDailyScheduler creates a new DailyScheduler
func NewDailyScheduler(cfg config.SchedulerConfig, job SweepJob, logger *zap.Logger) (*DailyScheduler, error) {
	hour, minute, err := ParseCronSchedule(cfg.DailyCronSchedule)
	if err != nil {
		return nil, err
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}

	return &DailyScheduler{
		cfg:        cfg,
		job:        job,
		logger:     logger,
		cronHour:   hour,
		cronMinute: minute,
	}, nil
}

// Start starts the scheduler loop
func (s *DailyScheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("daily scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("daily scheduler started",
		zap.Int("cron_hour", s.cronHour),
		zap.Int("cron_minute", s.cronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *DailyScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("daily scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("daily scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerManualRun runs the sweep immediately, outside the schedule.
// Uses a background context so an HTTP caller disconnecting does not
// cancel the sweep.
func (s *DailyScheduler) TriggerManualRun() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runSweep(context.Background())
	return nil
}

// GetStatus returns the current scheduler state
func (s *DailyScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.cfg.Enabled,
		"is_running":  s.isRunning,
		"cron_hour":   s.cronHour,
		"cron_minute": s.cronMinute,
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}

func (s *DailyScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runSweep(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

func (s *DailyScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.cronHour && now.Minute() == s.cronMinute
}

func (s *DailyScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cronHour, s.cronMinute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

func (s *DailyScheduler) runSweep(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	if err := s.job.Run(jobCtx, now.UTC()); err != nil {
		s.logger.Error("daily sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("daily sweep completed")
}
