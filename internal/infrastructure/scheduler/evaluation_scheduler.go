package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	appreplen "github.com/warehousely/backend/internal/application/replenishment"
	"github.com/warehousely/backend/internal/infrastructure/config"
)

// ErrSchedulerNotRunning is returned when an operation requires a running scheduler
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// EvaluationRunner runs one replenishment evaluation pass
type EvaluationRunner interface {
	RunOnce(ctx context.Context, now time.Time) (*appreplen.EvaluationSummary, error)
}

// EvaluationScheduler triggers the daily replenishment evaluation. A ticker
// checks periodically whether the configured hour has arrived; at most one
// pass runs per day.
type EvaluationScheduler struct {
	config config.SchedulerConfig
	runner EvaluationRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewEvaluationScheduler creates a new EvaluationScheduler
func NewEvaluationScheduler(cfg config.SchedulerConfig, runner EvaluationRunner, logger *zap.Logger) *EvaluationScheduler {
	return &EvaluationScheduler{
		config: cfg,
		runner: runner,
		logger: logger,
	}
}

// Start starts the scheduler loop
func (s *EvaluationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime(time.Now())

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Replenishment evaluation scheduler started",
		zap.Int("evaluation_hour", s.config.EvaluationHour),
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the scheduler and waits for the loop to finish
func (s *EvaluationScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Replenishment evaluation scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Replenishment evaluation scheduler stop timed out")
		return ctx.Err()
	}
}

// loop runs the ticker loop
func (s *EvaluationScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.run(ctx, now)
				s.calculateNextRunTime(now)
			}
		}
	}
}

// shouldRun reports whether a pass is due: the configured hour has arrived
// and no pass has run today yet
func (s *EvaluationScheduler) shouldRun(now time.Time) bool {
	if now.Hour() != s.config.EvaluationHour {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRunAt == nil {
		return true
	}
	lastYear, lastMonth, lastDay := s.lastRunAt.Date()
	year, month, day := now.Date()
	return lastYear != year || lastMonth != month || lastDay != day
}

// calculateNextRunTime records when the next pass is due
func (s *EvaluationScheduler) calculateNextRunTime(now time.Time) {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.EvaluationHour, 0, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// run executes one evaluation pass
func (s *EvaluationScheduler) run(ctx context.Context, now time.Time) {
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	summary, err := s.runner.RunOnce(ctx, now)
	if err != nil {
		s.logger.Error("Replenishment evaluation pass failed", zap.Error(err))
		return
	}

	s.logger.Info("Replenishment evaluation pass finished",
		zap.Int("rules_evaluated", summary.RulesEvaluated),
		zap.Int("rules_failed", summary.RulesFailed),
		zap.Int("requisitions_created", len(summary.RequisitionsCreated)),
	)
}

// TriggerManualRun runs an evaluation pass outside the schedule.
// Uses a background context so the pass survives the caller's request.
func (s *EvaluationScheduler) TriggerManualRun() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.run(context.Background(), time.Now())
	return nil
}

// GetStatus returns the current scheduler status
func (s *EvaluationScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":         s.config.Enabled,
		"is_running":      s.isRunning,
		"evaluation_hour": s.config.EvaluationHour,
		"last_run_at":     s.lastRunAt,
		"next_run_at":     s.nextRunAt,
	}
}

// GetNextRunAt returns when the next scheduled pass will occur
func (s *EvaluationScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last pass occurred
func (s *EvaluationScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
