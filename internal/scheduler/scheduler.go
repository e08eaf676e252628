// Package scheduler runs the recurring background jobs: the settlement
// sweep and the odds cache warm-up.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/service"
	"github.com/yourusername/parlay-forge/internal/tracing"
)

// SettlementSweeper settles every user's pending bets in one sweep
type SettlementSweeper interface {
	SettleAllPending(ctx context.Context) error
}

// Scheduler manages the recurring jobs on a UTC cron
type Scheduler struct {
	cron      *cron.Cron
	settler   SettlementSweeper
	oddsFeed  service.OddsProvider
	logger    *logrus.Logger
	mu        sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler
func NewScheduler(settler SettlementSweeper, oddsFeed service.OddsProvider, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		settler:  settler,
		oddsFeed: oddsFeed,
		logger:   logger,
	}
}

// ScheduleSettlementSweep runs a full settlement sweep at the given
// interval. Each sweep gets its own timeout so a hung provider call
// cannot pile sweeps up behind it.
func (s *Scheduler) ScheduleSettlementSweep(interval, passTimeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
		defer cancel()

		s.logger.Info("Scheduled settlement sweep starting")
		err := tracing.Capture(ctx, "settlement-sweep", func(ctx context.Context) error {
			return s.settler.SettleAllPending(ctx)
		})
		if err != nil {
			s.logger.WithError(err).Error("Scheduled settlement sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule settlement sweep: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval", interval).Info("Settlement sweep scheduled")
	return nil
}

// ScheduleOddsRefresh keeps the odds event cache warm so forge requests
// rarely wait on the provider.
func (s *Scheduler) ScheduleOddsRefresh(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.oddsFeed.Events(ctx); err != nil {
			s.logger.WithError(err).Warn("Scheduled odds refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule odds refresh: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval", interval).Info("Odds refresh scheduled")
	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}
