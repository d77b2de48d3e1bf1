// Package cleanup removes expired accounts on a fixed schedule.
package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// Service purges accounts whose expiry has passed and records each run.
type Service struct {
	repo   domain.CleanupRepository
	logger *slog.Logger
	now    func() time.Time

	// running guarantees at most one purge at a time: if a run is still in
	// flight when the next tick fires, the tick is skipped.
	running sync.Mutex
}

// NewService creates a cleanup Service.
func NewService(repo domain.CleanupRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With("component", "cleanup_service"),
		now:    time.Now,
	}
}

// Run performs one cleanup pass. Returns the number of accounts removed, or
// -1 if another run was already in progress and this one was skipped.
func (s *Service) Run(ctx context.Context) (int64, error) {
	if !s.running.TryLock() {
		s.logger.Warn("cleanup already running, skipping")
		return -1, nil
	}
	defer s.running.Unlock()

	asOf := s.now().UTC()
	removed, err := s.repo.PurgeExpired(ctx, asOf)
	if err != nil {
		s.logger.Error("cleanup failed", "error", err)
		return 0, err
	}

	if err := s.repo.RecordRun(ctx, removed, asOf); err != nil {
		s.logger.Error("cleanup log write failed", "error", err)
		return removed, err
	}

	s.logger.Info("cleanup finished", "removed", removed)
	return removed, nil
}

// Scheduler runs the cleanup service on a daily cadence.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  *slog.Logger
}

// NewScheduler creates a Scheduler with a daily schedule. An invalid
// schedule expression fails construction.
func NewScheduler(service *Service, schedule string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger.With("component", "cleanup_scheduler"),
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		_, _ = s.service.Run(ctx)
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins scheduling. An initial pass runs immediately so a service that
// was down over a scheduled tick still catches up on startup.
func (s *Scheduler) Start(ctx context.Context) {
	if _, err := s.service.Run(ctx); err != nil {
		s.logger.Error("initial cleanup failed", "error", err)
	}
	s.cron.Start()
	s.logger.Info("cleanup scheduler started")
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cleanup scheduler stopped")
}
