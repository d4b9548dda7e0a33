package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/api"
	"github.com/ssm-mz/dispatch-api/logging"
)

// RetentionSpec is when the audit trail is trimmed to its retention window
const RetentionSpec = "@every 10m"

// Sweeper expires dispatches whose acceptance window passed without a live countdown
type Sweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// Pruner trims the audit trail
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic dispatch and audit maintenance jobs
type Scheduler struct {
	cron      *cron.Cron
	Dispatch  Sweeper
	Audit     Pruner
	SweepSpec string
	log       *zap.SugaredLogger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(dispatch Sweeper, audit Pruner, sweepSpec string) *Scheduler {
	if sweepSpec == "" {
		sweepSpec = "@every 5s"
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		Dispatch:  dispatch,
		Audit:     audit,
		SweepSpec: sweepSpec,
		log:       logging.Named("scheduler"),
	}
}

// Start registers the jobs and begins running them
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.SweepSpec, s.sweepAcceptance); err != nil {
		s.log.Errorw("failed to register acceptance sweep job", "spec", s.SweepSpec, "error", err)
		return err
	}
	if _, err := s.cron.AddFunc(RetentionSpec, s.pruneAudit); err != nil {
		s.log.Errorw("failed to register audit retention job", "error", err)
		return err
	}

	s.cron.Start()
	s.log.Infow("dispatch scheduler started", "sweep", s.SweepSpec, "retention", RetentionSpec)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("dispatch scheduler stopped")
}

func (s *Scheduler) sweepAcceptance() {
	ctx, cancel := api.WithJobTimeout(context.Background())
	defer cancel()

	n, err := s.Dispatch.SweepOverdue(ctx)
	if err != nil {
		s.log.Errorw("acceptance sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.log.Infow("acceptance sweep expired dispatches", "count", n)
	}
}

func (s *Scheduler) pruneAudit() {
	ctx, cancel := api.WithJobTimeout(context.Background())
	defer cancel()

	n, err := s.Audit.Prune(ctx)
	if err != nil {
		s.log.Errorw("audit retention failed", "error", err)
		return
	}
	if n > 0 {
		s.log.Infow("audit retention dropped entries", "count", n)
	}
}
