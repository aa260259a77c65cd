// Package scheduler runs the background sweep that catches up recurring rules.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/infra/lock"
	"github.com/mahfuzr/hisab/pkg/repository"
	recurringsvc "github.com/mahfuzr/hisab/pkg/service/recurring"
)

// Sweeper periodically materializes due recurring occurrences for every user.
// The advisory lock keeps concurrent instances from double-running a sweep;
// when the lock is held elsewhere the tick is skipped, not queued.
type Sweeper struct {
	uow    repository.UnitOfWork
	svc    *recurringsvc.Service
	lock   lock.Advisory
	cfg    config.Recurring
	logger *slog.Logger
	now    func() time.Time
}

// New creates a sweeper.
func New(uow repository.UnitOfWork, svc *recurringsvc.Service, adv lock.Advisory, cfg config.Recurring, logger *slog.Logger) *Sweeper {
	return &Sweeper{uow: uow, svc: svc, lock: adv, cfg: cfg, logger: logger, now: time.Now}
}

// Run blocks until ctx is cancelled, sweeping once per interval. With
// SweepOnBoot it also sweeps immediately on startup.
func (s *Sweeper) Run(ctx context.Context) {
	if s.cfg.SweepOnBoot {
		s.Sweep(ctx)
	}
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one catch-up pass over all users if the lock is free.
func (s *Sweeper) Sweep(ctx context.Context) {
	acquired, err := s.lock.TryAcquire(ctx)
	if err != nil {
		s.logger.Error("recurring sweep lock failed", "error", err)
		return
	}
	if !acquired {
		s.logger.Info("recurring sweep skipped, lock held elsewhere")
		return
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.logger.Error("recurring sweep unlock failed", "error", err)
		}
	}()

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ids, err := s.uow.Users().ListIDs(ctx)
	if err != nil {
		s.logger.Error("recurring sweep user listing failed", "error", err)
		return
	}
	for _, id := range ids {
		if _, err := s.svc.RunDueForUser(ctx, id, today); err != nil {
			s.logger.Error("recurring sweep failed for user", "user_id", id, "error", err)
		}
	}
}
