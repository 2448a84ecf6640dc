// Package scheduler runs the ledger's recurring jobs: the nightly residual
// sweep and the reconciliation pass over active credits.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/platform/config"
	"github.com/robfig/cron/v3"
)

// systemOperatorID stamps audit fields on rows written by background jobs.
const systemOperatorID = "system"

// Scheduler wraps the cron runner with the ledger's two jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New registers the sweep and reconciliation jobs using the cron
// expressions from configuration. The jobs do not run until Start is called.
func New(cfg *config.Config, svcs *services.ServiceContainer, baseLogger *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	sweepLogger := baseLogger.With(slog.String("job", "residual_sweep"))
	if _, err := c.AddFunc(cfg.SweepCronSpec, func() {
		ctx := middleware.WithLogger(context.Background(), sweepLogger)
		summary, err := svcs.Collection.SweepResiduals(ctx, systemOperatorID)
		if err != nil {
			sweepLogger.Error("Residual sweep failed", slog.String("error", err.Error()))
			return
		}
		sweepLogger.Info("Residual sweep completed",
			slog.Int("credits_swept", summary.CreditsSwept),
			slog.Int("collections", summary.Collections),
			slog.String("total_waived", summary.TotalWaived.String()),
		)
	}); err != nil {
		return nil, err
	}

	reconcileLogger := baseLogger.With(slog.String("job", "reconciliation"))
	if _, err := c.AddFunc(cfg.ReconcileCronSpec, func() {
		ctx := middleware.WithLogger(context.Background(), reconcileLogger)
		run, err := svcs.Reconciliation.CheckAllCredits(ctx)
		if err != nil {
			reconcileLogger.Error("Reconciliation run failed", slog.String("error", err.Error()))
			return
		}
		if len(run.Failed) > 0 {
			reconcileLogger.Error("Reconciliation found violations",
				slog.Int("credits_checked", run.CreditsChecked),
				slog.Int("credits_failed", len(run.Failed)),
			)
			return
		}
		reconcileLogger.Info("Reconciliation run clean",
			slog.Int("credits_checked", run.CreditsChecked),
		)
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: baseLogger}, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts scheduling and returns a context that is done once running jobs
// finish. Callers wait on it during shutdown.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Scheduler stopping")
	return s.cron.Stop()
}
