package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/core/ports/events"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/platform/config"
	"github.com/credisur/creditledger/internal/utils/allocation"
)

// reconciliationService re-derives every ledger invariant from persisted
// rows. It never writes ledger state; findings go to the caller, the log and
// the event stream.
type reconciliationService struct {
	reconRepo   portsrepo.ReconciliationRepositoryFacade
	creditRepo  portsrepo.CreditReader
	publisher   events.Publisher
	tolerance   decimal.Decimal
	concurrency int
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(cfg *config.Config, reconRepo portsrepo.ReconciliationRepositoryFacade, creditRepo portsrepo.CreditReader, publisher events.Publisher) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconRepo:   reconRepo,
		creditRepo:  creditRepo,
		publisher:   publisher,
		tolerance:   cfg.SettleTolerance,
		concurrency: cfg.ReconcileConcurrency,
	}
}

// Ensure reconciliationService implements the portssvc.ReconciliationSvcFacade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CheckCredit verifies one credit's arithmetic invariants against a
// consistent snapshot and reports every violation found.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) CheckCredit(ctx context.Context, creditID string) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	snapshot, err := s.reconRepo.SnapshotCredit(ctx, creditID)
	if err != nil {
		logger.Error("Failed to snapshot credit for reconciliation", slog.String("error", err.Error()), slog.String("credit_id", creditID))
		return nil, fmt.Errorf("failed to snapshot credit: %w", err)
	}

	report := &domain.ReconciliationReport{
		CreditID:   creditID,
		CheckedAt:  time.Now().UTC(),
		Violations: s.checkSnapshot(snapshot),
	}
	report.Passed = len(report.Violations) == 0

	if !report.Passed {
		logger.Warn("Reconciliation found violations", slog.String("credit_id", creditID), slog.Int("violations", len(report.Violations)))
		s.publishFailure(ctx, report)
	}
	return report, nil
}

// publishFailure emits a reconciliation.failed event. Best effort; a broker
// outage never hides a finding from the caller.
func (s *reconciliationService) publishFailure(ctx context.Context, report *domain.ReconciliationReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.ReconciliationFailed, report.CreditID, report); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish event", slog.String("event", events.ReconciliationFailed), slog.String("key", report.CreditID), slog.String("error", err.Error()))
	}
}

// CheckAllCredits runs CheckCredit over every active credit with bounded
// concurrency and returns the reports that failed.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) CheckAllCredits(ctx context.Context) (*domain.ReconciliationRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creditIDs, err := s.creditRepo.ListActiveCreditIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active credits: %w", err)
	}

	run := &domain.ReconciliationRun{
		StartedAt:      time.Now().UTC(),
		CreditsChecked: len(creditIDs),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, creditID := range creditIDs {
		g.Go(func() error {
			report, err := s.CheckCredit(gctx, creditID)
			if err != nil {
				return err
			}
			if !report.Passed {
				mu.Lock()
				run.Failed = append(run.Failed, *report)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reconciliation run failed: %w", err)
	}

	// Deterministic report order regardless of goroutine scheduling.
	sort.Slice(run.Failed, func(i, j int) bool { return run.Failed[i].CreditID < run.Failed[j].CreditID })
	run.FinishedAt = time.Now().UTC()

	logger.Info("Reconciliation run finished",
		slog.Int("credits_checked", run.CreditsChecked),
		slog.Int("failed", len(run.Failed)),
		slog.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
	return run, nil
}

// checkSnapshot runs every invariant check over one snapshot. Pure; identical
// snapshots yield identical violation lists.
func (s *reconciliationService) checkSnapshot(snapshot *portsrepo.CreditSnapshot) []domain.ReconciliationViolation {
	var violations []domain.ReconciliationViolation

	installments := make([]domain.Installment, len(snapshot.Installments))
	copy(installments, snapshot.Installments)
	sort.Slice(installments, func(i, j int) bool { return installments[i].InstNum < installments[j].InstNum })

	violations = append(violations, s.checkSchedule(snapshot.Credit, installments)...)
	violations = append(violations, s.checkCollections(installments, snapshot.CollectedTotals)...)
	return violations
}

// checkSchedule verifies the structural schedule invariants: contiguous
// installment numbers, strictly increasing due dates, exact decomposition,
// and the capital sum returning the disbursed amount.
func (s *reconciliationService) checkSchedule(credit domain.Credit, installments []domain.Installment) []domain.ReconciliationViolation {
	var violations []domain.ReconciliationViolation

	if len(installments) != credit.Term {
		violations = append(violations, domain.ReconciliationViolation{
			Code:   domain.ViolationSequenceGap,
			Detail: fmt.Sprintf("credit has %d installments, term is %d", len(installments), credit.Term),
		})
	}

	capitalSum := decimal.Zero
	for i := range installments {
		inst := &installments[i]
		capitalSum = capitalSum.Add(inst.Capital)

		if inst.InstNum != i+1 {
			violations = append(violations, domain.ReconciliationViolation{
				Code:          domain.ViolationSequenceGap,
				InstallmentID: inst.InstallmentID,
				InstNum:       inst.InstNum,
				Detail:        fmt.Sprintf("installment number %d at position %d", inst.InstNum, i+1),
			})
		}
		if i > 0 && !inst.DueDate.After(installments[i-1].DueDate) {
			violations = append(violations, domain.ReconciliationViolation{
				Code:          domain.ViolationDueDateOrder,
				InstallmentID: inst.InstallmentID,
				InstNum:       inst.InstNum,
				Detail:        fmt.Sprintf("due date %s not after previous %s", inst.DueDate.Format("2006-01-02"), installments[i-1].DueDate.Format("2006-01-02")),
			})
		}
		if sum := inst.Capital.Add(inst.Interest).Add(inst.Tax); !sum.Equal(inst.Total) {
			violations = append(violations, domain.ReconciliationViolation{
				Code:          domain.ViolationDecomposition,
				InstallmentID: inst.InstallmentID,
				InstNum:       inst.InstNum,
				Detail:        fmt.Sprintf("capital+interest+tax is %s, total is %s", sum.String(), inst.Total.String()),
			})
		}
	}

	if !capitalSum.Equal(credit.AmountDisbursed) {
		violations = append(violations, domain.ReconciliationViolation{
			Code:   domain.ViolationCapitalSum,
			Detail: fmt.Sprintf("installment capital sums to %s, amount disbursed is %s", capitalSum.String(), credit.AmountDisbursed.String()),
		})
	}
	return violations
}

// checkCollections verifies each installment's collection state against the
// summed collection rows: no over-collection, settled only when covered, and
// the denormalized collected total in sync with the rows.
func (s *reconciliationService) checkCollections(installments []domain.Installment, collectedTotals map[string]decimal.Decimal) []domain.ReconciliationViolation {
	var violations []domain.ReconciliationViolation

	for i := range installments {
		inst := &installments[i]
		rowSum := collectedTotals[inst.InstallmentID] // Zero value when no rows exist

		if rowSum.GreaterThan(inst.Total.Add(s.tolerance)) {
			violations = append(violations, domain.ReconciliationViolation{
				Code:          domain.ViolationOverCollected,
				InstallmentID: inst.InstallmentID,
				InstNum:       inst.InstNum,
				Detail:        fmt.Sprintf("collections sum to %s, installment total is %s", rowSum.String(), inst.Total.String()),
			})
		}
		if inst.IsSettled() && !allocation.Covers(rowSum, inst.Total, s.tolerance) {
			violations = append(violations, domain.ReconciliationViolation{
				Code:          domain.ViolationSettledShort,
				InstallmentID: inst.InstallmentID,
				InstNum:       inst.InstNum,
				Detail:        fmt.Sprintf("settled with %s collected of %s", rowSum.String(), inst.Total.String()),
			})
		}
		if !inst.CollectedTotal.Equal(rowSum) {
			violations = append(violations, domain.ReconciliationViolation{
				Code:          domain.ViolationCollectedSync,
				InstallmentID: inst.InstallmentID,
				InstNum:       inst.InstNum,
				Detail:        fmt.Sprintf("collected total is %s, collection rows sum to %s", inst.CollectedTotal.String(), rowSum.String()),
			})
		}
	}
	return violations
}
