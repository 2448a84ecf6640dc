package services

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
)

// ReconciliationSvcFacade defines the invariant checks over persisted credits.
// All checks are read-only.
type ReconciliationSvcFacade interface {
	// CheckCredit verifies one credit's arithmetic invariants against a
	// consistent snapshot and reports every violation found.
	CheckCredit(ctx context.Context, creditID string) (*domain.ReconciliationReport, error)

	// CheckAllCredits runs CheckCredit over every active credit with bounded
	// concurrency and returns the reports that failed.
	CheckAllCredits(ctx context.Context) (*domain.ReconciliationRun, error)
}
