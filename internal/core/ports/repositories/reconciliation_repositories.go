package repositories

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreditSnapshot is a consistent read of everything reconciliation needs for
// one credit: the credit row, its full schedule, and the summed collection
// totals per installment, all taken under a single repeatable read snapshot.
type CreditSnapshot struct {
	Credit              domain.Credit
	Installments        []domain.Installment
	CollectedTotals     map[string]decimal.Decimal
	CollectionRowCounts map[string]int
}

// ReconciliationReader defines snapshot reads for invariant checking
type ReconciliationReader interface {
	// SnapshotCredit loads the credit, its installments and per-installment
	// collection sums inside one repeatable read transaction
	SnapshotCredit(ctx context.Context, creditID string) (*CreditSnapshot, error)
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
}
