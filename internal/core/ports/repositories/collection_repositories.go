package repositories

import (
	"context"
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CollectionReader defines read operations for collections
type CollectionReader interface {
	// FindCollectionByID retrieves a collection by its ID
	FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)
	// FindCollectionsByInstallmentID retrieves an installment's collections ordered by collection date
	FindCollectionsByInstallmentID(ctx context.Context, installmentID string) ([]domain.Collection, error)
	// FindCollectionsByCreditID retrieves a credit's collections ordered by collection date
	FindCollectionsByCreditID(ctx context.Context, creditID string) ([]domain.Collection, error)
	// FindCollectionsByDateRange retrieves a paginated list of collections within [from, to)
	FindCollectionsByDateRange(ctx context.Context, from time.Time, to time.Time, limit int, nextToken *string) ([]domain.Collection, *string, error)
	// FindCreditIDsWithResiduals retrieves the IDs of active credits holding unsettled
	// installments whose outstanding amount is positive but at or below the threshold
	FindCreditIDsWithResiduals(ctx context.Context, threshold decimal.Decimal) ([]string, error)
}

// CollectionWriter defines the ledger mutations for collections.
// Every method runs in its own transaction holding the credit row lock, so
// concurrent collections against one credit serialize at the database.
type CollectionWriter interface {
	// RecordCollection persists a decomposed collection against its installment,
	// updates the installment's collected total, and settles the installment and
	// credit when fully covered. Fails with domain.ErrOverCollection when the
	// cumulative total would exceed the installment total.
	RecordCollection(ctx context.Context, collection domain.Collection) (*domain.Collection, error)
	// AllocatePayment spreads a payment across the credit's outstanding
	// installments oldest first and reports any unapplied remainder
	AllocatePayment(ctx context.Context, creditID string, payment decimal.Decimal, date time.Time, typeID string, createdBy string) (*domain.AllocationResult, error)
	// SettleInAdvance clears every outstanding installment of the credit with an
	// advance collection for remaining capital and a waiver for the rest
	SettleInAdvance(ctx context.Context, creditID string, date time.Time, advanceTypeID string, waiverTypeID string, createdBy string) (*domain.AllocationResult, error)
	// SweepCreditResiduals waives sub-threshold residuals on the credit's
	// unsettled installments so they can settle
	SweepCreditResiduals(ctx context.Context, creditID string, threshold decimal.Decimal, date time.Time, waiverTypeID string, createdBy string) (*domain.AllocationResult, error)
	// ForceSettleInstallment stamps the settlement date on a fully collected
	// installment. Fails with domain.ErrPrematureSettlement otherwise.
	ForceSettleInstallment(ctx context.Context, installmentID string, date time.Time, updatedBy string) (*domain.Installment, error)
}

// CollectionRepositoryFacade combines all collection-related repository interfaces
// This is a facade for clients that need access to all operations
type CollectionRepositoryFacade interface {
	CollectionReader
	CollectionWriter
}

// CollectionRepositoryWithTx extends CollectionRepositoryFacade with transaction capabilities
type CollectionRepositoryWithTx interface {
	CollectionRepositoryFacade
	TransactionManager
}
