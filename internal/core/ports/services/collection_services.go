package services

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/dto"
)

// CollectionReaderSvc defines read operations for collection data
type CollectionReaderSvc interface {
	// GetCollectionByID retrieves a collection by its ID.
	GetCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)

	// ListCollectionsByInstallment retrieves an installment's collections.
	ListCollectionsByInstallment(ctx context.Context, installmentID string) ([]domain.Collection, error)

	// ListCollectionsByCredit retrieves a credit's collections.
	ListCollectionsByCredit(ctx context.Context, creditID string) ([]domain.Collection, error)

	// ListCollectionsByDateRange retrieves a paginated list of collections in a date window.
	ListCollectionsByDateRange(ctx context.Context, params dto.ListCollectionsParams) (*dto.ListCollectionsResponse, error)
}

// CollectionWriterSvc defines the ledger mutations for collections
type CollectionWriterSvc interface {
	// RecordCollection applies a single payment against one installment. The
	// amount is decomposed in the installment's own proportions.
	RecordCollection(ctx context.Context, req dto.RecordCollectionRequest, creatorID string) (*domain.Collection, error)

	// AllocatePayment spreads a payment across a credit's outstanding
	// installments oldest first and returns any unapplied remainder.
	AllocatePayment(ctx context.Context, creditID string, req dto.AllocatePaymentRequest, creatorID string) (*domain.AllocationResult, error)

	// AllocateForClient spreads a payment across all of a client's active
	// credits, earliest outstanding due date first.
	AllocateForClient(ctx context.Context, clientID string, req dto.AllocatePaymentRequest, creatorID string) (*domain.ClientAllocationResult, error)

	// SettleInAdvance clears a credit early: remaining capital is collected,
	// remaining interest and tax are waived.
	SettleInAdvance(ctx context.Context, creditID string, req dto.SettleInAdvanceRequest, creatorID string) (*domain.AllocationResult, error)

	// ForceSettleInstallment stamps the settlement date on a fully collected installment.
	ForceSettleInstallment(ctx context.Context, installmentID string, req dto.ForceSettleRequest, requestingID string) (*domain.Installment, error)

	// SweepResiduals waives sub-threshold residuals across every credit that has them.
	SweepResiduals(ctx context.Context, creatorID string) (*domain.SweepSummary, error)
}

// CollectionSvcFacade combines all collection-related service interfaces
// This is a facade for clients that need access to all operations
type CollectionSvcFacade interface {
	CollectionReaderSvc
	CollectionWriterSvc
}
