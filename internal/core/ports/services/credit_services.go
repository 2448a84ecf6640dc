package services

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/dto"
)

// CreditReaderSvc defines read operations for credit data
type CreditReaderSvc interface {
	// GetCreditByID retrieves a credit by its ID.
	GetCreditByID(ctx context.Context, creditID string) (*domain.Credit, error)

	// GetCreditWithSchedule retrieves a credit together with its full installment schedule.
	GetCreditWithSchedule(ctx context.Context, creditID string) (*domain.Credit, []domain.Installment, error)

	// ListCredits retrieves a paginated list of credits.
	ListCredits(ctx context.Context, params dto.ListCreditsParams) (*dto.ListCreditsResponse, error)

	// ListCreditsByClient retrieves every credit of a client.
	ListCreditsByClient(ctx context.Context, clientID string) ([]domain.Credit, error)
}

// CreditWriterSvc defines originate operations for credit data
type CreditWriterSvc interface {
	// OriginateCredit generates the amortization schedule and persists the
	// credit with all its installments atomically.
	OriginateCredit(ctx context.Context, req dto.OriginateCreditRequest, creatorID string) (*domain.Credit, []domain.Installment, error)

	// OriginatePenalty creates a one-installment penalty credit attached to an
	// existing credit. Nothing is disbursed; the surcharge is pure finance charge.
	OriginatePenalty(ctx context.Context, req dto.OriginatePenaltyRequest, creatorID string) (*domain.Credit, []domain.Installment, error)

	// CancelCredit transitions a credit to cancelled status.
	CancelCredit(ctx context.Context, creditID string, requestingID string) error
}

// SchedulePreviewSvc defines schedule computation without persistence
type SchedulePreviewSvc interface {
	// PreviewSchedule computes the installment drafts a credit would get.
	PreviewSchedule(ctx context.Context, req dto.PreviewScheduleRequest) ([]domain.InstallmentDraft, error)
}

// InstallmentReaderSvc defines read operations for installment data
type InstallmentReaderSvc interface {
	// GetInstallmentByID retrieves an installment by its ID.
	GetInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// ListOverdueInstallments retrieves unsettled installments past their due date.
	ListOverdueInstallments(ctx context.Context, params dto.ListOverdueParams) (*dto.ListInstallmentsResponse, error)
}

// CreditSvcFacade combines all credit-related service interfaces
// This is a facade for clients that need access to all operations
type CreditSvcFacade interface {
	CreditReaderSvc
	CreditWriterSvc
	SchedulePreviewSvc
	InstallmentReaderSvc
}
