package repositories

import (
	"context"
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
)

// CreditReader defines read operations for credits
type CreditReader interface {
	// FindCreditByID retrieves a credit by its ID
	FindCreditByID(ctx context.Context, creditID string) (*domain.Credit, error)
	// FindCreditsByClientID retrieves all credits for a client, ordered by disbursement date
	FindCreditsByClientID(ctx context.Context, clientID string) ([]domain.Credit, error)
	// FindActiveCreditsByClientID retrieves the client's active credits ordered for payment
	// allocation: earliest outstanding due date first, then disbursement date, then credit ID
	FindActiveCreditsByClientID(ctx context.Context, clientID string) ([]domain.Credit, error)
	// ListCredits retrieves a paginated list of credits
	ListCredits(ctx context.Context, limit int, nextToken *string) ([]domain.Credit, *string, error)
	// ListActiveCreditIDs retrieves the IDs of every credit still in active status
	ListActiveCreditIDs(ctx context.Context) ([]string, error)
}

// CreditWriter defines write operations for credits
type CreditWriter interface {
	// SaveCreditWithSchedule persists a credit and its full installment schedule atomically
	SaveCreditWithSchedule(ctx context.Context, credit domain.Credit, installments []domain.Installment) error
	// UpdateCreditStatus transitions a credit to the given status
	UpdateCreditStatus(ctx context.Context, creditID string, status domain.CreditStatus, updatedBy string) error
}

// InstallmentReader defines read operations for installments
type InstallmentReader interface {
	// FindInstallmentByID retrieves an installment by its ID
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)
	// FindInstallmentsByCreditID retrieves a credit's installments ordered by installment number
	FindInstallmentsByCreditID(ctx context.Context, creditID string) ([]domain.Installment, error)
	// FindOutstandingByCreditID retrieves the credit's unsettled installments ordered by installment number
	FindOutstandingByCreditID(ctx context.Context, creditID string) ([]domain.Installment, error)
	// FindOverdueInstallments retrieves unsettled installments due strictly before the given date
	FindOverdueInstallments(ctx context.Context, asOf time.Time, limit int, nextToken *string) ([]domain.Installment, *string, error)
}

// CreditRepositoryFacade combines all credit-related repository interfaces
// This is a facade for clients that need access to all operations
type CreditRepositoryFacade interface {
	CreditReader
	CreditWriter
	InstallmentReader
}

// CreditRepositoryWithTx extends CreditRepositoryFacade with transaction capabilities
type CreditRepositoryWithTx interface {
	CreditRepositoryFacade
	TransactionManager
}
