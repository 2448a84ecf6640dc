package repositories

import (
	"context"
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
)

// OperatorReader defines read operations for operator data
type OperatorReader interface {
	// FindOperatorByID retrieves a specific operator by their ID.
	FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error)

	// FindOperatorByUsername retrieves a specific operator by their username.
	FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error)

	// FindOperatorByGoogleID retrieves the operator linked to a Google account.
	FindOperatorByGoogleID(ctx context.Context, googleID string) (*domain.Operator, error)

	// FindOperators retrieves a paginated list of operators.
	FindOperators(ctx context.Context, limit int, offset int) ([]domain.Operator, error)
}

// OperatorWriter defines write operations for operator data
type OperatorWriter interface {
	// SaveOperator persists a new operator.
	SaveOperator(ctx context.Context, operator domain.Operator) error

	// UpdateOperator updates an existing operator's details.
	UpdateOperator(ctx context.Context, operator domain.Operator) error

	// UpdateRefreshToken stores the hash and expiry of an operator's refresh token.
	UpdateRefreshToken(ctx context.Context, operatorID string, tokenHash *string, expiresAt *time.Time) error
}

// OperatorLifecycleManager defines operations for managing operator lifecycle
type OperatorLifecycleManager interface {
	// MarkOperatorDeleted marks an operator as deleted (soft delete).
	MarkOperatorDeleted(ctx context.Context, operatorID string, deletedAt time.Time, deletedBy string) error
}

// OperatorRepositoryFacade combines all operator-related repository interfaces
// This is a facade for clients that need access to all operations
type OperatorRepositoryFacade interface {
	OperatorReader
	OperatorWriter
	OperatorLifecycleManager
}
