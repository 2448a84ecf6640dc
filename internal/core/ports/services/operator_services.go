package services

import (
	"context"
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/dto"
)

// OperatorReaderSvc defines read operations for operator data
type OperatorReaderSvc interface {
	// GetOperatorByID retrieves an operator by ID.
	GetOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error)

	// GetOperatorByUsername retrieves an operator by username.
	GetOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error)

	// ListOperators retrieves a paginated list of operators.
	ListOperators(ctx context.Context, limit, offset int) ([]domain.Operator, error)
}

// OperatorWriterSvc defines write operations for operator data
type OperatorWriterSvc interface {
	// CreateOperator creates a new operator.
	CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*domain.Operator, error)

	// UpdateOperator updates an existing operator.
	UpdateOperator(ctx context.Context, operatorID string, req dto.UpdateOperatorRequest, requestingID string) (*domain.Operator, error)

	// UpdateRefreshToken updates the refresh token details for an operator.
	UpdateRefreshToken(ctx context.Context, operatorID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for an operator.
	ClearRefreshToken(ctx context.Context, operatorID string) error
}

// OperatorLifecycleSvc defines operations for managing operator lifecycle
type OperatorLifecycleSvc interface {
	// DeleteOperator marks an operator as deleted (soft delete).
	DeleteOperator(ctx context.Context, operatorID string, requestingID string) error
}

// OperatorAuthSvc defines operations for operator authentication
type OperatorAuthSvc interface {
	// AuthenticateOperator authenticates an operator with username and password.
	AuthenticateOperator(ctx context.Context, username, password string) (*domain.Operator, error)

	// FindOrCreateOperatorFromGoogle resolves the operator linked to a Google
	// identity, creating one on first login.
	FindOrCreateOperatorFromGoogle(ctx context.Context, info *domain.GoogleUserInfo) (*domain.Operator, error)
}

// OperatorSvcFacade combines all operator-related service interfaces
type OperatorSvcFacade interface {
	OperatorReaderSvc
	OperatorWriterSvc
	OperatorLifecycleSvc
	OperatorAuthSvc
}
