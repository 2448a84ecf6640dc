package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/utils"
)

// operatorService provides back-office operator account operations.
type operatorService struct {
	operatorRepo portsrepo.OperatorRepositoryFacade
}

// NewOperatorService creates a new OperatorService.
func NewOperatorService(operatorRepo portsrepo.OperatorRepositoryFacade) portssvc.OperatorSvcFacade {
	return &operatorService{operatorRepo: operatorRepo}
}

// Ensure operatorService implements the portssvc.OperatorSvcFacade interface
var _ portssvc.OperatorSvcFacade = (*operatorService)(nil)

// CreateOperator creates a new operator with a bcrypt password hash.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*domain.Operator, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.operatorRepo.FindOperatorByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, req.Username)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	operatorID := uuid.NewString()
	operator := domain.Operator{
		OperatorID:   operatorID,
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID, // Self-registered
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}

	if err := s.operatorRepo.SaveOperator(ctx, operator); err != nil {
		logger.Error("Failed to save operator", slog.String("error", err.Error()), slog.String("username", req.Username))
		return nil, fmt.Errorf("failed to save operator: %w", err)
	}

	logger.Info("Operator created", slog.String("operator_id", operator.OperatorID), slog.String("username", operator.Username))
	return &operator, nil
}

// UpdateOperator updates an existing operator's mutable fields.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) UpdateOperator(ctx context.Context, operatorID string, req dto.UpdateOperatorRequest, requestingID string) (*domain.Operator, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	operator, err := s.GetOperatorByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		operator.Name = *req.Name
	}
	if req.Email != nil {
		operator.Email = *req.Email
	}
	operator.LastUpdatedAt = time.Now().UTC()
	operator.LastUpdatedBy = requestingID

	if err := s.operatorRepo.UpdateOperator(ctx, *operator); err != nil {
		logger.Error("Failed to update operator", slog.String("error", err.Error()), slog.String("operator_id", operatorID))
		return nil, fmt.Errorf("failed to update operator: %w", err)
	}

	logger.Info("Operator updated", slog.String("operator_id", operatorID))
	return operator, nil
}

// UpdateRefreshToken stores the hash and expiry of an operator's refresh token.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) UpdateRefreshToken(ctx context.Context, operatorID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.operatorRepo.UpdateRefreshToken(ctx, operatorID, &refreshTokenHash, &refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken clears the refresh token for an operator, ending the session.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) ClearRefreshToken(ctx context.Context, operatorID string) error {
	if err := s.operatorRepo.UpdateRefreshToken(ctx, operatorID, nil, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// DeleteOperator marks an operator as deleted (soft delete).
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) DeleteOperator(ctx context.Context, operatorID string, requestingID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.operatorRepo.MarkOperatorDeleted(ctx, operatorID, time.Now().UTC(), requestingID); err != nil {
		logger.Error("Failed to delete operator", slog.String("error", err.Error()), slog.String("operator_id", operatorID))
		return fmt.Errorf("failed to delete operator: %w", err)
	}

	logger.Info("Operator deleted", slog.String("operator_id", operatorID), slog.String("deleted_by", requestingID))
	return nil
}

// GetOperatorByID retrieves an operator by ID. Soft-deleted operators are not returned.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) GetOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	operator, err := s.operatorRepo.FindOperatorByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch operator: %w", err)
	}
	if operator.IsDeleted() {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("operator %s not found", operatorID))
	}
	return operator, nil
}

// GetOperatorByUsername retrieves an operator by username.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) GetOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	operator, err := s.operatorRepo.FindOperatorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch operator: %w", err)
	}
	if operator.IsDeleted() {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("operator %s not found", username))
	}
	return operator, nil
}

// ListOperators retrieves a paginated list of operators.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) ListOperators(ctx context.Context, limit, offset int) ([]domain.Operator, error) {
	operators, err := s.operatorRepo.FindOperators(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return operators, nil
}

// AuthenticateOperator authenticates an operator with username and password.
// Both unknown usernames and wrong passwords report ErrUnauthorized so the
// response does not reveal which part failed.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) AuthenticateOperator(ctx context.Context, username, password string) (*domain.Operator, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	operator, err := s.GetOperatorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if operator.PasswordHash == "" || !utils.CheckPasswordHash(password, operator.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}

	return operator, nil
}

// FindOrCreateOperatorFromGoogle resolves the operator linked to a Google
// identity, creating one on first login.
// Implements portssvc.OperatorSvcFacade
func (s *operatorService) FindOrCreateOperatorFromGoogle(ctx context.Context, info *domain.GoogleUserInfo) (*domain.Operator, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	operator, err := s.operatorRepo.FindOperatorByGoogleID(ctx, info.ID)
	if err == nil {
		if operator.IsDeleted() {
			return nil, apperrors.ErrUnauthorized
		}
		return operator, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up operator by Google ID: %w", err)
	}

	now := time.Now().UTC()
	operatorID := uuid.NewString()
	created := domain.Operator{
		OperatorID: operatorID,
		Username:   info.Email,
		Name:       info.Name,
		Email:      info.Email,
		GoogleID:   info.ID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID, // Self-registered via Google
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}
	if err := s.operatorRepo.SaveOperator(ctx, created); err != nil {
		logger.Error("Failed to save operator from Google login", slog.String("error", err.Error()), slog.String("email", info.Email))
		return nil, fmt.Errorf("failed to save operator: %w", err)
	}

	logger.Info("Operator created from Google login", slog.String("operator_id", created.OperatorID), slog.String("email", created.Email))
	return &created, nil
}
