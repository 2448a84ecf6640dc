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
)

// catalogService provides operations on the reference catalogs: credit types,
// collection types, business lines and organisms.
type catalogService struct {
	catalogRepo portsrepo.CatalogRepositoryWithTx
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo portsrepo.CatalogRepositoryWithTx) portssvc.CatalogSvcFacade {
	return &catalogService{catalogRepo: catalogRepo}
}

// Ensure catalogService implements the portssvc.CatalogSvcFacade interface
var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) GetCreditTypeByID(ctx context.Context, creditTypeID string) (*domain.CreditType, error) {
	creditType, err := s.catalogRepo.FindCreditTypeByID(ctx, creditTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch credit type: %w", err)
	}
	return creditType, nil
}

func (s *catalogService) GetCreditTypeByMethod(ctx context.Context, method domain.ScheduleMethod) (*domain.CreditType, error) {
	creditType, err := s.catalogRepo.FindCreditTypeByMethod(ctx, method)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch credit type by method: %w", err)
	}
	return creditType, nil
}

func (s *catalogService) ListCreditTypes(ctx context.Context) ([]domain.CreditType, error) {
	creditTypes, err := s.catalogRepo.ListCreditTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit types: %w", err)
	}
	return creditTypes, nil
}

func (s *catalogService) GetCollectionTypeByCode(ctx context.Context, code string) (*domain.CollectionType, error) {
	collectionType, err := s.catalogRepo.FindCollectionTypeByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch collection type: %w", err)
	}
	return collectionType, nil
}

func (s *catalogService) ListCollectionTypes(ctx context.Context) ([]domain.CollectionType, error) {
	collectionTypes, err := s.catalogRepo.ListCollectionTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection types: %w", err)
	}
	return collectionTypes, nil
}

func (s *catalogService) ListBusinessLines(ctx context.Context) ([]domain.BusinessLine, error) {
	businessLines, err := s.catalogRepo.ListBusinessLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list business lines: %w", err)
	}
	return businessLines, nil
}

func (s *catalogService) GetOrganismByID(ctx context.Context, organismID string) (*domain.Organism, error) {
	organism, err := s.catalogRepo.FindOrganismByID(ctx, organismID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch organism: %w", err)
	}
	return organism, nil
}

func (s *catalogService) ListOrganisms(ctx context.Context) ([]domain.Organism, error) {
	organisms, err := s.catalogRepo.ListOrganisms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organisms: %w", err)
	}
	return organisms, nil
}

// CreateCreditType creates a new credit type.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) CreateCreditType(ctx context.Context, req dto.CreateCreditTypeRequest, creatorID string) (*domain.CreditType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	creditType := domain.CreditType{
		CreditTypeID:   uuid.NewString(),
		Name:           req.Name,
		ScheduleMethod: domain.ScheduleMethod(req.ScheduleMethod),
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.catalogRepo.SaveCreditType(ctx, creditType); err != nil {
		logger.Error("Failed to save credit type", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save credit type: %w", err)
	}

	logger.Info("Credit type created", slog.String("credit_type_id", creditType.CreditTypeID), slog.String("name", creditType.Name))
	return &creditType, nil
}

// CreateCollectionType creates a new collection type.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) CreateCollectionType(ctx context.Context, req dto.CreateCollectionTypeRequest, creatorID string) (*domain.CollectionType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.catalogRepo.FindCollectionTypeByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: collection type code %s", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	collectionType := domain.CollectionType{
		CollectionTypeID: uuid.NewString(),
		Code:             req.Code,
		Name:             req.Name,
		IsWaiver:         req.IsWaiver,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.catalogRepo.SaveCollectionType(ctx, collectionType); err != nil {
		logger.Error("Failed to save collection type", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save collection type: %w", err)
	}

	logger.Info("Collection type created", slog.String("collection_type_id", collectionType.CollectionTypeID), slog.String("code", collectionType.Code))
	return &collectionType, nil
}

// CreateBusinessLine creates a new business line.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) CreateBusinessLine(ctx context.Context, req dto.CreateBusinessLineRequest, creatorID string) (*domain.BusinessLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	businessLine := domain.BusinessLine{
		BusinessLineID: uuid.NewString(),
		Name:           req.Name,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.catalogRepo.SaveBusinessLine(ctx, businessLine); err != nil {
		logger.Error("Failed to save business line", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save business line: %w", err)
	}

	logger.Info("Business line created", slog.String("business_line_id", businessLine.BusinessLineID), slog.String("name", businessLine.Name))
	return &businessLine, nil
}

// CreateOrganism creates a new organism under a business line.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) CreateOrganism(ctx context.Context, req dto.CreateOrganismRequest, creatorID string) (*domain.Organism, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	businessLine, err := s.catalogRepo.FindBusinessLineByID(ctx, req.BusinessLineID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business line: %w", err)
	}
	if !businessLine.IsActive {
		return nil, fmt.Errorf("%w: business line %s is inactive", apperrors.ErrValidation, req.BusinessLineID)
	}

	now := time.Now().UTC()
	organism := domain.Organism{
		OrganismID:     uuid.NewString(),
		Name:           req.Name,
		BusinessLineID: req.BusinessLineID,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if req.CityID != nil {
		organism.CityID = *req.CityID
	}
	if err := s.catalogRepo.SaveOrganism(ctx, organism); err != nil {
		logger.Error("Failed to save organism", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save organism: %w", err)
	}

	logger.Info("Organism created", slog.String("organism_id", organism.OrganismID), slog.String("name", organism.Name))
	return &organism, nil
}

// DeactivateCreditType marks a credit type inactive. Existing credits keep
// their type; only new origination against it is blocked.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) DeactivateCreditType(ctx context.Context, creditTypeID string, requestingID string) error {
	if err := s.catalogRepo.DeactivateCreditType(ctx, creditTypeID, requestingID); err != nil {
		return fmt.Errorf("failed to deactivate credit type: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Credit type deactivated", slog.String("credit_type_id", creditTypeID))
	return nil
}

// DeactivateOrganism marks an organism inactive.
// Implements portssvc.CatalogSvcFacade
func (s *catalogService) DeactivateOrganism(ctx context.Context, organismID string, requestingID string) error {
	if err := s.catalogRepo.DeactivateOrganism(ctx, organismID, requestingID); err != nil {
		return fmt.Errorf("failed to deactivate organism: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Organism deactivated", slog.String("organism_id", organismID))
	return nil
}
