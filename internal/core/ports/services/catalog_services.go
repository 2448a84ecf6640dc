package services

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/dto"
)

// CatalogReaderSvc defines read operations for catalog data
type CatalogReaderSvc interface {
	// GetCreditTypeByID retrieves a credit type by its ID.
	GetCreditTypeByID(ctx context.Context, creditTypeID string) (*domain.CreditType, error)

	// GetCreditTypeByMethod retrieves an active credit type using the given schedule method.
	GetCreditTypeByMethod(ctx context.Context, method domain.ScheduleMethod) (*domain.CreditType, error)

	// ListCreditTypes retrieves all active credit types.
	ListCreditTypes(ctx context.Context) ([]domain.CreditType, error)

	// GetCollectionTypeByCode retrieves a collection type by its code.
	GetCollectionTypeByCode(ctx context.Context, code string) (*domain.CollectionType, error)

	// ListCollectionTypes retrieves all active collection types.
	ListCollectionTypes(ctx context.Context) ([]domain.CollectionType, error)

	// ListBusinessLines retrieves all active business lines.
	ListBusinessLines(ctx context.Context) ([]domain.BusinessLine, error)

	// GetOrganismByID retrieves an organism by its ID.
	GetOrganismByID(ctx context.Context, organismID string) (*domain.Organism, error)

	// ListOrganisms retrieves all active organisms.
	ListOrganisms(ctx context.Context) ([]domain.Organism, error)
}

// CatalogWriterSvc defines write operations for catalog data
type CatalogWriterSvc interface {
	// CreateCreditType creates a new credit type.
	CreateCreditType(ctx context.Context, req dto.CreateCreditTypeRequest, creatorID string) (*domain.CreditType, error)

	// CreateCollectionType creates a new collection type.
	CreateCollectionType(ctx context.Context, req dto.CreateCollectionTypeRequest, creatorID string) (*domain.CollectionType, error)

	// CreateBusinessLine creates a new business line.
	CreateBusinessLine(ctx context.Context, req dto.CreateBusinessLineRequest, creatorID string) (*domain.BusinessLine, error)

	// CreateOrganism creates a new organism under a business line.
	CreateOrganism(ctx context.Context, req dto.CreateOrganismRequest, creatorID string) (*domain.Organism, error)

	// DeactivateCreditType marks a credit type inactive.
	DeactivateCreditType(ctx context.Context, creditTypeID string, requestingID string) error

	// DeactivateOrganism marks an organism inactive.
	DeactivateOrganism(ctx context.Context, organismID string, requestingID string) error
}

// CatalogSvcFacade combines all catalog-related service interfaces
// This is a facade for clients that need access to all operations
type CatalogSvcFacade interface {
	CatalogReaderSvc
	CatalogWriterSvc
}
