package repositories

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
)

// CatalogReader defines read operations for catalog entities
type CatalogReader interface {
	// FindCreditTypeByID retrieves a credit type by its ID
	FindCreditTypeByID(ctx context.Context, creditTypeID string) (*domain.CreditType, error)
	// FindCreditTypeByMethod retrieves the first active credit type using the given schedule method
	FindCreditTypeByMethod(ctx context.Context, method domain.ScheduleMethod) (*domain.CreditType, error)
	// ListCreditTypes retrieves all active credit types
	ListCreditTypes(ctx context.Context) ([]domain.CreditType, error)
	// FindCollectionTypeByID retrieves a collection type by its ID
	FindCollectionTypeByID(ctx context.Context, collectionTypeID string) (*domain.CollectionType, error)
	// FindCollectionTypeByCode retrieves a collection type by its code
	FindCollectionTypeByCode(ctx context.Context, code string) (*domain.CollectionType, error)
	// ListCollectionTypes retrieves all active collection types
	ListCollectionTypes(ctx context.Context) ([]domain.CollectionType, error)
	// FindBusinessLineByID retrieves a business line by its ID
	FindBusinessLineByID(ctx context.Context, businessLineID string) (*domain.BusinessLine, error)
	// ListBusinessLines retrieves all active business lines
	ListBusinessLines(ctx context.Context) ([]domain.BusinessLine, error)
	// FindOrganismByID retrieves an organism by its ID
	FindOrganismByID(ctx context.Context, organismID string) (*domain.Organism, error)
	// ListOrganisms retrieves all active organisms
	ListOrganisms(ctx context.Context) ([]domain.Organism, error)
}

// CatalogWriter defines write operations for catalog entities
type CatalogWriter interface {
	// SaveCreditType persists a new credit type
	SaveCreditType(ctx context.Context, creditType domain.CreditType) error
	// SaveCollectionType persists a new collection type
	SaveCollectionType(ctx context.Context, collectionType domain.CollectionType) error
	// SaveBusinessLine persists a new business line
	SaveBusinessLine(ctx context.Context, businessLine domain.BusinessLine) error
	// SaveOrganism persists a new organism
	SaveOrganism(ctx context.Context, organism domain.Organism) error
	// DeactivateCreditType marks a credit type inactive
	DeactivateCreditType(ctx context.Context, creditTypeID string, updatedBy string) error
	// DeactivateOrganism marks an organism inactive
	DeactivateOrganism(ctx context.Context, organismID string, updatedBy string) error
}

// CatalogRepositoryFacade combines all catalog-related repository interfaces
// This is a facade for clients that need access to all operations
type CatalogRepositoryFacade interface {
	CatalogReader
	CatalogWriter
}

// CatalogRepositoryWithTx extends CatalogRepositoryFacade with transaction capabilities
type CatalogRepositoryWithTx interface {
	CatalogRepositoryFacade
	TransactionManager
}
