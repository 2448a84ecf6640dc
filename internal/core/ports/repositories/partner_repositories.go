package repositories

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
)

// PartnerReader defines read operations for business partners
type PartnerReader interface {
	// FindPartnerByID retrieves a business partner by its ID
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.BusinessPartner, error)
	// FindPartnerByTaxID retrieves a business partner by its tax identifier
	FindPartnerByTaxID(ctx context.Context, taxID string) (*domain.BusinessPartner, error)
	// ListPartners retrieves a paginated list of business partners
	ListPartners(ctx context.Context, limit int, nextToken *string) ([]domain.BusinessPartner, *string, error)
}

// PartnerWriter defines write operations for business partners
type PartnerWriter interface {
	// SavePartner persists a new business partner
	SavePartner(ctx context.Context, partner domain.BusinessPartner) error
	// UpdatePartner persists changes to an existing business partner
	UpdatePartner(ctx context.Context, partner domain.BusinessPartner) error
	// DeactivatePartner marks a business partner inactive
	DeactivatePartner(ctx context.Context, partnerID string, updatedBy string) error
}

// PurchaseReader defines read operations for credit purchases
type PurchaseReader interface {
	// FindPurchaseByID retrieves a purchase by its ID
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	// FindPurchasesByPartnerID retrieves a partner's purchases ordered by date
	FindPurchasesByPartnerID(ctx context.Context, partnerID string) ([]domain.Purchase, error)
}

// PurchaseWriter defines write operations for credit purchases
type PurchaseWriter interface {
	// SavePurchase persists a purchase, links the purchased credits to it and,
	// when newOwnerID is set, reassigns their unsettled installments to that
	// partner, all in one transaction
	SavePurchase(ctx context.Context, purchase domain.Purchase, creditIDs []string, newOwnerID *string) error
}

// SaleReader defines read operations for credit sales
type SaleReader interface {
	// FindSaleByID retrieves a sale by its ID
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
	// FindSalesByPartnerID retrieves a partner's sales ordered by date
	FindSalesByPartnerID(ctx context.Context, partnerID string) ([]domain.Sale, error)
}

// SaleWriter defines write operations for credit sales
type SaleWriter interface {
	// SaveSale persists a sale, links the sold credits to it, and reassigns
	// their unsettled installments to the buying partner, all in one transaction
	SaveSale(ctx context.Context, sale domain.Sale, creditIDs []string) error
}

// PartnerRepositoryFacade combines all partner-related repository interfaces
// This is a facade for clients that need access to all operations
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
	PurchaseReader
	PurchaseWriter
	SaleReader
	SaleWriter
}

// PartnerRepositoryWithTx extends PartnerRepositoryFacade with transaction capabilities
type PartnerRepositoryWithTx interface {
	PartnerRepositoryFacade
	TransactionManager
}
