package services

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/dto"
)

// PartnerReaderSvc defines read operations for business partner data
type PartnerReaderSvc interface {
	// GetPartnerByID retrieves a business partner by its ID.
	GetPartnerByID(ctx context.Context, partnerID string) (*domain.BusinessPartner, error)

	// ListPartners retrieves a paginated list of business partners.
	ListPartners(ctx context.Context, params dto.ListPartnersParams) (*dto.ListPartnersResponse, error)
}

// PartnerWriterSvc defines write operations for business partner data
type PartnerWriterSvc interface {
	// CreatePartner creates a new business partner.
	CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, creatorID string) (*domain.BusinessPartner, error)

	// UpdatePartner updates an existing business partner.
	UpdatePartner(ctx context.Context, partnerID string, req dto.UpdatePartnerRequest, requestingID string) (*domain.BusinessPartner, error)

	// DeactivatePartner marks a business partner inactive.
	DeactivatePartner(ctx context.Context, partnerID string, requestingID string) error
}

// PortfolioTradeSvc defines the portfolio purchase and sale operations.
// Trades move installment ownership; the schedules themselves never change.
type PortfolioTradeSvc interface {
	// RecordPurchase registers a portfolio purchase and links the bought
	// credits to it. Depending on configuration the unsettled installments
	// are reassigned to the house partner.
	RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, creatorID string) (*domain.Purchase, error)

	// RecordSale registers a portfolio sale and reassigns the sold credits'
	// unsettled installments to the buying partner.
	RecordSale(ctx context.Context, req dto.RecordSaleRequest, creatorID string) (*domain.Sale, error)

	// GetPurchaseByID retrieves a purchase by its ID.
	GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)

	// GetSaleByID retrieves a sale by its ID.
	GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
}

// PartnerSvcFacade combines all partner-related service interfaces
// This is a facade for clients that need access to all operations
type PartnerSvcFacade interface {
	PartnerReaderSvc
	PartnerWriterSvc
	PortfolioTradeSvc
}
