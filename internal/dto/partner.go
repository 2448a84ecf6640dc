package dto

import (
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartnerRequest defines the payload for creating a business partner.
type CreatePartnerRequest struct {
	Name  string `json:"name" binding:"required"`
	TaxID string `json:"taxID" binding:"required"` // CUIT, normalized before storage
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// UpdatePartnerRequest defines the data allowed for updating a partner.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdatePartnerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// RecordPurchaseRequest defines the payload for registering a portfolio purchase.
type RecordPurchaseRequest struct {
	PartnerID   string          `json:"partnerID" binding:"required"` // Seller
	AnnualRate  decimal.Decimal `json:"annualRate"`
	Date        time.Time       `json:"date" binding:"required"`
	HasResource bool            `json:"hasResource"`
	HasVAT      bool            `json:"hasVAT"`
	CreditIDs   []string        `json:"creditIDs" binding:"required,min=1"`
}

// RecordSaleRequest defines the payload for registering a portfolio sale.
type RecordSaleRequest struct {
	PartnerID   string          `json:"partnerID" binding:"required"` // Buyer
	AnnualRate  decimal.Decimal `json:"annualRate"`
	Date        time.Time       `json:"date" binding:"required"`
	HasResource bool            `json:"hasResource"`
	HasVAT      bool            `json:"hasVAT"`
	CreditIDs   []string        `json:"creditIDs" binding:"required,min=1"`
}

// PartnerResponse defines the data returned for a business partner.
type PartnerResponse struct {
	PartnerID string    `json:"partnerID"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxID"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// PurchaseResponse defines the data returned for a portfolio purchase.
type PurchaseResponse struct {
	PurchaseID  string          `json:"purchaseID"`
	PartnerID   string          `json:"partnerID"`
	AnnualRate  decimal.Decimal `json:"annualRate"`
	Date        time.Time       `json:"date"`
	HasResource bool            `json:"hasResource"`
	HasVAT      bool            `json:"hasVAT"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SaleResponse defines the data returned for a portfolio sale.
type SaleResponse struct {
	SaleID      string          `json:"saleID"`
	PartnerID   string          `json:"partnerID"`
	AnnualRate  decimal.Decimal `json:"annualRate"`
	Date        time.Time       `json:"date"`
	HasResource bool            `json:"hasResource"`
	HasVAT      bool            `json:"hasVAT"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListPartnersParams defines query parameters for listing partners.
type ListPartnersParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListPartnersResponse wraps a page of partners.
type ListPartnersResponse struct {
	Partners  []PartnerResponse `json:"partners"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPartnerResponse converts a domain.BusinessPartner to PartnerResponse DTO.
func ToPartnerResponse(p *domain.BusinessPartner) PartnerResponse {
	return PartnerResponse{
		PartnerID: p.PartnerID,
		Name:      p.Name,
		TaxID:     p.TaxID,
		Email:     p.Email,
		Phone:     p.Phone,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

// ToPartnerResponses converts a slice of domain.BusinessPartner to []PartnerResponse.
func ToPartnerResponses(partners []domain.BusinessPartner) []PartnerResponse {
	responses := make([]PartnerResponse, len(partners))
	for i, p := range partners {
		responses[i] = ToPartnerResponse(&p)
	}
	return responses
}

// ToPurchaseResponse converts a domain.Purchase to PurchaseResponse DTO.
func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:  p.PurchaseID,
		PartnerID:   p.PartnerID,
		AnnualRate:  p.AnnualRate,
		Date:        p.Date,
		HasResource: p.HasResource,
		HasVAT:      p.HasVAT,
		CreatedAt:   p.CreatedAt,
	}
}

// ToSaleResponse converts a domain.Sale to SaleResponse DTO.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		SaleID:      s.SaleID,
		PartnerID:   s.PartnerID,
		AnnualRate:  s.AnnualRate,
		Date:        s.Date,
		HasResource: s.HasResource,
		HasVAT:      s.HasVAT,
		CreatedAt:   s.CreatedAt,
	}
}
