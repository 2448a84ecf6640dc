package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessPartner is an entity that funds or receives credit portfolios, or is
// entitled to installment proceeds as their Owner.
type BusinessPartner struct {
	PartnerID   string `json:"partnerID"`   // Primary Key (UUID)
	Name        string `json:"name"`        // Legal name
	TaxID       string `json:"taxID"`       // CUIT, unique across all partners
	Email       string `json:"email"`       // Nullable contact email
	Phone       string `json:"phone"`       // Nullable contact phone
	IsActive    bool   `json:"isActive"`
	AuditFields        // Embed CreatedAt, CreatedBy, etc.
}

// Purchase records the acquisition of a credit portfolio from a BusinessPartner
// at an agreed annual rate on a given date.
type Purchase struct {
	PurchaseID  string          `json:"purchaseID"`  // Primary Key (UUID)
	PartnerID   string          `json:"partnerID"`   // FK -> partners.partner_id (Not Null)
	AnnualRate  decimal.Decimal `json:"annualRate"`  // Agreed APR for the transaction
	Date        time.Time       `json:"date"`        // Transaction date (calendar date)
	HasResource bool            `json:"hasResource"` // Recourse flag affecting downstream tax treatment
	HasVAT      bool            `json:"hasVAT"`      // VAT flag affecting downstream tax treatment
	AuditFields
}

// Sale records the disposal of a credit portfolio to a BusinessPartner
// at an agreed annual rate on a given date.
type Sale struct {
	SaleID      string          `json:"saleID"`    // Primary Key (UUID)
	PartnerID   string          `json:"partnerID"` // FK -> partners.partner_id (Not Null)
	AnnualRate  decimal.Decimal `json:"annualRate"`
	Date        time.Time       `json:"date"`
	HasResource bool            `json:"hasResource"`
	HasVAT      bool            `json:"hasVAT"`
	AuditFields
}
