package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessPartner maps to the partners table.
type BusinessPartner struct {
	PartnerID   string `db:"partner_id"`
	Name        string `db:"name"`
	TaxID       string `db:"tax_id"` // Unique CUIT
	Email       string `db:"email"`
	Phone       string `db:"phone"`
	IsActive    bool   `db:"is_active"`
	AuditFields        // Embed common audit columns
}

// Purchase maps to the purchases table.
type Purchase struct {
	PurchaseID  string          `db:"purchase_id"`
	PartnerID   string          `db:"partner_id"`
	AnnualRate  decimal.Decimal `db:"annual_rate"`
	Date        time.Time       `db:"date"`
	HasResource bool            `db:"has_resource"`
	HasVAT      bool            `db:"has_vat"`
	AuditFields
}

// Sale maps to the sales table.
type Sale struct {
	SaleID      string          `db:"sale_id"`
	PartnerID   string          `db:"partner_id"`
	AnnualRate  decimal.Decimal `db:"annual_rate"`
	Date        time.Time       `db:"date"`
	HasResource bool            `db:"has_resource"`
	HasVAT      bool            `db:"has_vat"`
	AuditFields
}
