package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit maps to the credits table.
type Credit struct {
	CreditID         string          `db:"credit_id"`
	OriginRef        string          `db:"origin_ref"`
	ClientID         string          `db:"client_id"`
	CreditTypeID     string          `db:"credit_type_id"`
	OrganismID       *string         `db:"organism_id"`      // Nullable
	PurchaseID       *string         `db:"purchase_id"`      // Nullable, latest link only
	SaleID           *string         `db:"sale_id"`          // Nullable, latest link only
	OriginCreditID   *string         `db:"origin_credit_id"` // Nullable, set on penalty credits
	DisbursementDate time.Time       `db:"disbursement_date"`
	FirstDueDate     time.Time       `db:"first_due_date"`
	AmountDisbursed  decimal.Decimal `db:"amount_disbursed"`
	Capital          decimal.Decimal `db:"capital"`
	AnnualRate       decimal.Decimal `db:"annual_rate"`
	Term             int             `db:"term"`
	Status           string          `db:"status"`
	AuditFields
}

// Installment maps to the installments table.
type Installment struct {
	InstallmentID  string          `db:"installment_id"`
	CreditID       string          `db:"credit_id"`
	InstNum        int             `db:"inst_num"`
	DueDate        time.Time       `db:"due_date"`
	OwnerID        string          `db:"owner_id"`
	Capital        decimal.Decimal `db:"capital"`
	Interest       decimal.Decimal `db:"interest"`
	Tax            decimal.Decimal `db:"tax"`
	Total          decimal.Decimal `db:"total"`
	CollectedTotal decimal.Decimal `db:"collected_total"`
	SettlementDate *time.Time      `db:"settlement_date"`
	AuditFields
}

// Collection maps to the collections table.
type Collection struct {
	CollectionID     string          `db:"collection_id"`
	InstallmentID    string          `db:"installment_id"`
	CreditID         string          `db:"credit_id"`
	CollectionTypeID string          `db:"collection_type_id"`
	CollectionDate   time.Time       `db:"collection_date"`
	Capital          decimal.Decimal `db:"capital"`
	Interest         decimal.Decimal `db:"interest"`
	Tax              decimal.Decimal `db:"tax"`
	Total            decimal.Decimal `db:"total"`
	AuditFields
}
