package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection records money applied against a single installment on a date,
// decomposed the same way as the installment it pays.
type Collection struct {
	CollectionID     string          `json:"collectionID"`  // Primary Key (UUID)
	InstallmentID    string          `json:"installmentID"` // FK -> installments.installment_id (Not Null)
	CreditID         string          `json:"creditID"`      // Denormalized FK -> credits.credit_id
	CollectionTypeID string          `json:"collectionTypeID"`
	CollectionDate   time.Time       `json:"collectionDate"` // Calendar date the money was applied
	Capital          decimal.Decimal `json:"capital"`
	Interest         decimal.Decimal `json:"interest"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"` // Capital + Interest + Tax, exact at ledger scale
	AuditFields
}

// AllocationResult is the outcome of applying a payment against a credit's
// outstanding installments. Remainder carries any overpayment back to the
// caller; the allocator never invents installments to absorb it.
type AllocationResult struct {
	Collections   []Collection    `json:"collections"`
	Remainder     decimal.Decimal `json:"remainder"` // Unapplied overpayment, zero when fully absorbed
	CreditSettled bool            `json:"creditSettled"`
}

// ClientAllocationResult is the outcome of spreading one payment across all of
// a client's active credits in allocation order.
type ClientAllocationResult struct {
	Results   []AllocationResult `json:"results"`
	Remainder decimal.Decimal    `json:"remainder"` // Left over after every credit is exhausted
}

// SweepSummary reports what a residual sweep pass did.
type SweepSummary struct {
	CreditsSwept int             `json:"creditsSwept"`
	Collections  int             `json:"collections"`
	TotalWaived  decimal.Decimal `json:"totalWaived"`
}
