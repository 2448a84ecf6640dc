package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CreditStatus indicates the lifecycle state of a credit.
type CreditStatus string

const (
	CreditActive    CreditStatus = "ACTIVE"
	CreditSettled   CreditStatus = "SETTLED"
	CreditCancelled CreditStatus = "CANCELLED"
)

// Credit is the central ledger entity: a disbursed loan with its full
// installment schedule. Created atomically with its installments at
// origination and immutable afterwards except for collection application.
type Credit struct {
	CreditID         string          `json:"creditID"`  // Primary Key (UUID)
	OriginRef        string          `json:"originRef"` // External origination reference, optional
	ClientID         string          `json:"clientID"`  // FK -> clients.client_id (Not Null)
	CreditTypeID     string          `json:"creditTypeID"`
	OrganismID       *string         `json:"organismID,omitempty"`     // Nullable FK
	PurchaseID       *string         `json:"purchaseID,omitempty"`     // Nullable FK, latest purchase link only
	SaleID           *string         `json:"saleID,omitempty"`         // Nullable FK, latest sale link only
	OriginCreditID   *string         `json:"originCreditID,omitempty"` // Set on penalty credits, points at the penalized credit
	DisbursementDate time.Time       `json:"disbursementDate"`
	FirstDueDate     time.Time       `json:"firstDueDate"`
	AmountDisbursed  decimal.Decimal `json:"amountDisbursed"` // Must equal the installment capital sum
	Capital          decimal.Decimal `json:"capital"`         // Financed principal; equals AmountDisbursed unless fees were withheld
	AnnualRate       decimal.Decimal `json:"annualRate"`      // TNA_C_IVA: tax-inclusive nominal annual rate, percent
	Term             int             `json:"term"`            // Installment count
	Status           CreditStatus    `json:"status"`
	AuditFields
}

// Validate checks the structural origination parameters of a credit.
// Schedule arithmetic is validated separately when the schedule is generated.
func (c *Credit) Validate() error {
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if c.CreditTypeID == "" {
		return errors.New("credit type ID is required")
	}
	if c.Term <= 0 {
		return errors.New("term must be positive")
	}
	// Zero is legal for penalty credits, where nothing is disbursed.
	if c.AmountDisbursed.IsNegative() {
		return errors.New("amount disbursed must not be negative")
	}
	if c.AnnualRate.IsNegative() {
		return errors.New("annual rate must not be negative")
	}
	if !c.FirstDueDate.After(c.DisbursementDate) {
		return errors.New("first due date must be after the disbursement date")
	}
	return nil
}

// IsSettled reports whether every installment of the credit has been collected.
func (c *Credit) IsSettled() bool {
	return c.Status == CreditSettled
}

// InstallmentDraft is one scheduled payment produced by the amortization
// scheduler before persistence assigns identifiers and ownership.
type InstallmentDraft struct {
	InstNum  int             `json:"instNum"` // 1-based, contiguous
	DueDate  time.Time       `json:"dueDate"`
	Capital  decimal.Decimal `json:"capital"`
	Interest decimal.Decimal `json:"interest"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"` // Capital + Interest + Tax, exact at ledger scale
}
