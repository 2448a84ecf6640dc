package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one scheduled payment obligation within a credit.
// CollectedTotal is maintained transactionally alongside collection rows;
// reconciliation recomputes it from the rows to detect drift.
type Installment struct {
	InstallmentID  string          `json:"installmentID"` // Primary Key (UUID)
	CreditID       string          `json:"creditID"`      // FK -> credits.credit_id (Not Null)
	InstNum        int             `json:"instNum"`       // 1-based, unique and contiguous per credit
	DueDate        time.Time       `json:"dueDate"`       // Strictly increasing with InstNum
	OwnerID        string          `json:"ownerID"`       // FK -> partners.partner_id, entitled to proceeds
	Capital        decimal.Decimal `json:"capital"`
	Interest       decimal.Decimal `json:"interest"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"` // Capital + Interest + Tax, exact at ledger scale
	CollectedTotal decimal.Decimal `json:"collectedTotal"`
	SettlementDate *time.Time      `json:"settlementDate,omitempty"` // Nil while outstanding
	AuditFields
}

// Outstanding returns the amount still owed on the installment.
func (i *Installment) Outstanding() decimal.Decimal {
	return i.Total.Sub(i.CollectedTotal)
}

// IsSettled reports whether the installment has been fully collected.
func (i *Installment) IsSettled() bool {
	return i.SettlementDate != nil
}

// IsOverdue reports whether the installment is unsettled past its due date.
func (i *Installment) IsOverdue(asOf time.Time) bool {
	return !i.IsSettled() && i.DueDate.Before(asOf)
}
