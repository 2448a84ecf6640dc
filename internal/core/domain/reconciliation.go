package domain

import "time"

// ViolationCode identifies the class of a reconciliation finding.
type ViolationCode string

const (
	ViolationCapitalSum    ViolationCode = "CAPITAL_SUM_MISMATCH" // Installment capital sum differs from amount disbursed
	ViolationOverCollected ViolationCode = "OVER_COLLECTED"       // Collections exceed the installment total
	ViolationSettledShort  ViolationCode = "SETTLED_SHORT"        // Settled installment not fully covered
	ViolationSequenceGap   ViolationCode = "SEQUENCE_GAP"         // InstNum not contiguous from 1
	ViolationDueDateOrder  ViolationCode = "DUE_DATE_ORDER"       // Due dates not strictly increasing
	ViolationDecomposition ViolationCode = "DECOMPOSITION"        // Total differs from Capital+Interest+Tax
	ViolationCollectedSync ViolationCode = "COLLECTED_TOTAL_SYNC" // Denormalized CollectedTotal out of sync with rows
)

// ReconciliationViolation describes one failed check on a credit.
type ReconciliationViolation struct {
	Code          ViolationCode `json:"code"`
	InstallmentID string        `json:"installmentID,omitempty"` // Empty for credit-level findings
	InstNum       int           `json:"instNum,omitempty"`
	Detail        string        `json:"detail"`
}

// ReconciliationReport is the outcome of checking one credit's arithmetic
// invariants against a consistent snapshot. Read-only; identical state yields
// an identical violation list.
type ReconciliationReport struct {
	CreditID   string                    `json:"creditID"`
	CheckedAt  time.Time                 `json:"checkedAt"`
	Passed     bool                      `json:"passed"`
	Violations []ReconciliationViolation `json:"violations"`
}

// ReconciliationRun summarizes a sweep over every active credit. Only the
// reports that found violations are carried; clean credits just count.
type ReconciliationRun struct {
	StartedAt      time.Time              `json:"startedAt"`
	FinishedAt     time.Time              `json:"finishedAt"`
	CreditsChecked int                    `json:"creditsChecked"`
	Failed         []ReconciliationReport `json:"failed"`
}
