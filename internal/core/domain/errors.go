package domain

import "errors"

// Ledger operation errors shared by the storage layer and the services that
// orchestrate it. Every rejected operation leaves the ledger untouched; the
// enclosing transaction rolls back before these are returned.
var (
	// ErrScheduleMismatch indicates a generated schedule whose capital sum
	// does not reconcile with the credit's disbursed amount.
	ErrScheduleMismatch = errors.New("schedule capital does not match amount disbursed")

	// ErrUnknownInstallment indicates the installment does not exist or does
	// not belong to the credit implied by the call.
	ErrUnknownInstallment = errors.New("unknown installment")

	// ErrOverCollection indicates a collection that would push the applied
	// total past the installment total.
	ErrOverCollection = errors.New("collection exceeds installment total")

	// ErrPrematureSettlement indicates a forced settlement of an installment
	// that has not been fully collected.
	ErrPrematureSettlement = errors.New("installment is not fully collected")
)
