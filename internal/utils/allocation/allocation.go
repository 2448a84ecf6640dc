// Package allocation holds the pure arithmetic for spreading payments across
// installments. Everything here works on values already loaded; locking and
// persistence stay with the caller.
package allocation

import (
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/utils/amortization"
	"github.com/shopspring/decimal"
)

// Entry describes money applied against one installment, decomposed in the
// installment's own proportions.
type Entry struct {
	InstallmentID string
	InstNum       int
	Capital       decimal.Decimal
	Interest      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Settles       bool
}

// Covers reports whether collected reaches total within tolerance.
func Covers(collected, total, tolerance decimal.Decimal) bool {
	return collected.GreaterThanOrEqual(total.Sub(tolerance))
}

// Split decomposes amount in the proportions of the installment's original
// components. Interest and tax are rounded at ledger scale and capital absorbs
// the residual, so the three parts always sum to amount exactly. Covering the
// full total reproduces the installment's own decomposition.
func Split(inst domain.Installment, amount decimal.Decimal) (capital, interest, tax decimal.Decimal) {
	if !inst.Total.IsPositive() {
		return amount, decimal.Zero, decimal.Zero
	}
	interest = inst.Interest.Mul(amount).Div(inst.Total).Round(amortization.LedgerScale)
	tax = inst.Tax.Mul(amount).Div(inst.Total).Round(amortization.LedgerScale)
	capital = amount.Sub(interest).Sub(tax)
	return capital, interest, tax
}

// AdvanceSplit decomposes an installment's outstanding amount for early
// settlement: the capital share is what an advance collection takes, the
// interest and tax shares are what gets waived. The three parts sum to the
// outstanding amount exactly.
func AdvanceSplit(inst domain.Installment) (capital, interest, tax decimal.Decimal) {
	outstanding := inst.Outstanding()
	if !inst.Total.IsPositive() {
		return outstanding, decimal.Zero, decimal.Zero
	}
	capital = inst.Capital.Mul(outstanding).Div(inst.Total).Round(amortization.LedgerScale)
	interest = inst.Interest.Mul(outstanding).Div(inst.Total).Round(amortization.LedgerScale)
	tax = outstanding.Sub(capital).Sub(interest)
	return capital, interest, tax
}

// OldestFirst spreads payment across the given installments in order, filling
// each one completely before touching the next. Settled installments are
// skipped. The second return value is whatever could not be applied once every
// installment was full; it is never negative.
func OldestFirst(outstanding []domain.Installment, payment decimal.Decimal, tolerance decimal.Decimal) ([]Entry, decimal.Decimal) {
	entries := make([]Entry, 0, len(outstanding))
	remaining := payment

	for _, inst := range outstanding {
		if !remaining.IsPositive() {
			break
		}
		due := inst.Outstanding()
		if !due.IsPositive() {
			continue
		}

		apply := decimal.Min(due, remaining)
		capital, interest, tax := Split(inst, apply)
		entries = append(entries, Entry{
			InstallmentID: inst.InstallmentID,
			InstNum:       inst.InstNum,
			Capital:       capital,
			Interest:      interest,
			Tax:           tax,
			Total:         apply,
			Settles:       Covers(inst.CollectedTotal.Add(apply), inst.Total, tolerance),
		})
		remaining = remaining.Sub(apply)
	}

	return entries, remaining
}
