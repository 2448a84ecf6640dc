package amortization

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerScale is the fixed number of fractional digits for every monetary
// value in the ledger, matching DECIMAL(22,6) storage.
const LedgerScale = 6

// ErrInvalidScheduleInput indicates bad origination parameters. Nothing is
// persisted when the scheduler rejects its input.
var ErrInvalidScheduleInput = errors.New("invalid schedule input")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Params are the inputs to schedule generation. AnnualRate is the
// tax-inclusive nominal annual rate (TNA_C_IVA) expressed in percent, so 12
// means 12% per year. TaxRate is the VAT fraction applied to interest, e.g.
// 0.21. Both come from configuration or the credit, never from constants.
type Params struct {
	Principal        decimal.Decimal
	AnnualRate       decimal.Decimal
	Term             int
	DisbursementDate time.Time
	FirstDueDate     time.Time
	TaxRate          decimal.Decimal
	Method           domain.ScheduleMethod
}

// Generate produces the full installment schedule for a credit. It is
// deterministic and pure: identical inputs always yield an identical
// schedule. The sum of the drafts' Capital components always equals
// Principal exactly; the final installment absorbs any rounding residual.
func Generate(p Params) ([]domain.InstallmentDraft, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	switch p.Method {
	case domain.ScheduleGerman:
		return generateGerman(p)
	case domain.SchedulePenalty:
		return generatePenalty(p)
	case domain.ScheduleFrench, "":
		return generateFrench(p)
	default:
		return nil, fmt.Errorf("%w: unknown schedule method %q", ErrInvalidScheduleInput, p.Method)
	}
}

func validate(p Params) error {
	if p.Term <= 0 {
		return fmt.Errorf("%w: term must be positive, got %d", ErrInvalidScheduleInput, p.Term)
	}
	if !p.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidScheduleInput, p.Principal)
	}
	if p.AnnualRate.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative, got %s", ErrInvalidScheduleInput, p.AnnualRate)
	}
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("%w: tax rate must not be negative, got %s", ErrInvalidScheduleInput, p.TaxRate)
	}
	if p.Method != domain.SchedulePenalty && !p.FirstDueDate.After(p.DisbursementDate) {
		return fmt.Errorf("%w: first due date %s must be after disbursement date %s",
			ErrInvalidScheduleInput, p.FirstDueDate.Format("2006-01-02"), p.DisbursementDate.Format("2006-01-02"))
	}
	return nil
}

// PeriodicRate converts a percent annual rate into the per-period (monthly)
// rate using the 30/365 day-count convention.
func PeriodicRate(annualRatePct decimal.Decimal) decimal.Decimal {
	return annualRatePct.Div(hundred).Mul(decimal.NewFromInt(30)).Div(decimal.NewFromInt(365))
}

// SplitFinanceCharge decomposes a tax-inclusive finance charge into its net
// interest and tax components at ledger scale. interest + tax == charge
// exactly because tax takes the residual.
func SplitFinanceCharge(charge, taxRate decimal.Decimal) (interest, tax decimal.Decimal) {
	interest = charge.Div(one.Add(taxRate)).Round(LedgerScale)
	tax = charge.Sub(interest)
	return interest, tax
}

// generateFrench builds an equal-total (annuity) schedule. The constant
// payment comes from P * r * (1+r)^n / ((1+r)^n - 1); the power term is
// computed in float64 and everything monetary stays decimal, following the
// same approach as the per-period arithmetic below.
func generateFrench(p Params) ([]domain.InstallmentDraft, error) {
	rate := PeriodicRate(p.AnnualRate)

	var payment decimal.Decimal
	if rate.IsZero() {
		payment = p.Principal.Div(decimal.NewFromInt(int64(p.Term))).Round(LedgerScale)
	} else {
		rf, _ := rate.Float64()
		pf, _ := p.Principal.Float64()
		factor := math.Pow(1+rf, float64(p.Term))
		payment = decimal.NewFromFloat(pf * rf * factor / (factor - 1)).Round(LedgerScale)
	}

	drafts := make([]domain.InstallmentDraft, 0, p.Term)
	outstanding := p.Principal

	for i := 1; i <= p.Term; i++ {
		charge := outstanding.Mul(rate).Round(LedgerScale)

		var capital, total decimal.Decimal
		if i == p.Term {
			// Final installment absorbs the rounding residual so the
			// capital sum lands on the principal exactly.
			capital = outstanding
			total = capital.Add(charge)
		} else {
			capital = payment.Sub(charge)
			total = payment
		}
		if !capital.IsPositive() {
			return nil, fmt.Errorf("%w: periodic payment %s does not cover the finance charge %s at installment %d",
				ErrInvalidScheduleInput, payment, charge, i)
		}

		interest, tax := SplitFinanceCharge(charge, p.TaxRate)
		drafts = append(drafts, domain.InstallmentDraft{
			InstNum:  i,
			DueDate:  addMonthsPinned(p.FirstDueDate, i-1),
			Capital:  capital,
			Interest: interest,
			Tax:      tax,
			Total:    total,
		})
		outstanding = outstanding.Sub(capital)
	}

	return drafts, nil
}

// generateGerman builds an equal-capital schedule: capital is constant per
// period and the finance charge declines with the outstanding balance.
func generateGerman(p Params) ([]domain.InstallmentDraft, error) {
	rate := PeriodicRate(p.AnnualRate)
	baseCapital := p.Principal.Div(decimal.NewFromInt(int64(p.Term))).Round(LedgerScale)

	drafts := make([]domain.InstallmentDraft, 0, p.Term)
	outstanding := p.Principal

	for i := 1; i <= p.Term; i++ {
		capital := baseCapital
		if i == p.Term {
			capital = outstanding
		}
		charge := outstanding.Mul(rate).Round(LedgerScale)
		interest, tax := SplitFinanceCharge(charge, p.TaxRate)

		drafts = append(drafts, domain.InstallmentDraft{
			InstNum:  i,
			DueDate:  addMonthsPinned(p.FirstDueDate, i-1),
			Capital:  capital,
			Interest: interest,
			Tax:      tax,
			Total:    capital.Add(charge),
		})
		outstanding = outstanding.Sub(capital)
	}

	return drafts, nil
}

// generatePenalty builds the single-installment plan for a delinquency
// surcharge. Nothing is disbursed, so the whole amount is finance charge:
// capital is zero and the surcharge splits into interest and tax.
func generatePenalty(p Params) ([]domain.InstallmentDraft, error) {
	if p.Term != 1 {
		return nil, fmt.Errorf("%w: penalty schedules have exactly one installment, got term %d", ErrInvalidScheduleInput, p.Term)
	}
	interest, tax := SplitFinanceCharge(p.Principal, p.TaxRate)
	return []domain.InstallmentDraft{{
		InstNum:  1,
		DueDate:  p.FirstDueDate,
		Capital:  decimal.Zero,
		Interest: interest,
		Tax:      tax,
		Total:    p.Principal,
	}}, nil
}

// addMonthsPinned advances a date by whole months keeping the base day of
// month, clamped to the target month's length (Jan 31 + 1 month = Feb 28/29).
func addMonthsPinned(base time.Time, months int) time.Time {
	if months == 0 {
		return base
	}
	year, month, day := base.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, base.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, base.Location())
}
