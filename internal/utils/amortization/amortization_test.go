package amortization_test

import (
	"testing"
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/utils/amortization"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taxRate = decimal.RequireFromString("0.21")

func baseParams() amortization.Params {
	return amortization.Params{
		Principal:        decimal.RequireFromString("1200.000000"),
		AnnualRate:       decimal.RequireFromString("12"),
		Term:             12,
		DisbursementDate: time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		FirstDueDate:     time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC),
		TaxRate:          taxRate,
		Method:           domain.ScheduleFrench,
	}
}

func capitalSum(drafts []domain.InstallmentDraft) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range drafts {
		sum = sum.Add(d.Capital)
	}
	return sum
}

func TestGenerate_FrenchAnnuity(t *testing.T) {
	p := baseParams()
	drafts, err := amortization.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, 12)

	// Capital components sum to the principal exactly, zero residual.
	assert.True(t, capitalSum(drafts).Equal(p.Principal),
		"capital sum %s != principal %s", capitalSum(drafts), p.Principal)

	// Equal totals for every installment but the last, which absorbs the
	// rounding residual and stays within one cent of the constant payment.
	payment := drafts[0].Total
	for i := 1; i < 11; i++ {
		assert.True(t, drafts[i].Total.Equal(payment), "installment %d total %s != %s", i+1, drafts[i].Total, payment)
	}
	finalDrift := drafts[11].Total.Sub(payment).Abs()
	assert.True(t, finalDrift.LessThan(decimal.RequireFromString("0.01")),
		"final installment drift %s too large", finalDrift)

	prevCharge := decimal.Decimal{}
	for i, d := range drafts {
		assert.Equal(t, i+1, d.InstNum)
		// Total == Capital + Interest + Tax, exact at ledger scale.
		assert.True(t, d.Capital.Add(d.Interest).Add(d.Tax).Equal(d.Total),
			"installment %d decomposition does not sum to total", d.InstNum)
		assert.True(t, d.Capital.IsPositive())

		charge := d.Interest.Add(d.Tax)
		if i > 0 {
			assert.True(t, charge.LessThan(prevCharge),
				"finance charge must decline with the outstanding balance")
		}
		prevCharge = charge
	}
}

func TestGenerate_FrenchDueDates(t *testing.T) {
	p := baseParams()
	p.Term = 3
	p.DisbursementDate = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	p.FirstDueDate = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	drafts, err := amortization.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	// Day of month pinned to the first due date's day, clamped to month length.
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), drafts[0].DueDate)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), drafts[1].DueDate)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), drafts[2].DueDate)

	for i := 1; i < len(drafts); i++ {
		assert.True(t, drafts[i].DueDate.After(drafts[i-1].DueDate))
	}
}

func TestGenerate_FrenchZeroRate(t *testing.T) {
	p := baseParams()
	p.Principal = decimal.RequireFromString("1000.000000")
	p.AnnualRate = decimal.Zero
	p.Term = 3

	drafts, err := amortization.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.True(t, drafts[0].Total.Equal(decimal.RequireFromString("333.333333")))
	assert.True(t, drafts[1].Total.Equal(decimal.RequireFromString("333.333333")))
	// Final installment picks up the rounding residual.
	assert.True(t, drafts[2].Total.Equal(decimal.RequireFromString("333.333334")))
	assert.True(t, capitalSum(drafts).Equal(p.Principal))
	for _, d := range drafts {
		assert.True(t, d.Interest.IsZero())
		assert.True(t, d.Tax.IsZero())
	}
}

func TestGenerate_German(t *testing.T) {
	p := baseParams()
	p.Method = domain.ScheduleGerman

	drafts, err := amortization.Generate(p)
	require.NoError(t, err)
	require.Len(t, drafts, 12)

	// 1200 / 12 divides evenly: every capital component is exactly 100.
	for _, d := range drafts {
		assert.True(t, d.Capital.Equal(decimal.RequireFromString("100")),
			"installment %d capital %s", d.InstNum, d.Capital)
		assert.True(t, d.Capital.Add(d.Interest).Add(d.Tax).Equal(d.Total))
	}
	assert.True(t, capitalSum(drafts).Equal(p.Principal))

	// First period finance charge on the full balance: 1200 * (12%/100 * 30/365)
	// rounded at scale 6, then split 1/1.21 into net interest and tax.
	assert.True(t, drafts[0].Interest.Equal(decimal.RequireFromString("9.781501")), "got %s", drafts[0].Interest)
	assert.True(t, drafts[0].Tax.Equal(decimal.RequireFromString("2.054115")), "got %s", drafts[0].Tax)
	assert.True(t, drafts[0].Total.Equal(decimal.RequireFromString("111.835616")), "got %s", drafts[0].Total)

	// Totals decline as the balance amortizes.
	for i := 1; i < len(drafts); i++ {
		assert.True(t, drafts[i].Total.LessThan(drafts[i-1].Total))
	}
}

func TestGenerate_Penalty(t *testing.T) {
	due := time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)
	drafts, err := amortization.Generate(amortization.Params{
		Principal:    decimal.RequireFromString("121.000000"),
		AnnualRate:   decimal.Zero,
		Term:         1,
		FirstDueDate: due,
		TaxRate:      taxRate,
		Method:       domain.SchedulePenalty,
	})
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.True(t, d.Capital.IsZero())
	assert.True(t, d.Interest.Equal(decimal.RequireFromString("100")), "got %s", d.Interest)
	assert.True(t, d.Tax.Equal(decimal.RequireFromString("21")), "got %s", d.Tax)
	assert.True(t, d.Total.Equal(decimal.RequireFromString("121.000000")))
	assert.Equal(t, due, d.DueDate)
}

func TestGenerate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *amortization.Params)
	}{
		{"zero term", func(p *amortization.Params) { p.Term = 0 }},
		{"negative term", func(p *amortization.Params) { p.Term = -3 }},
		{"zero principal", func(p *amortization.Params) { p.Principal = decimal.Zero }},
		{"negative principal", func(p *amortization.Params) { p.Principal = decimal.RequireFromString("-10") }},
		{"negative rate", func(p *amortization.Params) { p.AnnualRate = decimal.RequireFromString("-1") }},
		{"negative tax rate", func(p *amortization.Params) { p.TaxRate = decimal.RequireFromString("-0.21") }},
		{"first due equals disbursement", func(p *amortization.Params) { p.FirstDueDate = p.DisbursementDate }},
		{"first due before disbursement", func(p *amortization.Params) {
			p.FirstDueDate = p.DisbursementDate.AddDate(0, 0, -1)
		}},
		{"unknown method", func(p *amortization.Params) { p.Method = "BALLOON" }},
		{"penalty with several installments", func(p *amortization.Params) {
			p.Method = domain.SchedulePenalty
			p.Term = 2
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			drafts, err := amortization.Generate(p)
			assert.Nil(t, drafts)
			assert.ErrorIs(t, err, amortization.ErrInvalidScheduleInput)
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p := baseParams()
	first, err := amortization.Generate(p)
	require.NoError(t, err)
	second, err := amortization.Generate(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitFinanceCharge(t *testing.T) {
	interest, tax := amortization.SplitFinanceCharge(decimal.RequireFromString("12.100000"), taxRate)
	assert.True(t, interest.Equal(decimal.RequireFromString("10")), "got %s", interest)
	assert.True(t, tax.Equal(decimal.RequireFromString("2.1")), "got %s", tax)

	// The split always reassembles exactly, whatever the charge.
	charge := decimal.RequireFromString("11.835616")
	interest, tax = amortization.SplitFinanceCharge(charge, taxRate)
	assert.True(t, interest.Add(tax).Equal(charge))
}
