package allocation_test

import (
	"fmt"
	"testing"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/utils/allocation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tolerance = decimal.RequireFromString("0.000001")

// newInstallment builds the reference installment used across these tests:
// capital 100, interest 5.5, tax 1.125, total 106.625.
func newInstallment(num int, collected string) domain.Installment {
	return domain.Installment{
		InstallmentID:  fmt.Sprintf("inst-%d", num),
		CreditID:       "credit-1",
		InstNum:        num,
		Capital:        decimal.RequireFromString("100"),
		Interest:       decimal.RequireFromString("5.5"),
		Tax:            decimal.RequireFromString("1.125"),
		Total:          decimal.RequireFromString("106.625"),
		CollectedTotal: decimal.RequireFromString(collected),
	}
}

func TestSplit_FullAmountReproducesComponents(t *testing.T) {
	inst := newInstallment(1, "0")

	capital, interest, tax := allocation.Split(inst, inst.Total)

	assert.True(t, capital.Equal(inst.Capital), "capital: got %s", capital)
	assert.True(t, interest.Equal(inst.Interest), "interest: got %s", interest)
	assert.True(t, tax.Equal(inst.Tax), "tax: got %s", tax)
}

func TestSplit_PartialAmountSumsExactly(t *testing.T) {
	inst := newInstallment(1, "0")
	amount := decimal.RequireFromString("50")

	capital, interest, tax := allocation.Split(inst, amount)

	// 5.5 * 50 / 106.625 = 2.5791324... and 1.125 * 50 / 106.625 = 0.5275498...
	assert.True(t, interest.Equal(decimal.RequireFromString("2.579132")), "interest: got %s", interest)
	assert.True(t, tax.Equal(decimal.RequireFromString("0.52755")), "tax: got %s", tax)
	assert.True(t, capital.Equal(decimal.RequireFromString("46.893318")), "capital: got %s", capital)
	assert.True(t, capital.Add(interest).Add(tax).Equal(amount))
}

func TestSplit_ZeroTotalGoesToCapital(t *testing.T) {
	inst := domain.Installment{Total: decimal.Zero}
	amount := decimal.RequireFromString("3")

	capital, interest, tax := allocation.Split(inst, amount)

	assert.True(t, capital.Equal(amount))
	assert.True(t, interest.IsZero())
	assert.True(t, tax.IsZero())
}

func TestOldestFirst_FillsInOrder(t *testing.T) {
	outstanding := []domain.Installment{
		newInstallment(1, "0"),
		newInstallment(2, "0"),
		newInstallment(3, "0"),
	}
	// Covers the first installment and half of the second.
	payment := decimal.RequireFromString("156.625")

	entries, remainder := allocation.OldestFirst(outstanding, payment, tolerance)

	require.Len(t, entries, 2)
	assert.True(t, remainder.IsZero(), "remainder: got %s", remainder)

	first := entries[0]
	assert.Equal(t, 1, first.InstNum)
	assert.True(t, first.Total.Equal(decimal.RequireFromString("106.625")))
	assert.True(t, first.Capital.Equal(decimal.RequireFromString("100")))
	assert.True(t, first.Interest.Equal(decimal.RequireFromString("5.5")))
	assert.True(t, first.Tax.Equal(decimal.RequireFromString("1.125")))
	assert.True(t, first.Settles)

	second := entries[1]
	assert.Equal(t, 2, second.InstNum)
	assert.True(t, second.Total.Equal(decimal.RequireFromString("50")))
	assert.False(t, second.Settles)
	assert.True(t, second.Capital.Add(second.Interest).Add(second.Tax).Equal(second.Total))
}

func TestOldestFirst_OverpaymentReturnsRemainder(t *testing.T) {
	outstanding := []domain.Installment{
		newInstallment(1, "0"),
		newInstallment(2, "0"),
	}
	payment := decimal.RequireFromString("223.25") // 2 * 106.625 + 10

	entries, remainder := allocation.OldestFirst(outstanding, payment, tolerance)

	require.Len(t, entries, 2)
	assert.True(t, remainder.Equal(decimal.RequireFromString("10")), "remainder: got %s", remainder)
	for _, e := range entries {
		assert.True(t, e.Settles)
	}
}

func TestOldestFirst_SkipsSettledInstallments(t *testing.T) {
	outstanding := []domain.Installment{
		newInstallment(1, "106.625"), // already fully collected
		newInstallment(2, "0"),
	}
	payment := decimal.RequireFromString("20")

	entries, remainder := allocation.OldestFirst(outstanding, payment, tolerance)

	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].InstNum)
	assert.True(t, remainder.IsZero())
}

func TestOldestFirst_TopsUpPartiallyCollected(t *testing.T) {
	outstanding := []domain.Installment{newInstallment(1, "50")}
	payment := decimal.RequireFromString("56.625")

	entries, remainder := allocation.OldestFirst(outstanding, payment, tolerance)

	require.Len(t, entries, 1)
	assert.True(t, remainder.IsZero())
	entry := entries[0]
	assert.True(t, entry.Total.Equal(payment))
	assert.True(t, entry.Settles)
	assert.True(t, entry.Capital.Add(entry.Interest).Add(entry.Tax).Equal(payment))
}

func TestOldestFirst_NothingOutstanding(t *testing.T) {
	entries, remainder := allocation.OldestFirst(nil, decimal.RequireFromString("10"), tolerance)

	assert.Empty(t, entries)
	assert.True(t, remainder.Equal(decimal.RequireFromString("10")))
}

func TestAdvanceSplit_UntouchedInstallment(t *testing.T) {
	inst := newInstallment(1, "0")

	capital, interest, tax := allocation.AdvanceSplit(inst)

	assert.True(t, capital.Equal(inst.Capital))
	assert.True(t, interest.Equal(inst.Interest))
	assert.True(t, tax.Equal(inst.Tax))
}

func TestAdvanceSplit_PartiallyCollected(t *testing.T) {
	inst := newInstallment(1, "50")

	capital, interest, tax := allocation.AdvanceSplit(inst)

	// Remaining fraction is 56.625 / 106.625 = 0.5310668...
	assert.True(t, capital.Equal(decimal.RequireFromString("53.106682")), "capital: got %s", capital)
	assert.True(t, interest.Equal(decimal.RequireFromString("2.920868")), "interest: got %s", interest)
	assert.True(t, capital.Add(interest).Add(tax).Equal(inst.Outstanding()))
}

func TestCovers(t *testing.T) {
	total := decimal.RequireFromString("106.625")

	assert.True(t, allocation.Covers(total, total, tolerance))
	assert.True(t, allocation.Covers(decimal.RequireFromString("106.624999"), total, tolerance))
	assert.False(t, allocation.Covers(decimal.RequireFromString("106.624998"), total, tolerance))
	assert.False(t, allocation.Covers(decimal.RequireFromString("50"), total, tolerance))
}
