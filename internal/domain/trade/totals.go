package trade

import (
	"github.com/shopspring/decimal"
)

// Tax rates recognised by the bucketed totals. Any other rate, including
// zero, lands in the zero-rate bucket.
var (
	TaxRateStandard = decimal.RequireFromString("0.15")
	TaxRateReduced  = decimal.RequireFromString("0.05")
	TaxRateZero     = decimal.Zero
)

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineInput is the priced form of a single line item.
type LineInput struct {
	Quantity  int
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
	Discount  decimal.Decimal
}

// LineAmounts holds the computed money fields of a line item.
type LineAmounts struct {
	TaxRate           decimal.Decimal
	Discount          decimal.Decimal
	Base              decimal.Decimal
	BaseAfterDiscount decimal.Decimal
	Tax               decimal.Decimal
	Total             decimal.Decimal
}

// ComputeLine applies the per-line formulas, rounding after every step.
// A discount larger than the base yields negative amounts; nothing is clamped.
func ComputeLine(in LineInput) LineAmounts {
	base := Round2(in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))))
	afterDiscount := Round2(base.Sub(in.Discount))
	tax := Round2(afterDiscount.Mul(in.TaxRate))
	return LineAmounts{
		TaxRate:           in.TaxRate,
		Discount:          in.Discount,
		Base:              base,
		BaseAfterDiscount: afterDiscount,
		Tax:               tax,
		Total:             Round2(afterDiscount.Add(tax)),
	}
}

// Totals is the header-level roll-up of a document's lines.
type Totals struct {
	SubtotalGeneral decimal.Decimal
	Subtotal15      decimal.Decimal
	Subtotal5       decimal.Decimal
	Subtotal0       decimal.Decimal
	DiscountTotal   decimal.Decimal
	Tax15           decimal.Decimal
	Tax5            decimal.Decimal
	GrandTotal      decimal.Decimal
	PartialPayment  decimal.Decimal
	BalanceDue      decimal.Decimal
}

// TotalTax returns the sum of both taxed buckets.
func (t Totals) TotalTax() decimal.Decimal {
	return t.Tax15.Add(t.Tax5)
}

// Aggregate rolls line amounts into tax buckets.
//
// headerDiscount is recorded as DiscountTotal but never subtracted from the
// grand total. BalanceDue may be negative when the partial payment exceeds
// the grand total.
func Aggregate(lines []LineAmounts, headerDiscount, partialPayment decimal.Decimal) Totals {
	t := Totals{
		SubtotalGeneral: decimal.Zero,
		Subtotal15:      decimal.Zero,
		Subtotal5:       decimal.Zero,
		Subtotal0:       decimal.Zero,
		Tax15:           decimal.Zero,
		Tax5:            decimal.Zero,
	}

	for _, line := range lines {
		switch {
		case line.TaxRate.Equal(TaxRateStandard):
			t.Subtotal15 = t.Subtotal15.Add(line.BaseAfterDiscount)
			t.Tax15 = t.Tax15.Add(line.Tax)
		case line.TaxRate.Equal(TaxRateReduced):
			t.Subtotal5 = t.Subtotal5.Add(line.BaseAfterDiscount)
			t.Tax5 = t.Tax5.Add(line.Tax)
		default:
			t.Subtotal0 = t.Subtotal0.Add(line.BaseAfterDiscount)
		}
		t.SubtotalGeneral = t.SubtotalGeneral.Add(line.BaseAfterDiscount)
	}

	t.SubtotalGeneral = Round2(t.SubtotalGeneral)
	t.Subtotal15 = Round2(t.Subtotal15)
	t.Subtotal5 = Round2(t.Subtotal5)
	t.Subtotal0 = Round2(t.Subtotal0)
	t.Tax15 = Round2(t.Tax15)
	t.Tax5 = Round2(t.Tax5)
	t.DiscountTotal = Round2(headerDiscount)
	t.GrandTotal = Round2(t.Subtotal15.Add(t.Subtotal5).Add(t.Subtotal0).Add(t.Tax15).Add(t.Tax5))
	t.PartialPayment = Round2(partialPayment)
	t.BalanceDue = Round2(t.GrandTotal.Sub(t.PartialPayment))
	return t
}

// SumDiscounts returns the sum of line-level discounts.
func SumDiscounts(lines []LineAmounts) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Discount)
	}
	return Round2(sum)
}
