// Package billing computes document totals for sales, purchases and
// returns. Totals are always recomputed from the full current line set
// rather than adjusted incrementally, so the stored header amounts can
// never drift from the lines.
package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line is the amount contribution of one document line.
type Line struct {
	TotalPrice decimal.Decimal
	GstRate    decimal.Decimal // percentage, e.g. 18 for 18%
}

type Totals struct {
	Subtotal decimal.Decimal
	Gst      decimal.Decimal
	Final    decimal.Decimal
}

// Compute derives header totals from the line set. GST is applied per
// line at that line's snapshot rate when gstInvoice is set, otherwise
// the GST amount is zero. Final = subtotal + gst - discount, rounded to
// two decimal places.
func Compute(lines []Line, gstInvoice bool, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	gst := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.TotalPrice)
		if gstInvoice {
			gst = gst.Add(line.TotalPrice.Mul(line.GstRate).Div(hundred))
		}
	}
	subtotal = subtotal.Round(2)
	gst = gst.Round(2)
	return Totals{
		Subtotal: subtotal,
		Gst:      gst,
		Final:    subtotal.Add(gst).Sub(discount).Round(2),
	}
}

// LineTotal is the price of one line: unit price times quantity,
// rounded to two decimal places.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
