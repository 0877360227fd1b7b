package billing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		lines      []Line
		gstInvoice bool
		discount   decimal.Decimal
		wantSub    string
		wantGst    string
		wantFinal  string
	}{
		{
			name: "mixed rates with gst",
			lines: []Line{
				{TotalPrice: dec("200"), GstRate: dec("18")},
				{TotalPrice: dec("50"), GstRate: dec("5")},
			},
			gstInvoice: true,
			discount:   decimal.Zero,
			wantSub:    "250",
			wantGst:    "38.5",
			wantFinal:  "288.5",
		},
		{
			name: "gst flag off zeroes gst",
			lines: []Line{
				{TotalPrice: dec("200"), GstRate: dec("18")},
				{TotalPrice: dec("50"), GstRate: dec("5")},
			},
			gstInvoice: false,
			discount:   decimal.Zero,
			wantSub:    "250",
			wantGst:    "0",
			wantFinal:  "250",
		},
		{
			name: "discount subtracted from final",
			lines: []Line{
				{TotalPrice: dec("100"), GstRate: dec("18")},
			},
			gstInvoice: true,
			discount:   dec("10"),
			wantSub:    "100",
			wantGst:    "18",
			wantFinal:  "108",
		},
		{
			name:       "no lines",
			lines:      nil,
			gstInvoice: true,
			discount:   decimal.Zero,
			wantSub:    "0",
			wantGst:    "0",
			wantFinal:  "0",
		},
		{
			name: "fractional amounts round to paise",
			lines: []Line{
				{TotalPrice: dec("33.33"), GstRate: dec("18")},
			},
			gstInvoice: true,
			discount:   decimal.Zero,
			wantSub:    "33.33",
			wantGst:    "6.00", // 5.9994 rounds up
			wantFinal:  "39.33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.lines, tt.gstInvoice, tt.discount)
			if !got.Subtotal.Equal(dec(tt.wantSub)) {
				t.Errorf("subtotal = %s, want %s", got.Subtotal, tt.wantSub)
			}
			if !got.Gst.Equal(dec(tt.wantGst)) {
				t.Errorf("gst = %s, want %s", got.Gst, tt.wantGst)
			}
			if !got.Final.Equal(dec(tt.wantFinal)) {
				t.Errorf("final = %s, want %s", got.Final, tt.wantFinal)
			}
		})
	}
}

func TestComputeIdempotent(t *testing.T) {
	lines := []Line{
		{TotalPrice: dec("200"), GstRate: dec("18")},
		{TotalPrice: dec("50"), GstRate: dec("5")},
	}
	first := Compute(lines, true, decimal.Zero)
	second := Compute(lines, true, decimal.Zero)
	if !first.Final.Equal(second.Final) || !first.Gst.Equal(second.Gst) || !first.Subtotal.Equal(second.Subtotal) {
		t.Fatalf("recomputation changed totals: %+v vs %+v", first, second)
	}
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(dec("99.99"), 3)
	if !got.Equal(dec("299.97")) {
		t.Fatalf("LineTotal = %s, want 299.97", got)
	}
}
