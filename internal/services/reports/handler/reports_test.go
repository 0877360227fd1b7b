package handler

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/storetest"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDashboard(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewReportsService(mem, nil)
	ctx := context.Background()

	for i, stock := range []int{3, 50} {
		p := &models.Product{
			Name: "P", SKU: "SKU-" + string(rune('A'+i)), Category: "snacks",
			CostPrice: dec("1"), SellingPrice: dec("2"),
			StockQuantity: stock, MinStockLevel: 5, GstRate: dec("18"),
		}
		if err := mem.CreateProduct(ctx, p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	sales := []models.Sale{
		{InvoiceNumber: "INV1", FinalAmount: dec("100"), Date: today, TotalAmount: dec("100"), GstAmount: decimal.Zero, DiscountAmount: decimal.Zero, CreatedBy: 1},
		{InvoiceNumber: "INV2", FinalAmount: dec("50.5"), Date: today, TotalAmount: dec("50.5"), GstAmount: decimal.Zero, DiscountAmount: decimal.Zero, CreatedBy: 1},
		{InvoiceNumber: "INV3", FinalAmount: dec("999"), Date: yesterday, TotalAmount: dec("999"), GstAmount: decimal.Zero, DiscountAmount: decimal.Zero, CreatedBy: 1},
	}
	for i := range sales {
		if err := mem.CreateSale(ctx, &sales[i]); err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.TotalProducts != 2 {
		t.Errorf("total products = %d, want 2", d.TotalProducts)
	}
	if d.LowStockProducts != 1 {
		t.Errorf("low stock products = %d, want 1", d.LowStockProducts)
	}
	if !d.TodaySales.Equal(dec("150.5")) {
		t.Errorf("today sales = %s, want 150.5 (yesterday excluded)", d.TodaySales)
	}
	if len(d.RecentSales) != 3 {
		t.Errorf("recent sales = %d, want 3", len(d.RecentSales))
	}
}

func TestInvestment(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewReportsService(mem, nil)
	ctx := context.Background()

	sale := &models.Sale{InvoiceNumber: "INV1", FinalAmount: dec("1000"), Date: time.Now(), TotalAmount: dec("1000"), GstAmount: decimal.Zero, DiscountAmount: decimal.Zero, CreatedBy: 1}
	if err := mem.CreateSale(ctx, sale); err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	purchase := &models.Purchase{InvoiceNumber: "PUR1", SupplierID: 1, FinalAmount: dec("600"), Date: time.Now(), TotalAmount: dec("600"), GstAmount: decimal.Zero, CreatedBy: 1}
	if err := mem.CreatePurchase(ctx, purchase); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	r, err := svc.Investment(ctx)
	if err != nil {
		t.Fatalf("Investment: %v", err)
	}
	if !r.TotalSales.Equal(dec("1000")) || !r.TotalPurchases.Equal(dec("600")) {
		t.Errorf("totals = %s/%s, want 1000/600", r.TotalSales, r.TotalPurchases)
	}
	if !r.ProfitLoss.Equal(dec("400")) {
		t.Errorf("profit/loss = %s, want 400", r.ProfitLoss)
	}
}

func TestVanSalesReport(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewReportsService(mem, nil)
	ctx := context.Background()

	van1 := &models.Van{Name: "Van 1", DriverName: "Ravi", Phone: "1", LicenseNumber: "KA-01"}
	van2 := &models.Van{Name: "Van 2", DriverName: "Suresh", Phone: "2", LicenseNumber: "KA-02"}
	for _, v := range []*models.Van{van1, van2} {
		if err := mem.CreateVan(ctx, v); err != nil {
			t.Fatalf("seed van: %v", err)
		}
	}

	march := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		inv   string
		vanID int64
		total string
		date  time.Time
	}{
		{"INV1", van1.ID, "100", march},
		{"INV2", van1.ID, "250", march},
		{"INV3", van2.ID, "500", march},
		{"INV4", van1.ID, "999", april}, // out of range
	}
	for _, s := range seed {
		vanID := s.vanID
		sale := &models.Sale{
			InvoiceNumber: s.inv, VanID: &vanID,
			TotalAmount: dec(s.total), GstAmount: decimal.Zero,
			DiscountAmount: decimal.Zero, FinalAmount: dec(s.total),
			Date: s.date, CreatedBy: 1,
		}
		if err := mem.CreateSale(ctx, sale); err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	rows, err := svc.VanSalesReport(ctx, "2026-03")
	if err != nil {
		t.Fatalf("VanSalesReport: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// best van first
	if rows[0].VanID != van2.ID || !rows[0].TotalSales.Equal(dec("500")) {
		t.Errorf("row 0 = %+v, want van 2 with 500", rows[0])
	}
	if rows[1].VanID != van1.ID || !rows[1].TotalSales.Equal(dec("350")) || rows[1].OrderCount != 2 {
		t.Errorf("row 1 = %+v, want van 1 with 350 over 2 orders", rows[1])
	}
}

func TestMonthParsing(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewReportsService(mem, nil)
	ctx := context.Background()

	for _, bad := range []string{"2026", "03-2026", "2026-13", "march"} {
		if _, err := svc.VanSalesReport(ctx, bad); !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("month %q: got %v, want validation error", bad, err)
		}
	}
	if _, err := svc.MonthlyStockReport(ctx, "2026-03"); err != nil {
		t.Errorf("valid month rejected: %v", err)
	}
}
