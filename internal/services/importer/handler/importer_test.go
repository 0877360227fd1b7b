package handler

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"vanpos-system/internal/database/models"
	"vanpos-system/internal/storetest"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func productRow(name, sku string) ProductRow {
	return ProductRow{
		Name:         name,
		SKU:          sku,
		Category:     "snacks",
		CostPrice:    dec("40"),
		SellingPrice: dec("100"),
	}
}

func TestImportProducts(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewImporterService(mem)
	ctx := context.Background()

	rows := []ProductRow{
		productRow("Chips", "CHIP-1"),
		productRow("Soda", "SODA-1"),
		{Name: "No SKU", Category: "snacks", CostPrice: dec("1"), SellingPrice: dec("2")}, // row 4
		productRow("Namkeen", "NAM-1"),
		{Name: "Free", SKU: "FREE-1", Category: "snacks", CostPrice: dec("0"), SellingPrice: dec("2")}, // row 6
		productRow("Biscuits", "BIS-1"),
		productRow("Juice", "JUI-1"),
	}

	res, err := svc.ImportProducts(ctx, rows)
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.SuccessCount != 5 {
		t.Errorf("success count = %d, want 5", res.SuccessCount)
	}
	if res.ErrorCount != 2 {
		t.Errorf("error count = %d, want 2", res.ErrorCount)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("got %d error messages, want 2", len(res.Errors))
	}
	// row indexes are 1-based and account for a header row
	if !strings.HasPrefix(res.Errors[0], "row 4:") {
		t.Errorf("first error %q should name row 4", res.Errors[0])
	}
	if !strings.HasPrefix(res.Errors[1], "row 6:") {
		t.Errorf("second error %q should name row 6", res.Errors[1])
	}

	count, _ := mem.CountProducts(ctx)
	if count != 5 {
		t.Errorf("stored products = %d, want 5", count)
	}
}

func TestImportProductsDefaults(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewImporterService(mem)
	ctx := context.Background()

	if _, err := svc.ImportProducts(ctx, []ProductRow{productRow("Chips", "CHIP-1")}); err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}

	p, err := mem.ProductBySKU(ctx, "CHIP-1")
	if err != nil {
		t.Fatalf("ProductBySKU: %v", err)
	}
	if p.StockQuantity != 0 || p.MinStockLevel != 10 || !p.GstRate.Equal(dec("18")) {
		t.Errorf("defaults not applied: stock=%d min=%d gst=%s", p.StockQuantity, p.MinStockLevel, p.GstRate)
	}
}

func TestImportProductsSKUUniqueness(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewImporterService(mem)
	ctx := context.Background()

	existing := &models.Product{
		Name: "Old Chips", SKU: "CHIP-1", Category: "snacks",
		CostPrice: dec("40"), SellingPrice: dec("90"),
	}
	if err := mem.CreateProduct(ctx, existing); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows := []ProductRow{
		productRow("Chips", "CHIP-1"), // clashes with stored product
		productRow("Soda", "SODA-1"),
		productRow("Soda Again", "SODA-1"), // clashes within the batch
	}
	res, err := svc.ImportProducts(ctx, rows)
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.SuccessCount != 1 || res.ErrorCount != 2 {
		t.Fatalf("got %d/%d, want 1 success and 2 errors: %v", res.SuccessCount, res.ErrorCount, res.Errors)
	}
}

func TestImportEmptyBatch(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewImporterService(mem)

	res, err := svc.ImportProducts(context.Background(), nil)
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.SuccessCount != 0 || res.ErrorCount != 0 {
		t.Fatalf("empty batch should be a no-op, got %+v", res)
	}
}

func TestImportCustomers(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewImporterService(mem)
	ctx := context.Background()

	phone := "9000000001"
	rows := []CustomerRow{
		{Name: "Kirana Store", Phone: &phone},
		{}, // row 3, no name
		{Name: "Tea Stall"},
	}
	res, err := svc.ImportCustomers(ctx, rows)
	if err != nil {
		t.Fatalf("ImportCustomers: %v", err)
	}
	if res.SuccessCount != 2 || res.ErrorCount != 1 {
		t.Fatalf("got %d/%d, want 2 successes and 1 error", res.SuccessCount, res.ErrorCount)
	}
	if !strings.HasPrefix(res.Errors[0], "row 3:") {
		t.Errorf("error %q should name row 3", res.Errors[0])
	}

	customers, _ := mem.ListCustomers(ctx)
	if len(customers) != 2 {
		t.Errorf("stored customers = %d, want 2", len(customers))
	}
}

func TestImportVans(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewImporterService(mem)
	ctx := context.Background()

	rows := []VanRow{
		{Name: "Van 1", DriverName: "Ravi", Phone: "9000000001", LicenseNumber: "KA-01-1234"},
		{Name: "Van 2", DriverName: "Suresh"}, // missing phone and license
	}
	res, err := svc.ImportVans(ctx, rows)
	if err != nil {
		t.Fatalf("ImportVans: %v", err)
	}
	if res.SuccessCount != 1 || res.ErrorCount != 1 {
		t.Fatalf("got %d/%d, want 1 success and 1 error", res.SuccessCount, res.ErrorCount)
	}
	if !strings.Contains(res.Errors[0], "phone") || !strings.Contains(res.Errors[0], "license_number") {
		t.Errorf("error %q should name the missing fields", res.Errors[0])
	}
}
