package handler

import (
	"context"
	"strings"
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

func seedProduct(t *testing.T, mem *storetest.Memory, sku, price, gstRate string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Category:      "snacks",
		CostPrice:     dec("40"),
		SellingPrice:  dec(price),
		StockQuantity: stock,
		MinStockLevel: 10,
		GstRate:       dec(gstRate),
	}
	if err := mem.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestCreateSaleDefaults(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)

	sale, err := svc.CreateSale(context.Background(), CreateSaleInput{CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !strings.HasPrefix(sale.InvoiceNumber, "INV") {
		t.Errorf("invoice number %q should have INV prefix", sale.InvoiceNumber)
	}
	if sale.PaymentMethod != models.PaymentCash {
		t.Errorf("payment method = %q, want cash", sale.PaymentMethod)
	}
	if !sale.IsGstInvoice {
		t.Error("gst invoice should default to true")
	}
	if sale.CustomerID != nil {
		t.Error("customer should default to walk-in (nil)")
	}
	if !sale.FinalAmount.IsZero() {
		t.Errorf("final amount = %s, want 0", sale.FinalAmount)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	if _, err := svc.CreateSale(ctx, CreateSaleInput{PaymentMethod: "cheque"}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("invalid payment method: got %v, want validation error", err)
	}

	missing := int64(99)
	if _, err := svc.CreateSale(ctx, CreateSaleInput{CustomerID: &missing}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unknown customer: got %v, want not found", err)
	}
	if _, err := svc.CreateSale(ctx, CreateSaleInput{VanID: &missing}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unknown van: got %v, want not found", err)
	}
}

func TestAddSaleItemTotals(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	a := seedProduct(t, mem, "SKU-A", "100", "18", 10)
	b := seedProduct(t, mem, "SKU-B", "50", "5", 5)

	sale, err := svc.CreateSale(ctx, CreateSaleInput{CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	sale, err = svc.AddSaleItem(ctx, sale.ID, a.ID, 2)
	if err != nil {
		t.Fatalf("AddSaleItem A: %v", err)
	}
	if !sale.TotalAmount.Equal(dec("200")) || !sale.GstAmount.Equal(dec("36")) || !sale.FinalAmount.Equal(dec("236")) {
		t.Errorf("after first line: %s/%s/%s, want 200/36/236",
			sale.TotalAmount, sale.GstAmount, sale.FinalAmount)
	}

	sale, err = svc.AddSaleItem(ctx, sale.ID, b.ID, 1)
	if err != nil {
		t.Fatalf("AddSaleItem B: %v", err)
	}

	if !sale.TotalAmount.Equal(dec("250")) {
		t.Errorf("subtotal = %s, want 250", sale.TotalAmount)
	}
	if !sale.GstAmount.Equal(dec("38.5")) {
		t.Errorf("gst = %s, want 38.5", sale.GstAmount)
	}
	if !sale.FinalAmount.Equal(dec("288.5")) {
		t.Errorf("final = %s, want 288.5", sale.FinalAmount)
	}
	if len(sale.Items) != 2 {
		t.Errorf("sale carries %d lines, want 2", len(sale.Items))
	}

	gotA, _ := mem.ProductByID(ctx, a.ID)
	if gotA.StockQuantity != 8 {
		t.Errorf("product A stock = %d, want 8", gotA.StockQuantity)
	}
	gotB, _ := mem.ProductByID(ctx, b.ID)
	if gotB.StockQuantity != 4 {
		t.Errorf("product B stock = %d, want 4", gotB.StockQuantity)
	}
}

func TestAddSaleItemUnknownSale(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	p := seedProduct(t, mem, "SKU-A", "100", "18", 10)
	_, err := svc.AddSaleItem(ctx, 42, p.ID, 1)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestAddSaleItemInsufficientStock(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	p := seedProduct(t, mem, "SKU-A", "100", "18", 3)
	sale, err := svc.CreateSale(ctx, CreateSaleInput{CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	_, err = svc.AddSaleItem(ctx, sale.ID, p.ID, 4)
	if !apperr.IsKind(err, apperr.KindInsufficientStock) {
		t.Fatalf("got %v, want insufficient stock", err)
	}

	// nothing from the failed step may stick
	got, _ := mem.ProductByID(ctx, p.ID)
	if got.StockQuantity != 3 {
		t.Errorf("stock = %d, want 3 after rollback", got.StockQuantity)
	}
	reloaded, _ := mem.SaleByID(ctx, sale.ID)
	if len(reloaded.Items) != 0 {
		t.Errorf("sale has %d items, want 0", len(reloaded.Items))
	}
	if !reloaded.FinalAmount.IsZero() {
		t.Errorf("final = %s, want 0", reloaded.FinalAmount)
	}
}

func TestAddSaleItemSnapshotsPrice(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	p := seedProduct(t, mem, "SKU-A", "100", "18", 10)
	sale, err := svc.CreateSale(ctx, CreateSaleInput{CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if _, err := svc.AddSaleItem(ctx, sale.ID, p.ID, 1); err != nil {
		t.Fatalf("AddSaleItem: %v", err)
	}

	// a later catalog price change must not touch the recorded line
	changed, _ := mem.ProductByID(ctx, p.ID)
	changed.SellingPrice = dec("500")
	if err := mem.SaveProduct(ctx, changed); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}

	items, _ := mem.ListSaleItems(ctx, sale.ID)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if !items[0].UnitPrice.Equal(dec("100")) {
		t.Errorf("unit price = %s, want snapshot 100", items[0].UnitPrice)
	}
}

func TestCreateSaleWithDiscount(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	p := seedProduct(t, mem, "SKU-A", "100", "18", 10)
	sale, err := svc.CreateSale(ctx, CreateSaleInput{DiscountAmount: dec("10"), CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	sale, err = svc.AddSaleItem(ctx, sale.ID, p.ID, 1)
	if err != nil {
		t.Fatalf("AddSaleItem: %v", err)
	}
	if !sale.FinalAmount.Equal(dec("108")) {
		t.Errorf("final = %s, want 108 (100 + 18 - 10)", sale.FinalAmount)
	}
}

func TestNonGstSaleSkipsGst(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	p := seedProduct(t, mem, "SKU-A", "100", "18", 10)
	noGst := false
	sale, err := svc.CreateSale(ctx, CreateSaleInput{IsGstInvoice: &noGst, CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	sale, err = svc.AddSaleItem(ctx, sale.ID, p.ID, 2)
	if err != nil {
		t.Fatalf("AddSaleItem: %v", err)
	}
	if !sale.GstAmount.IsZero() {
		t.Errorf("gst = %s, want 0 on non-gst invoice", sale.GstAmount)
	}
	if !sale.FinalAmount.Equal(dec("200")) {
		t.Errorf("final = %s, want 200", sale.FinalAmount)
	}
}

func TestInvoiceNumberCollision(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	if _, err := svc.CreateSale(ctx, CreateSaleInput{CreatedBy: 1}); err != nil {
		t.Fatalf("first CreateSale: %v", err)
	}
	_, err := svc.CreateSale(ctx, CreateSaleInput{CreatedBy: 1})
	if !apperr.IsKind(err, apperr.KindDuplicateKey) {
		t.Fatalf("got %v, want duplicate key", err)
	}
}

func TestAddPurchaseItem(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)
	ctx := context.Background()

	p := seedProduct(t, mem, "SKU-A", "100", "18", 2)
	supplier := &models.Supplier{Name: "Acme Traders"}
	if err := mem.CreateSupplier(ctx, supplier); err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	purchase, err := svc.CreatePurchase(ctx, CreatePurchaseInput{SupplierID: supplier.ID, CreatedBy: 1})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if !strings.HasPrefix(purchase.InvoiceNumber, "PUR") {
		t.Errorf("invoice number %q should have PUR prefix", purchase.InvoiceNumber)
	}

	purchase, err = svc.AddPurchaseItem(ctx, purchase.ID, p.ID, 10)
	if err != nil {
		t.Fatalf("AddPurchaseItem: %v", err)
	}

	got, _ := mem.ProductByID(ctx, p.ID)
	if got.StockQuantity != 12 {
		t.Errorf("stock = %d, want 12", got.StockQuantity)
	}
	// 10 * cost 40 = 400, gst 18% = 72
	if !purchase.TotalAmount.Equal(dec("400")) {
		t.Errorf("subtotal = %s, want 400", purchase.TotalAmount)
	}
	if !purchase.FinalAmount.Equal(dec("472")) {
		t.Errorf("final = %s, want 472", purchase.FinalAmount)
	}
}

func TestCreatePurchaseUnknownSupplier(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewPOSService(mem)

	_, err := svc.CreatePurchase(context.Background(), CreatePurchaseInput{SupplierID: 42})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}
