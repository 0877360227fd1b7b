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

func TestCreateProductDefaults(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem, nil)

	p, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:         "Masala Chips",
		SKU:          "CHIP-1",
		Category:     "snacks",
		CostPrice:    dec("40"),
		SellingPrice: dec("100"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.StockQuantity != 0 {
		t.Errorf("stock = %d, want default 0", p.StockQuantity)
	}
	if p.MinStockLevel != 10 {
		t.Errorf("min stock level = %d, want default 10", p.MinStockLevel)
	}
	if !p.GstRate.Equal(dec("18")) {
		t.Errorf("gst rate = %s, want default 18", p.GstRate)
	}
}

func TestCreateProductValidation(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem, nil)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductInput{Name: "No SKU", Category: "snacks"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem, nil)
	ctx := context.Background()

	in := ProductInput{
		Name: "Masala Chips", SKU: "CHIP-1", Category: "snacks",
		CostPrice: dec("40"), SellingPrice: dec("100"),
	}
	if _, err := svc.CreateProduct(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateProduct(ctx, in)
	if !apperr.IsKind(err, apperr.KindDuplicateKey) {
		t.Fatalf("got %v, want duplicate key", err)
	}
}

func TestLowStockProducts(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem, nil)
	ctx := context.Background()

	low := 3
	min := 5
	if _, err := svc.CreateProduct(ctx, ProductInput{
		Name: "Low", SKU: "LOW-1", Category: "snacks",
		CostPrice: dec("1"), SellingPrice: dec("2"),
		StockQuantity: &low, MinStockLevel: &min,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	high := 50
	if _, err := svc.CreateProduct(ctx, ProductInput{
		Name: "High", SKU: "HIGH-1", Category: "snacks",
		CostPrice: dec("1"), SellingPrice: dec("2"),
		StockQuantity: &high, MinStockLevel: &min,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.LowStockProducts(ctx)
	if err != nil {
		t.Fatalf("LowStockProducts: %v", err)
	}
	if len(got) != 1 || got[0].SKU != "LOW-1" {
		t.Fatalf("got %d low-stock products, want just LOW-1", len(got))
	}
}

func TestDeleteVanRules(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem, nil)
	ctx := context.Background()

	van, err := svc.CreateVan(ctx, VanInput{
		Name: "Van 1", DriverName: "Ravi", Phone: "9000000001", LicenseNumber: "KA-01-1234",
	})
	if err != nil {
		t.Fatalf("CreateVan: %v", err)
	}

	// unused van deletes fine
	if err := svc.DeleteVan(ctx, van.ID); err != nil {
		t.Fatalf("DeleteVan: %v", err)
	}

	if err := svc.DeleteVan(ctx, van.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("second delete: got %v, want not found", err)
	}

	// a van with a load form refuses deletion
	van2, err := svc.CreateVan(ctx, VanInput{
		Name: "Van 2", DriverName: "Suresh", Phone: "9000000002", LicenseNumber: "KA-01-5678",
	})
	if err != nil {
		t.Fatalf("CreateVan: %v", err)
	}
	form := &models.LoadForm{
		FormType: "in", VanID: van2.ID, ProductID: 1, Quantity: 5,
		Date: time.Now(), CreatedBy: 1,
	}
	if err := mem.CreateLoadForm(ctx, form); err != nil {
		t.Fatalf("CreateLoadForm: %v", err)
	}
	if err := svc.DeleteVan(ctx, van2.ID); !apperr.IsKind(err, apperr.KindInvalidOperation) {
		t.Fatalf("got %v, want invalid operation", err)
	}
	if _, err := mem.VanByID(ctx, van2.ID); err != nil {
		t.Fatalf("van should still exist: %v", err)
	}
}

func TestCreateVanValidation(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem, nil)

	_, err := svc.CreateVan(context.Background(), VanInput{Name: "Van 1"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestCreateCustomerAndSupplier(t *testing.T) {
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem, nil)
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, CustomerInput{}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("nameless customer: got %v, want validation error", err)
	}

	phone := "9000000001"
	c, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Kirana Store", Phone: &phone})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if c.ID == 0 {
		t.Error("customer should have an id")
	}

	contact := "Anil"
	sp, err := svc.CreateSupplier(ctx, SupplierInput{Name: "Acme Traders", ContactPerson: &contact})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	if sp.ContactPerson == nil || *sp.ContactPerson != "Anil" {
		t.Error("contact person not stored")
	}
}
