package handler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/billing"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/ledger"
	"vanpos-system/internal/store"
)

// POSService is the transaction engine for sales and purchases. Both
// document types follow the same shape: create an empty header, then
// add lines one at a time; each added line adjusts stock and recomputes
// the header totals from the full line set inside one transaction.
type POSService struct {
	store store.Store
	now   func() time.Time
}

func NewPOSService(st store.Store) *POSService {
	return &POSService{store: st, now: time.Now}
}

func invoiceNumber(prefix string, at time.Time) string {
	return prefix + at.Format("20060102150405")
}

type CreateSaleInput struct {
	CustomerID     *int64          `json:"customer_id"`
	VanID          *int64          `json:"van_id"`
	PaymentMethod  string          `json:"payment_method"`
	IsGstInvoice   *bool           `json:"is_gst_invoice"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CreatedBy      int64           `json:"-"`
}

func validPaymentMethod(m string) bool {
	switch m {
	case models.PaymentCash, models.PaymentCard, models.PaymentUPI:
		return true
	}
	return false
}

// CreateSale opens a sale with no lines and zero totals. CustomerID is
// nil for a walk-in customer.
func (s *POSService) CreateSale(ctx context.Context, in CreateSaleInput) (*models.Sale, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}
	if !validPaymentMethod(in.PaymentMethod) {
		return nil, apperr.Newf(apperr.KindValidation, "invalid payment method %q", in.PaymentMethod)
	}
	if in.DiscountAmount.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "discount must not be negative")
	}
	if in.CustomerID != nil {
		if _, err := s.store.CustomerByID(ctx, *in.CustomerID); err != nil {
			return nil, err
		}
	}
	if in.VanID != nil {
		if _, err := s.store.VanByID(ctx, *in.VanID); err != nil {
			return nil, err
		}
	}

	gstInvoice := true
	if in.IsGstInvoice != nil {
		gstInvoice = *in.IsGstInvoice
	}

	now := s.now()
	sale := &models.Sale{
		InvoiceNumber:  invoiceNumber("INV", now),
		CustomerID:     in.CustomerID,
		VanID:          in.VanID,
		TotalAmount:    decimal.Zero,
		GstAmount:      decimal.Zero,
		DiscountAmount: in.DiscountAmount,
		FinalAmount:    billing.Compute(nil, gstInvoice, in.DiscountAmount).Final,
		PaymentMethod:  in.PaymentMethod,
		IsGstInvoice:   gstInvoice,
		Date:           now,
		CreatedBy:      in.CreatedBy,
	}
	if err := s.store.CreateSale(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// AddSaleItem appends one line to the sale. The unit price and GST rate
// are snapshots of the product at this moment; later catalog edits do
// not touch recorded lines. The sale header is loaded under a row lock
// so concurrent adds to the same sale serialize and neither recompute
// loses the other's line; stock is checked and deducted under the
// product's row lock, and the whole step rolls back if any part fails.
func (s *POSService) AddSaleItem(ctx context.Context, saleID, productID int64, quantity int) (*models.Sale, error) {
	var sale *models.Sale
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		var err error
		sale, err = tx.SaleForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		product, err := tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := ledger.ApplySaleLine(product, quantity); err != nil {
			return err
		}
		if err := tx.SaveProduct(ctx, product); err != nil {
			return err
		}

		item := &models.SaleItem{
			SaleID:     saleID,
			ProductID:  productID,
			Quantity:   quantity,
			UnitPrice:  product.SellingPrice,
			TotalPrice: billing.LineTotal(product.SellingPrice, quantity),
			GstRate:    product.GstRate,
		}
		if err := tx.CreateSaleItem(ctx, item); err != nil {
			return err
		}

		items, err := tx.ListSaleItems(ctx, saleID)
		if err != nil {
			return err
		}
		lines := make([]billing.Line, len(items))
		for i, it := range items {
			lines[i] = billing.Line{TotalPrice: it.TotalPrice, GstRate: it.GstRate}
		}
		totals := billing.Compute(lines, sale.IsGstInvoice, sale.DiscountAmount)
		sale.TotalAmount = totals.Subtotal
		sale.GstAmount = totals.Gst
		sale.FinalAmount = totals.Final
		sale.Items = items
		return tx.SaveSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *POSService) GetSale(ctx context.Context, id int64) (*models.Sale, error) {
	return s.store.SaleByID(ctx, id)
}

func (s *POSService) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.store.ListSales(ctx)
}

// ProductsInStock lists what can currently be sold.
func (s *POSService) ProductsInStock(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProductsInStock(ctx)
}

// --- purchases ---

type CreatePurchaseInput struct {
	SupplierID int64 `json:"supplier_id"`
	CreatedBy  int64 `json:"-"`
}

func (s *POSService) CreatePurchase(ctx context.Context, in CreatePurchaseInput) (*models.Purchase, error) {
	if _, err := s.store.SupplierByID(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	now := s.now()
	purchase := &models.Purchase{
		InvoiceNumber: invoiceNumber("PUR", now),
		SupplierID:    in.SupplierID,
		TotalAmount:   decimal.Zero,
		GstAmount:     decimal.Zero,
		FinalAmount:   decimal.Zero,
		Date:          now,
		CreatedBy:     in.CreatedBy,
	}
	if err := s.store.CreatePurchase(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// AddPurchaseItem mirrors AddSaleItem with the stock movement
// reversed: received quantity is added to stock and the line is costed
// at the product's current cost price.
func (s *POSService) AddPurchaseItem(ctx context.Context, purchaseID, productID int64, quantity int) (*models.Purchase, error) {
	var purchase *models.Purchase
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		var err error
		purchase, err = tx.PurchaseForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}

		product, err := tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyPurchaseLine(product, quantity); err != nil {
			return err
		}
		if err := tx.SaveProduct(ctx, product); err != nil {
			return err
		}

		item := &models.PurchaseItem{
			PurchaseID: purchaseID,
			ProductID:  productID,
			Quantity:   quantity,
			UnitCost:   product.CostPrice,
			TotalCost:  billing.LineTotal(product.CostPrice, quantity),
			GstRate:    product.GstRate,
		}
		if err := tx.CreatePurchaseItem(ctx, item); err != nil {
			return err
		}

		items, err := tx.ListPurchaseItems(ctx, purchaseID)
		if err != nil {
			return err
		}
		lines := make([]billing.Line, len(items))
		for i, it := range items {
			lines[i] = billing.Line{TotalPrice: it.TotalCost, GstRate: it.GstRate}
		}
		totals := billing.Compute(lines, true, decimal.Zero)
		purchase.TotalAmount = totals.Subtotal
		purchase.GstAmount = totals.Gst
		purchase.FinalAmount = totals.Final
		purchase.Items = items
		return tx.SavePurchase(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *POSService) GetPurchase(ctx context.Context, id int64) (*models.Purchase, error) {
	return s.store.PurchaseByID(ctx, id)
}

func (s *POSService) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.store.ListPurchases(ctx)
}
