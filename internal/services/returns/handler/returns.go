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

// ReturnsService handles customer returns against recorded sales. A
// product can only come back if the sale actually contained it, and
// never in a larger quantity than the sale sold minus what earlier
// returns against the same sale already took back.
type ReturnsService struct {
	store store.Store
	now   func() time.Time
}

func NewReturnsService(st store.Store) *ReturnsService {
	return &ReturnsService{store: st, now: time.Now}
}

type CreateReturnInput struct {
	SaleID    int64  `json:"sale_id"`
	Reason    string `json:"reason"`
	CreatedBy int64  `json:"-"`
}

// CreateReturn opens a return against a sale, inheriting the sale's
// customer and van.
func (s *ReturnsService) CreateReturn(ctx context.Context, in CreateReturnInput) (*models.Return, error) {
	if in.Reason == "" {
		return nil, apperr.New(apperr.KindValidation, "missing required fields: reason")
	}
	sale, err := s.store.SaleByID(ctx, in.SaleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ret := &models.Return{
		ReturnNumber: "RET" + now.Format("20060102150405"),
		SaleID:       sale.ID,
		CustomerID:   sale.CustomerID,
		VanID:        sale.VanID,
		TotalAmount:  decimal.Zero,
		GstAmount:    decimal.Zero,
		FinalAmount:  decimal.Zero,
		Reason:       in.Reason,
		Date:         now,
		CreatedBy:    in.CreatedBy,
	}
	if err := s.store.CreateReturn(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// AddReturnItem puts quantity of a product back into stock and prices
// the line from the product's first sale line, not the current catalog.
// The cap counts every sale line of the product. GST on the return
// follows the original sale's GST flag.
func (s *ReturnsService) AddReturnItem(ctx context.Context, returnID, productID int64, quantity int) (*models.Return, error) {
	if quantity <= 0 {
		return nil, apperr.New(apperr.KindValidation, "quantity must be greater than 0")
	}

	var ret *models.Return
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		var err error
		ret, err = tx.ReturnByID(ctx, returnID)
		if err != nil {
			return err
		}
		// The sale row is the serialization point for the cap: every
		// return against this sale locks it before reading the sold
		// and already-returned quantities, so two concurrent returns
		// cannot both pass the check on the same remainder.
		sale, err := tx.SaleForUpdate(ctx, ret.SaleID)
		if err != nil {
			return err
		}

		saleItem, err := tx.SaleItemForProduct(ctx, ret.SaleID, productID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return apperr.New(apperr.KindInvalidOperation, "product was not part of the original sale")
			}
			return err
		}

		sold, err := tx.SoldQuantityForSale(ctx, ret.SaleID, productID)
		if err != nil {
			return err
		}
		returned, err := tx.ReturnedQuantityForSale(ctx, ret.SaleID, productID)
		if err != nil {
			return err
		}
		remaining := sold - returned
		if quantity > remaining {
			return apperr.Newf(apperr.KindQuantityExceeded,
				"return quantity %d exceeds remaining %d for this sale", quantity, remaining)
		}

		product, err := tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyReturnLine(product, quantity); err != nil {
			return err
		}
		if err := tx.SaveProduct(ctx, product); err != nil {
			return err
		}

		item := &models.ReturnItem{
			ReturnID:   returnID,
			ProductID:  productID,
			Quantity:   quantity,
			UnitPrice:  saleItem.UnitPrice,
			TotalPrice: billing.LineTotal(saleItem.UnitPrice, quantity),
			GstRate:    saleItem.GstRate,
		}
		if err := tx.CreateReturnItem(ctx, item); err != nil {
			return err
		}

		items, err := tx.ListReturnItems(ctx, returnID)
		if err != nil {
			return err
		}
		lines := make([]billing.Line, len(items))
		for i, it := range items {
			lines[i] = billing.Line{TotalPrice: it.TotalPrice, GstRate: it.GstRate}
		}
		totals := billing.Compute(lines, sale.IsGstInvoice, decimal.Zero)
		ret.TotalAmount = totals.Subtotal
		ret.GstAmount = totals.Gst
		ret.FinalAmount = totals.Final
		ret.Items = items
		return tx.SaveReturn(ctx, ret)
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// ReturnableItem is one sale line that still has quantity left to
// return.
type ReturnableItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Sold        int             `json:"sold"`
	Returned    int             `json:"returned"`
	Remaining   int             `json:"remaining"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ReturnableItems lists the products of the return's sale that still
// have unreturned quantity. A product sold on more than one line shows
// up once, with the quantities summed and the first line's price.
func (s *ReturnsService) ReturnableItems(ctx context.Context, returnID int64) ([]ReturnableItem, error) {
	ret, err := s.store.ReturnByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListSaleItems(ctx, ret.SaleID)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(items))
	entries := make([]ReturnableItem, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			entries[i].Sold += item.Quantity
			continue
		}
		entry := ReturnableItem{
			ProductID: item.ProductID,
			Sold:      item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.Product != nil {
			entry.ProductName = item.Product.Name
		}
		index[item.ProductID] = len(entries)
		entries = append(entries, entry)
	}

	returnable := make([]ReturnableItem, 0, len(entries))
	for _, entry := range entries {
		returned, err := s.store.ReturnedQuantityForSale(ctx, ret.SaleID, entry.ProductID)
		if err != nil {
			return nil, err
		}
		entry.Returned = returned
		entry.Remaining = entry.Sold - returned
		if entry.Remaining <= 0 {
			continue
		}
		returnable = append(returnable, entry)
	}
	return returnable, nil
}

func (s *ReturnsService) GetReturn(ctx context.Context, id int64) (*models.Return, error) {
	return s.store.ReturnByID(ctx, id)
}

func (s *ReturnsService) ListReturns(ctx context.Context) ([]models.Return, error) {
	return s.store.ListReturns(ctx)
}
