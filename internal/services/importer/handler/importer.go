package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/store"
)

// ImporterService bulk-creates master records from already-parsed rows.
// Row validation is per row: a bad row is recorded and skipped, the
// rest of the batch goes on. All accepted rows of a batch commit in one
// transaction. Row numbers in error messages are 1-based and offset by
// one for a header row, matching how the rows are counted in the sheet
// they came from.
type ImporterService struct {
	store store.Store
}

func NewImporterService(st store.Store) *ImporterService {
	return &ImporterService{store: st}
}

type Result struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}

func rowError(index int, format string, args ...interface{}) string {
	return fmt.Sprintf("row %d: %s", index+2, fmt.Sprintf(format, args...))
}

type ProductRow struct {
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Category      string           `json:"category"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
	StockQuantity *int             `json:"stock_quantity"`
	MinStockLevel *int             `json:"min_stock_level"`
	GstRate       *decimal.Decimal `json:"gst_rate"`
}

func (r ProductRow) validate() error {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.SKU == "" {
		missing = append(missing, "sku")
	}
	if r.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if !r.CostPrice.IsPositive() || !r.SellingPrice.IsPositive() {
		return fmt.Errorf("cost_price and selling_price must be greater than 0")
	}
	return nil
}

func (s *ImporterService) ImportProducts(ctx context.Context, rows []ProductRow) (*Result, error) {
	res := &Result{Errors: []string{}}
	seen := make(map[string]bool)
	var accepted []*models.Product

	for i, row := range rows {
		if err := row.validate(); err != nil {
			res.Errors = append(res.Errors, rowError(i, "%v", err))
			continue
		}
		if seen[row.SKU] {
			res.Errors = append(res.Errors, rowError(i, "duplicate SKU %q in batch", row.SKU))
			continue
		}
		if _, err := s.store.ProductBySKU(ctx, row.SKU); err == nil {
			res.Errors = append(res.Errors, rowError(i, "SKU %q already exists", row.SKU))
			continue
		} else if !apperr.IsKind(err, apperr.KindNotFound) {
			return nil, err
		}
		seen[row.SKU] = true

		p := &models.Product{
			Name:          row.Name,
			SKU:           row.SKU,
			Category:      row.Category,
			CostPrice:     row.CostPrice,
			SellingPrice:  row.SellingPrice,
			MinStockLevel: 10,
			GstRate:       decimal.NewFromInt(18),
		}
		if row.StockQuantity != nil {
			p.StockQuantity = *row.StockQuantity
		}
		if row.MinStockLevel != nil {
			p.MinStockLevel = *row.MinStockLevel
		}
		if row.GstRate != nil {
			p.GstRate = *row.GstRate
		}
		accepted = append(accepted, p)
	}

	if len(accepted) > 0 {
		err := s.store.WithinTx(ctx, func(tx store.Store) error {
			for _, p := range accepted {
				if err := tx.CreateProduct(ctx, p); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	res.SuccessCount = len(accepted)
	res.ErrorCount = len(res.Errors)
	return res, nil
}

type CustomerRow struct {
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	GstNumber *string `json:"gst_number"`
}

func (s *ImporterService) ImportCustomers(ctx context.Context, rows []CustomerRow) (*Result, error) {
	res := &Result{Errors: []string{}}
	var accepted []*models.Customer

	for i, row := range rows {
		if row.Name == "" {
			res.Errors = append(res.Errors, rowError(i, "missing required fields: name"))
			continue
		}
		accepted = append(accepted, &models.Customer{
			Name:      row.Name,
			Phone:     row.Phone,
			Email:     row.Email,
			Address:   row.Address,
			GstNumber: row.GstNumber,
		})
	}

	if len(accepted) > 0 {
		err := s.store.WithinTx(ctx, func(tx store.Store) error {
			for _, c := range accepted {
				if err := tx.CreateCustomer(ctx, c); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	res.SuccessCount = len(accepted)
	res.ErrorCount = len(res.Errors)
	return res, nil
}

type SupplierRow struct {
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	GstNumber     *string `json:"gst_number"`
}

func (s *ImporterService) ImportSuppliers(ctx context.Context, rows []SupplierRow) (*Result, error) {
	res := &Result{Errors: []string{}}
	var accepted []*models.Supplier

	for i, row := range rows {
		if row.Name == "" {
			res.Errors = append(res.Errors, rowError(i, "missing required fields: name"))
			continue
		}
		accepted = append(accepted, &models.Supplier{
			Name:          row.Name,
			ContactPerson: row.ContactPerson,
			Phone:         row.Phone,
			Email:         row.Email,
			Address:       row.Address,
			GstNumber:     row.GstNumber,
		})
	}

	if len(accepted) > 0 {
		err := s.store.WithinTx(ctx, func(tx store.Store) error {
			for _, sp := range accepted {
				if err := tx.CreateSupplier(ctx, sp); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	res.SuccessCount = len(accepted)
	res.ErrorCount = len(res.Errors)
	return res, nil
}

type VanRow struct {
	Name          string `json:"name"`
	DriverName    string `json:"driver_name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
}

func (r VanRow) validate() error {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.DriverName == "" {
		missing = append(missing, "driver_name")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.LicenseNumber == "" {
		missing = append(missing, "license_number")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *ImporterService) ImportVans(ctx context.Context, rows []VanRow) (*Result, error) {
	res := &Result{Errors: []string{}}
	var accepted []*models.Van

	for i, row := range rows {
		if err := row.validate(); err != nil {
			res.Errors = append(res.Errors, rowError(i, "%v", err))
			continue
		}
		accepted = append(accepted, &models.Van{
			Name:          row.Name,
			DriverName:    row.DriverName,
			Phone:         row.Phone,
			LicenseNumber: row.LicenseNumber,
		})
	}

	if len(accepted) > 0 {
		err := s.store.WithinTx(ctx, func(tx store.Store) error {
			for _, v := range accepted {
				if err := tx.CreateVan(ctx, v); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	res.SuccessCount = len(accepted)
	res.ErrorCount = len(res.Errors)
	return res, nil
}
