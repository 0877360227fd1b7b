package handler

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/store"
)

const (
	productListCacheKey = "catalog:products"
	productCacheTTL     = 2 * time.Minute
)

// CatalogService manages the product catalog and the master records it
// references: customers, suppliers and vans.
type CatalogService struct {
	store store.Store
	redis *redis.Client
}

func NewCatalogService(st store.Store, rdb *redis.Client) *CatalogService {
	return &CatalogService{store: st, redis: rdb}
}

type ProductInput struct {
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Category      string           `json:"category"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
	StockQuantity *int             `json:"stock_quantity"`
	MinStockLevel *int             `json:"min_stock_level"`
	GstRate       *decimal.Decimal `json:"gst_rate"`
}

func (in ProductInput) validate() error {
	var missing []string
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.SKU == "" {
		missing = append(missing, "sku")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return apperr.Newf(apperr.KindValidation, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return apperr.New(apperr.KindValidation, "prices must not be negative")
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:          in.Name,
		SKU:           in.SKU,
		Category:      in.Category,
		CostPrice:     in.CostPrice,
		SellingPrice:  in.SellingPrice,
		MinStockLevel: 10,
		GstRate:       decimal.NewFromInt(18),
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.MinStockLevel != nil {
		p.MinStockLevel = *in.MinStockLevel
	}
	if in.GstRate != nil {
		p.GstRate = *in.GstRate
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateProductCache(ctx)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.SKU = in.SKU
	p.Category = in.Category
	p.CostPrice = in.CostPrice
	p.SellingPrice = in.SellingPrice
	if in.MinStockLevel != nil {
		p.MinStockLevel = *in.MinStockLevel
	}
	if in.GstRate != nil {
		p.GstRate = *in.GstRate
	}

	if err := s.store.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateProductCache(ctx)
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.ProductByID(ctx, id)
}

func (s *CatalogService) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return s.store.ProductBySKU(ctx, sku)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, productListCacheKey).Result(); err == nil {
			var products []models.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := s.redis.Set(ctx, productListCacheKey, data, productCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache product list: %v", err)
			}
		}
	}
	return products, nil
}

// LowStockProducts filters the catalog down to products at or below
// their minimum stock level.
func (s *CatalogService) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

func (s *CatalogService) invalidateProductCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, productListCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate product cache: %v", err)
	}
}

// --- customers ---

type CustomerInput struct {
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	GstNumber *string `json:"gst_number"`
}

func (s *CatalogService) CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if in.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "missing required fields: name")
	}
	c := &models.Customer{
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		GstNumber: in.GstNumber,
	}
	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// --- suppliers ---

type SupplierInput struct {
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	GstNumber     *string `json:"gst_number"`
}

func (s *CatalogService) CreateSupplier(ctx context.Context, in SupplierInput) (*models.Supplier, error) {
	if in.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "missing required fields: name")
	}
	sp := &models.Supplier{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		GstNumber:     in.GstNumber,
	}
	if err := s.store.CreateSupplier(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *CatalogService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

// --- vans ---

type VanInput struct {
	Name          string `json:"name"`
	DriverName    string `json:"driver_name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
}

func (in VanInput) validate() error {
	var missing []string
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.DriverName == "" {
		missing = append(missing, "driver_name")
	}
	if in.Phone == "" {
		missing = append(missing, "phone")
	}
	if in.LicenseNumber == "" {
		missing = append(missing, "license_number")
	}
	if len(missing) > 0 {
		return apperr.Newf(apperr.KindValidation, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *CatalogService) CreateVan(ctx context.Context, in VanInput) (*models.Van, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v := &models.Van{
		Name:          in.Name,
		DriverName:    in.DriverName,
		Phone:         in.Phone,
		LicenseNumber: in.LicenseNumber,
	}
	if err := s.store.CreateVan(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *CatalogService) UpdateVan(ctx context.Context, id int64, in VanInput) (*models.Van, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v, err := s.store.VanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Name = in.Name
	v.DriverName = in.DriverName
	v.Phone = in.Phone
	v.LicenseNumber = in.LicenseNumber
	if err := s.store.SaveVan(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *CatalogService) ListVans(ctx context.Context) ([]models.Van, error) {
	return s.store.ListVans(ctx)
}

// DeleteVan refuses to delete a van that already owns sales or load
// forms; those rows are part of the trading history.
func (s *CatalogService) DeleteVan(ctx context.Context, id int64) error {
	if _, err := s.store.VanByID(ctx, id); err != nil {
		return err
	}
	hasRecords, err := s.store.VanHasRecords(ctx, id)
	if err != nil {
		return err
	}
	if hasRecords {
		return apperr.New(apperr.KindInvalidOperation, "cannot delete van with existing sales or load records")
	}
	return s.store.DeleteVan(ctx, id)
}
