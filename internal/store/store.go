// Package store defines the persistence boundary used by the domain
// services. The gorm-backed implementation lives in internal/database;
// an in-memory implementation for tests lives in internal/storetest.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"vanpos-system/internal/database/models"
)

// VanSales is one row of the per-van monthly sales aggregation.
type VanSales struct {
	VanID      int64
	VanName    string
	TotalSales decimal.Decimal
	OrderCount int64
}

// Store is the repository and unit-of-work boundary. Lookup methods
// return a KindNotFound error when the row is missing; create methods
// return KindDuplicateKey on unique-index collisions. Methods returning
// entities return detached copies; mutations are persisted only through
// the Save/Create methods.
type Store interface {
	// WithinTx runs fn against a transactional view of the store. All
	// writes made through the passed Store commit together or not at
	// all.
	WithinTx(ctx context.Context, fn func(Store) error) error

	// products
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	ProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	// ProductForUpdate loads the product under a row lock so that
	// concurrent stock mutations serialize per product. Only meaningful
	// inside WithinTx.
	ProductForUpdate(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsInStock(ctx context.Context) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	CountLowStockProducts(ctx context.Context) (int64, error)

	// customers and suppliers
	CreateCustomer(ctx context.Context, c *models.Customer) error
	CustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	SupplierByID(ctx context.Context, id int64) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)

	// vans
	CreateVan(ctx context.Context, v *models.Van) error
	SaveVan(ctx context.Context, v *models.Van) error
	VanByID(ctx context.Context, id int64) (*models.Van, error)
	ListVans(ctx context.Context) ([]models.Van, error)
	DeleteVan(ctx context.Context, id int64) error
	// VanHasRecords reports whether the van owns any sales or load forms.
	VanHasRecords(ctx context.Context, id int64) (bool, error)

	// users
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	// load forms
	CreateLoadForm(ctx context.Context, f *models.LoadForm) error
	ListLoadForms(ctx context.Context) ([]models.LoadForm, error)
	ListLoadFormsForMonth(ctx context.Context, year int, month time.Month) ([]models.LoadForm, error)

	// sales
	CreateSale(ctx context.Context, s *models.Sale) error
	SaveSale(ctx context.Context, s *models.Sale) error
	SaleByID(ctx context.Context, id int64) (*models.Sale, error)
	// SaleForUpdate loads the sale header under a row lock. Line
	// mutations and total recomputation for a sale serialize on this
	// lock, as do return-cap checks against the sale. Only meaningful
	// inside WithinTx.
	SaleForUpdate(ctx context.Context, id int64) (*models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	RecentSales(ctx context.Context, limit int) ([]models.Sale, error)
	CreateSaleItem(ctx context.Context, item *models.SaleItem) error
	ListSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error)
	SaleItemForProduct(ctx context.Context, saleID, productID int64) (*models.SaleItem, error)
	// SoldQuantityForSale sums the quantity of productID across every
	// line of saleID; a product may appear on more than one line.
	SoldQuantityForSale(ctx context.Context, saleID, productID int64) (int, error)
	SalesTotalForDay(ctx context.Context, day time.Time) (decimal.Decimal, error)
	SalesTotal(ctx context.Context) (decimal.Decimal, error)
	VanSalesForMonth(ctx context.Context, year int, month time.Month) ([]VanSales, error)

	// purchases
	CreatePurchase(ctx context.Context, p *models.Purchase) error
	SavePurchase(ctx context.Context, p *models.Purchase) error
	PurchaseByID(ctx context.Context, id int64) (*models.Purchase, error)
	// PurchaseForUpdate mirrors SaleForUpdate for purchase headers.
	PurchaseForUpdate(ctx context.Context, id int64) (*models.Purchase, error)
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	CreatePurchaseItem(ctx context.Context, item *models.PurchaseItem) error
	ListPurchaseItems(ctx context.Context, purchaseID int64) ([]models.PurchaseItem, error)
	PurchasesTotal(ctx context.Context) (decimal.Decimal, error)

	// returns
	CreateReturn(ctx context.Context, r *models.Return) error
	SaveReturn(ctx context.Context, r *models.Return) error
	ReturnByID(ctx context.Context, id int64) (*models.Return, error)
	ListReturns(ctx context.Context) ([]models.Return, error)
	CreateReturnItem(ctx context.Context, item *models.ReturnItem) error
	ListReturnItems(ctx context.Context, returnID int64) ([]models.ReturnItem, error)
	// ReturnedQuantityForSale sums the quantity of productID already
	// returned across every return referencing saleID.
	ReturnedQuantityForSale(ctx context.Context, saleID, productID int64) (int, error)
}
