package database

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/store"
)

// Store is the gorm-backed implementation of store.Store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

func (s *Store) WithinTx(ctx context.Context, fn func(store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Newf(apperr.KindNotFound, "%s not found", entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Newf(apperr.KindDuplicateKey, "%s already exists", entity)
	default:
		return apperr.Wrap(apperr.KindInternal, "database error", err)
	}
}

// --- products ---

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(p).Error, "product")
}

func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Save(p).Error, "product")
}

func (s *Store) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (s *Store) ProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (s *Store) ProductForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, translate(err, "product")
	}
	return products, nil
}

func (s *Store) ListProductsInStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("stock_quantity > 0").
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, translate(err, "product")
	}
	return products, nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, translate(err, "product")
	}
	return count, nil
}

func (s *Store) CountLowStockProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("stock_quantity <= min_stock_level").
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "product")
	}
	return count, nil
}

// --- customers and suppliers ---

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return translate(s.db.WithContext(ctx).Create(c).Error, "customer")
}

func (s *Store) CustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "customer")
	}
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Order("name").Find(&customers).Error; err != nil {
		return nil, translate(err, "customer")
	}
	return customers, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sp *models.Supplier) error {
	return translate(s.db.WithContext(ctx).Create(sp).Error, "supplier")
}

func (s *Store) SupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var sp models.Supplier
	if err := s.db.WithContext(ctx).First(&sp, id).Error; err != nil {
		return nil, translate(err, "supplier")
	}
	return &sp, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := s.db.WithContext(ctx).Order("name").Find(&suppliers).Error; err != nil {
		return nil, translate(err, "supplier")
	}
	return suppliers, nil
}

// --- vans ---

func (s *Store) CreateVan(ctx context.Context, v *models.Van) error {
	return translate(s.db.WithContext(ctx).Create(v).Error, "van")
}

func (s *Store) SaveVan(ctx context.Context, v *models.Van) error {
	return translate(s.db.WithContext(ctx).Save(v).Error, "van")
}

func (s *Store) VanByID(ctx context.Context, id int64) (*models.Van, error) {
	var v models.Van
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err, "van")
	}
	return &v, nil
}

func (s *Store) ListVans(ctx context.Context) ([]models.Van, error) {
	var vans []models.Van
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&vans).Error; err != nil {
		return nil, translate(err, "van")
	}
	return vans, nil
}

func (s *Store) DeleteVan(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Van{}, id)
	if res.Error != nil {
		return translate(res.Error, "van")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "van not found")
	}
	return nil
}

func (s *Store) VanHasRecords(ctx context.Context, id int64) (bool, error) {
	var sales int64
	err := s.db.WithContext(ctx).Model(&models.Sale{}).
		Where("van_id = ?", id).
		Count(&sales).Error
	if err != nil {
		return false, translate(err, "sale")
	}
	if sales > 0 {
		return true, nil
	}

	var loads int64
	err = s.db.WithContext(ctx).Model(&models.LoadForm{}).
		Where("van_id = ?", id).
		Count(&loads).Error
	if err != nil {
		return false, translate(err, "load form")
	}
	return loads > 0, nil
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, "user")
}

func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error, "user")
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// --- load forms ---

func (s *Store) CreateLoadForm(ctx context.Context, f *models.LoadForm) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error, "load form")
}

func (s *Store) ListLoadForms(ctx context.Context) ([]models.LoadForm, error) {
	var forms []models.LoadForm
	err := s.db.WithContext(ctx).
		Preload("Van").
		Preload("Product").
		Order("date DESC").
		Find(&forms).Error
	if err != nil {
		return nil, translate(err, "load form")
	}
	return forms, nil
}

func (s *Store) ListLoadFormsForMonth(ctx context.Context, year int, month time.Month) ([]models.LoadForm, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var forms []models.LoadForm
	err := s.db.WithContext(ctx).
		Preload("Van").
		Preload("Product").
		Where("date >= ? AND date < ?", start, end).
		Order("date DESC").
		Find(&forms).Error
	if err != nil {
		return nil, translate(err, "load form")
	}
	return forms, nil
}

// --- sales ---

func (s *Store) CreateSale(ctx context.Context, sale *models.Sale) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error, "sale")
}

func (s *Store) SaveSale(ctx context.Context, sale *models.Sale) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error, "sale")
}

func (s *Store) SaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Van").
		Preload("Items.Product").
		First(&sale, id).Error
	if err != nil {
		return nil, translate(err, "sale")
	}
	return &sale, nil
}

// SaleForUpdate skips the preloads of SaleByID; only the locked header
// row matters here.
func (s *Store) SaleForUpdate(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, id).Error
	if err != nil {
		return nil, translate(err, "sale")
	}
	return &sale, nil
}

func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Van").
		Order("date DESC").
		Find(&sales).Error
	if err != nil {
		return nil, translate(err, "sale")
	}
	return sales, nil
}

func (s *Store) RecentSales(ctx context.Context, limit int) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Van").
		Order("date DESC").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, translate(err, "sale")
	}
	return sales, nil
}

func (s *Store) CreateSaleItem(ctx context.Context, item *models.SaleItem) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error, "sale item")
}

func (s *Store) ListSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("sale_id = ?", saleID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "sale item")
	}
	return items, nil
}

func (s *Store) SaleItemForProduct(ctx context.Context, saleID, productID int64) (*models.SaleItem, error) {
	var item models.SaleItem
	err := s.db.WithContext(ctx).
		Where("sale_id = ? AND product_id = ?", saleID, productID).
		First(&item).Error
	if err != nil {
		return nil, translate(err, "sale item")
	}
	return &item, nil
}

func (s *Store) SoldQuantityForSale(ctx context.Context, saleID, productID int64) (int, error) {
	var out struct{ Total int }
	err := s.db.WithContext(ctx).Model(&models.SaleItem{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("sale_id = ? AND product_id = ?", saleID, productID).
		Scan(&out).Error
	if err != nil {
		return 0, translate(err, "sale item")
	}
	return out.Total, nil
}

func (s *Store) SalesTotalForDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var out struct{ Total decimal.Decimal }
	err := s.db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(final_amount), 0) AS total").
		Where("date >= ? AND date < ?", start, end).
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, translate(err, "sale")
	}
	return out.Total, nil
}

func (s *Store) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	err := s.db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(final_amount), 0) AS total").
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, translate(err, "sale")
	}
	return out.Total, nil
}

func (s *Store) VanSalesForMonth(ctx context.Context, year int, month time.Month) ([]store.VanSales, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []store.VanSales
	err := s.db.WithContext(ctx).Model(&models.Sale{}).
		Select("vans.id AS van_id, vans.name AS van_name, COALESCE(SUM(sales.final_amount), 0) AS total_sales, COUNT(sales.id) AS order_count").
		Joins("JOIN vans ON vans.id = sales.van_id").
		Where("sales.date >= ? AND sales.date < ?", start, end).
		Group("vans.id, vans.name").
		Order("total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "sale")
	}
	return rows, nil
}

// --- purchases ---

func (s *Store) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error, "purchase")
}

func (s *Store) SavePurchase(ctx context.Context, p *models.Purchase) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error, "purchase")
}

func (s *Store) PurchaseByID(ctx context.Context, id int64) (*models.Purchase, error) {
	var p models.Purchase
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items.Product").
		First(&p, id).Error
	if err != nil {
		return nil, translate(err, "purchase")
	}
	return &p, nil
}

func (s *Store) PurchaseForUpdate(ctx context.Context, id int64) (*models.Purchase, error) {
	var p models.Purchase
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		return nil, translate(err, "purchase")
	}
	return &p, nil
}

func (s *Store) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Order("date DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, translate(err, "purchase")
	}
	return purchases, nil
}

func (s *Store) CreatePurchaseItem(ctx context.Context, item *models.PurchaseItem) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error, "purchase item")
}

func (s *Store) ListPurchaseItems(ctx context.Context, purchaseID int64) ([]models.PurchaseItem, error) {
	var items []models.PurchaseItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("purchase_id = ?", purchaseID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "purchase item")
	}
	return items, nil
}

func (s *Store) PurchasesTotal(ctx context.Context) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	err := s.db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COALESCE(SUM(final_amount), 0) AS total").
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, translate(err, "purchase")
	}
	return out.Total, nil
}

// --- returns ---

func (s *Store) CreateReturn(ctx context.Context, r *models.Return) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error, "return")
}

func (s *Store) SaveReturn(ctx context.Context, r *models.Return) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(r).Error, "return")
}

func (s *Store) ReturnByID(ctx context.Context, id int64) (*models.Return, error) {
	var r models.Return
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Van").
		Preload("Items.Product").
		First(&r, id).Error
	if err != nil {
		return nil, translate(err, "return")
	}
	return &r, nil
}

func (s *Store) ListReturns(ctx context.Context) ([]models.Return, error) {
	var returns []models.Return
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Van").
		Order("date DESC").
		Find(&returns).Error
	if err != nil {
		return nil, translate(err, "return")
	}
	return returns, nil
}

func (s *Store) CreateReturnItem(ctx context.Context, item *models.ReturnItem) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error, "return item")
}

func (s *Store) ListReturnItems(ctx context.Context, returnID int64) ([]models.ReturnItem, error) {
	var items []models.ReturnItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("return_id = ?", returnID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "return item")
	}
	return items, nil
}

func (s *Store) ReturnedQuantityForSale(ctx context.Context, saleID, productID int64) (int, error) {
	var out struct{ Total int }
	err := s.db.WithContext(ctx).Model(&models.ReturnItem{}).
		Select("COALESCE(SUM(return_items.quantity), 0) AS total").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Where("returns.sale_id = ? AND return_items.product_id = ?", saleID, productID).
		Scan(&out).Error
	if err != nil {
		return 0, translate(err, "return item")
	}
	return out.Total, nil
}
