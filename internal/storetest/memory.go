// Package storetest provides an in-memory store.Store used by service
// tests. Entities are held by value, so everything handed out is a
// detached copy like the database-backed store returns.
package storetest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/store"
)

type Memory struct {
	nextID int64

	products  map[int64]models.Product
	customers map[int64]models.Customer
	suppliers map[int64]models.Supplier
	vans      map[int64]models.Van
	users     map[int64]models.User
	loadForms map[int64]models.LoadForm

	sales         map[int64]models.Sale
	saleItems     map[int64]models.SaleItem
	purchases     map[int64]models.Purchase
	purchaseItems map[int64]models.PurchaseItem
	returns       map[int64]models.Return
	returnItems   map[int64]models.ReturnItem
}

func NewMemory() *Memory {
	return &Memory{
		products:      make(map[int64]models.Product),
		customers:     make(map[int64]models.Customer),
		suppliers:     make(map[int64]models.Supplier),
		vans:          make(map[int64]models.Van),
		users:         make(map[int64]models.User),
		loadForms:     make(map[int64]models.LoadForm),
		sales:         make(map[int64]models.Sale),
		saleItems:     make(map[int64]models.SaleItem),
		purchases:     make(map[int64]models.Purchase),
		purchaseItems: make(map[int64]models.PurchaseItem),
		returns:       make(map[int64]models.Return),
		returnItems:   make(map[int64]models.ReturnItem),
	}
}

var _ store.Store = (*Memory)(nil)

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func cloneMap[V any](src map[int64]V) map[int64]V {
	dst := make(map[int64]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// WithinTx snapshots the whole store and rolls back to the snapshot
// when fn fails, mirroring the transactional store.
func (m *Memory) WithinTx(ctx context.Context, fn func(store.Store) error) error {
	snap := &Memory{
		nextID:        m.nextID,
		products:      cloneMap(m.products),
		customers:     cloneMap(m.customers),
		suppliers:     cloneMap(m.suppliers),
		vans:          cloneMap(m.vans),
		users:         cloneMap(m.users),
		loadForms:     cloneMap(m.loadForms),
		sales:         cloneMap(m.sales),
		saleItems:     cloneMap(m.saleItems),
		purchases:     cloneMap(m.purchases),
		purchaseItems: cloneMap(m.purchaseItems),
		returns:       cloneMap(m.returns),
		returnItems:   cloneMap(m.returnItems),
	}
	if err := fn(m); err != nil {
		*m = *snap
		return err
	}
	return nil
}

// --- products ---

func (m *Memory) CreateProduct(ctx context.Context, p *models.Product) error {
	for _, existing := range m.products {
		if existing.SKU == p.SKU {
			return apperr.New(apperr.KindDuplicateKey, "product already exists")
		}
	}
	p.ID = m.id()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) SaveProduct(ctx context.Context, p *models.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	p.UpdatedAt = time.Now()
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	return &p, nil
}

func (m *Memory) ProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	for _, p := range m.products {
		if p.SKU == sku {
			out := p
			return &out, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "product not found")
}

func (m *Memory) ProductForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	return m.ProductByID(ctx, id)
}

func (m *Memory) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (m *Memory) ListProductsInStock(ctx context.Context) ([]models.Product, error) {
	all, _ := m.ListProducts(ctx)
	inStock := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.StockQuantity > 0 {
			inStock = append(inStock, p)
		}
	}
	return inStock, nil
}

func (m *Memory) CountProducts(ctx context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

func (m *Memory) CountLowStockProducts(ctx context.Context) (int64, error) {
	var count int64
	for _, p := range m.products {
		if p.LowStock() {
			count++
		}
	}
	return count, nil
}

// --- customers and suppliers ---

func (m *Memory) CreateCustomer(ctx context.Context, c *models.Customer) error {
	c.ID = m.id()
	c.CreatedAt = time.Now()
	m.customers[c.ID] = *c
	return nil
}

func (m *Memory) CustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "customer not found")
	}
	return &c, nil
}

func (m *Memory) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := make([]models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

func (m *Memory) CreateSupplier(ctx context.Context, sp *models.Supplier) error {
	sp.ID = m.id()
	sp.CreatedAt = time.Now()
	m.suppliers[sp.ID] = *sp
	return nil
}

func (m *Memory) SupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	sp, ok := m.suppliers[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "supplier not found")
	}
	return &sp, nil
}

func (m *Memory) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := make([]models.Supplier, 0, len(m.suppliers))
	for _, sp := range m.suppliers {
		suppliers = append(suppliers, sp)
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	return suppliers, nil
}

// --- vans ---

func (m *Memory) CreateVan(ctx context.Context, v *models.Van) error {
	v.ID = m.id()
	v.CreatedAt = time.Now()
	m.vans[v.ID] = *v
	return nil
}

func (m *Memory) SaveVan(ctx context.Context, v *models.Van) error {
	if _, ok := m.vans[v.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "van not found")
	}
	m.vans[v.ID] = *v
	return nil
}

func (m *Memory) VanByID(ctx context.Context, id int64) (*models.Van, error) {
	v, ok := m.vans[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "van not found")
	}
	return &v, nil
}

func (m *Memory) ListVans(ctx context.Context) ([]models.Van, error) {
	vans := make([]models.Van, 0, len(m.vans))
	for _, v := range m.vans {
		vans = append(vans, v)
	}
	sort.Slice(vans, func(i, j int) bool { return vans[i].ID > vans[j].ID })
	return vans, nil
}

func (m *Memory) DeleteVan(ctx context.Context, id int64) error {
	if _, ok := m.vans[id]; !ok {
		return apperr.New(apperr.KindNotFound, "van not found")
	}
	delete(m.vans, id)
	return nil
}

func (m *Memory) VanHasRecords(ctx context.Context, id int64) (bool, error) {
	for _, s := range m.sales {
		if s.VanID != nil && *s.VanID == id {
			return true, nil
		}
	}
	for _, f := range m.loadForms {
		if f.VanID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- users ---

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperr.New(apperr.KindDuplicateKey, "user already exists")
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) SaveUser(ctx context.Context, u *models.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	return &u, nil
}

func (m *Memory) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

// --- load forms ---

func (m *Memory) CreateLoadForm(ctx context.Context, f *models.LoadForm) error {
	f.ID = m.id()
	f.CreatedAt = time.Now()
	m.loadForms[f.ID] = *f
	return nil
}

func (m *Memory) ListLoadForms(ctx context.Context) ([]models.LoadForm, error) {
	forms := make([]models.LoadForm, 0, len(m.loadForms))
	for _, f := range m.loadForms {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Date.After(forms[j].Date) })
	return forms, nil
}

func (m *Memory) ListLoadFormsForMonth(ctx context.Context, year int, month time.Month) ([]models.LoadForm, error) {
	all, _ := m.ListLoadForms(ctx)
	forms := make([]models.LoadForm, 0, len(all))
	for _, f := range all {
		if f.Date.Year() == year && f.Date.Month() == month {
			forms = append(forms, f)
		}
	}
	return forms, nil
}

// --- sales ---

func (m *Memory) CreateSale(ctx context.Context, s *models.Sale) error {
	for _, existing := range m.sales {
		if existing.InvoiceNumber == s.InvoiceNumber {
			return apperr.New(apperr.KindDuplicateKey, "sale already exists")
		}
	}
	s.ID = m.id()
	m.sales[s.ID] = *s
	return nil
}

func (m *Memory) SaveSale(ctx context.Context, s *models.Sale) error {
	if _, ok := m.sales[s.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "sale not found")
	}
	stored := *s
	stored.Items = nil
	m.sales[s.ID] = stored
	return nil
}

func (m *Memory) SaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "sale not found")
	}
	items, _ := m.ListSaleItems(ctx, id)
	s.Items = items
	return &s, nil
}

func (m *Memory) SaleForUpdate(ctx context.Context, id int64) (*models.Sale, error) {
	return m.SaleByID(ctx, id)
}

func (m *Memory) ListSales(ctx context.Context) ([]models.Sale, error) {
	sales := make([]models.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		sales = append(sales, s)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	return sales, nil
}

func (m *Memory) RecentSales(ctx context.Context, limit int) ([]models.Sale, error) {
	sales, _ := m.ListSales(ctx)
	if len(sales) > limit {
		sales = sales[:limit]
	}
	return sales, nil
}

func (m *Memory) CreateSaleItem(ctx context.Context, item *models.SaleItem) error {
	item.ID = m.id()
	m.saleItems[item.ID] = *item
	return nil
}

func (m *Memory) ListSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	items := make([]models.SaleItem, 0)
	for _, item := range m.saleItems {
		if item.SaleID == saleID {
			if p, ok := m.products[item.ProductID]; ok {
				product := p
				item.Product = &product
			}
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) SaleItemForProduct(ctx context.Context, saleID, productID int64) (*models.SaleItem, error) {
	for _, item := range m.saleItems {
		if item.SaleID == saleID && item.ProductID == productID {
			out := item
			return &out, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "sale item not found")
}

func (m *Memory) SoldQuantityForSale(ctx context.Context, saleID, productID int64) (int, error) {
	total := 0
	for _, item := range m.saleItems {
		if item.SaleID == saleID && item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total, nil
}

func (m *Memory) SalesTotalForDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range m.sales {
		if s.Date.Year() == day.Year() && s.Date.YearDay() == day.YearDay() {
			total = total.Add(s.FinalAmount)
		}
	}
	return total, nil
}

func (m *Memory) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range m.sales {
		total = total.Add(s.FinalAmount)
	}
	return total, nil
}

func (m *Memory) VanSalesForMonth(ctx context.Context, year int, month time.Month) ([]store.VanSales, error) {
	byVan := make(map[int64]*store.VanSales)
	for _, s := range m.sales {
		if s.VanID == nil || s.Date.Year() != year || s.Date.Month() != month {
			continue
		}
		row, ok := byVan[*s.VanID]
		if !ok {
			row = &store.VanSales{VanID: *s.VanID, TotalSales: decimal.Zero}
			if v, found := m.vans[*s.VanID]; found {
				row.VanName = v.Name
			}
			byVan[*s.VanID] = row
		}
		row.TotalSales = row.TotalSales.Add(s.FinalAmount)
		row.OrderCount++
	}

	rows := make([]store.VanSales, 0, len(byVan))
	for _, row := range byVan {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalSales.GreaterThan(rows[j].TotalSales) })
	return rows, nil
}

// --- purchases ---

func (m *Memory) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	for _, existing := range m.purchases {
		if existing.InvoiceNumber == p.InvoiceNumber {
			return apperr.New(apperr.KindDuplicateKey, "purchase already exists")
		}
	}
	p.ID = m.id()
	m.purchases[p.ID] = *p
	return nil
}

func (m *Memory) SavePurchase(ctx context.Context, p *models.Purchase) error {
	if _, ok := m.purchases[p.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "purchase not found")
	}
	stored := *p
	stored.Items = nil
	m.purchases[p.ID] = stored
	return nil
}

func (m *Memory) PurchaseByID(ctx context.Context, id int64) (*models.Purchase, error) {
	p, ok := m.purchases[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "purchase not found")
	}
	items, _ := m.ListPurchaseItems(ctx, id)
	p.Items = items
	return &p, nil
}

func (m *Memory) PurchaseForUpdate(ctx context.Context, id int64) (*models.Purchase, error) {
	return m.PurchaseByID(ctx, id)
}

func (m *Memory) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0, len(m.purchases))
	for _, p := range m.purchases {
		purchases = append(purchases, p)
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].Date.After(purchases[j].Date) })
	return purchases, nil
}

func (m *Memory) CreatePurchaseItem(ctx context.Context, item *models.PurchaseItem) error {
	item.ID = m.id()
	m.purchaseItems[item.ID] = *item
	return nil
}

func (m *Memory) ListPurchaseItems(ctx context.Context, purchaseID int64) ([]models.PurchaseItem, error) {
	items := make([]models.PurchaseItem, 0)
	for _, item := range m.purchaseItems {
		if item.PurchaseID == purchaseID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) PurchasesTotal(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.purchases {
		total = total.Add(p.FinalAmount)
	}
	return total, nil
}

// --- returns ---

func (m *Memory) CreateReturn(ctx context.Context, r *models.Return) error {
	for _, existing := range m.returns {
		if existing.ReturnNumber == r.ReturnNumber {
			return apperr.New(apperr.KindDuplicateKey, "return already exists")
		}
	}
	r.ID = m.id()
	m.returns[r.ID] = *r
	return nil
}

func (m *Memory) SaveReturn(ctx context.Context, r *models.Return) error {
	if _, ok := m.returns[r.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "return not found")
	}
	stored := *r
	stored.Items = nil
	m.returns[r.ID] = stored
	return nil
}

func (m *Memory) ReturnByID(ctx context.Context, id int64) (*models.Return, error) {
	r, ok := m.returns[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "return not found")
	}
	items, _ := m.ListReturnItems(ctx, id)
	r.Items = items
	return &r, nil
}

func (m *Memory) ListReturns(ctx context.Context) ([]models.Return, error) {
	returns := make([]models.Return, 0, len(m.returns))
	for _, r := range m.returns {
		returns = append(returns, r)
	}
	sort.Slice(returns, func(i, j int) bool { return returns[i].Date.After(returns[j].Date) })
	return returns, nil
}

func (m *Memory) CreateReturnItem(ctx context.Context, item *models.ReturnItem) error {
	item.ID = m.id()
	m.returnItems[item.ID] = *item
	return nil
}

func (m *Memory) ListReturnItems(ctx context.Context, returnID int64) ([]models.ReturnItem, error) {
	items := make([]models.ReturnItem, 0)
	for _, item := range m.returnItems {
		if item.ReturnID == returnID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) ReturnedQuantityForSale(ctx context.Context, saleID, productID int64) (int, error) {
	total := 0
	for _, item := range m.returnItems {
		r, ok := m.returns[item.ReturnID]
		if !ok || r.SaleID != saleID || item.ProductID != productID {
			continue
		}
		total += item.Quantity
	}
	return total, nil
}
