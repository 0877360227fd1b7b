package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/store"
)

const (
	dashboardCacheKey  = "reports:dashboard"
	dashboardCacheTTL  = 30 * time.Second
	investmentCacheKey = "reports:investment"
	investmentCacheTTL = 1 * time.Minute
)

// ReportsService aggregates read-only views over the recorded data.
// Reports never write; a nil redis client just disables caching.
type ReportsService struct {
	store store.Store
	redis *redis.Client
}

func NewReportsService(st store.Store, rdb *redis.Client) *ReportsService {
	return &ReportsService{store: st, redis: rdb}
}

type Dashboard struct {
	TotalProducts    int64           `json:"total_products"`
	LowStockProducts int64           `json:"low_stock_products"`
	TodaySales       decimal.Decimal `json:"today_sales"`
	RecentSales      []models.Sale   `json:"recent_sales"`
}

func (s *ReportsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var cached Dashboard
	if s.cacheGet(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	totalProducts, err := s.store.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.store.CountLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	todaySales, err := s.store.SalesTotalForDay(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	recent, err := s.store.RecentSales(ctx, 5)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalProducts:    totalProducts,
		LowStockProducts: lowStock,
		TodaySales:       todaySales,
		RecentSales:      recent,
	}
	s.cacheSet(ctx, dashboardCacheKey, d, dashboardCacheTTL)
	return d, nil
}

// StockReport is the full catalog with current stock levels.
func (s *ReportsService) StockReport(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// parseMonth accepts "YYYY-MM".
func parseMonth(month string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, 0, apperr.Newf(apperr.KindValidation, "invalid month %q, expected YYYY-MM", month)
	}
	return t.Year(), t.Month(), nil
}

// MonthlyStockReport lists every load movement in the given month.
func (s *ReportsService) MonthlyStockReport(ctx context.Context, month string) ([]models.LoadForm, error) {
	year, m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return s.store.ListLoadFormsForMonth(ctx, year, m)
}

// VanSalesReport aggregates sales per van for the given month, best
// performing van first.
func (s *ReportsService) VanSalesReport(ctx context.Context, month string) ([]store.VanSales, error) {
	year, m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return s.store.VanSalesForMonth(ctx, year, m)
}

type InvestmentReport struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	ProfitLoss     decimal.Decimal `json:"profit_loss"`
}

// Investment compares lifetime sales against lifetime purchase spend.
func (s *ReportsService) Investment(ctx context.Context) (*InvestmentReport, error) {
	var cached InvestmentReport
	if s.cacheGet(ctx, investmentCacheKey, &cached) {
		return &cached, nil
	}

	sales, err := s.store.SalesTotal(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.store.PurchasesTotal(ctx)
	if err != nil {
		return nil, err
	}

	r := &InvestmentReport{
		TotalSales:     sales,
		TotalPurchases: purchases,
		ProfitLoss:     sales.Sub(purchases),
	}
	s.cacheSet(ctx, investmentCacheKey, r, investmentCacheTTL)
	return r, nil
}

func (s *ReportsService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.redis == nil {
		return false
	}
	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(data), out) == nil
}

func (s *ReportsService) cacheSet(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("Failed to cache %s: %v", key, err)
	}
}
