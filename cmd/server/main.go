package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vanpos-system/config"
	"vanpos-system/internal/database"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/gateway/handlers"
	"vanpos-system/internal/gateway/middleware"
	catalog "vanpos-system/internal/services/catalog/handler"
	importer "vanpos-system/internal/services/importer/handler"
	inventory "vanpos-system/internal/services/inventory/handler"
	pos "vanpos-system/internal/services/pos/handler"
	reports "vanpos-system/internal/services/reports/handler"
	returns "vanpos-system/internal/services/returns/handler"
	user "vanpos-system/internal/services/user/handler"
	"vanpos-system/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)

	var st store.Store = database.NewStore(db)
	secret := []byte(cfg.Auth.JWTSecret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	catalogSvc := catalog.NewCatalogService(st, rdb)
	inventorySvc := inventory.NewInventoryService(st)
	posSvc := pos.NewPOSService(st)
	returnsSvc := returns.NewReturnsService(st)
	reportsSvc := reports.NewReportsService(st, rdb)
	importerSvc := importer.NewImporterService(st)
	userSvc := user.NewUserService(st, secret, tokenTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userSvc.EnsureAdmin(ctx, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	cancel()

	catalogHandler := handlers.NewCatalogHTTPHandler(catalogSvc)
	inventoryHandler := handlers.NewInventoryHTTPHandler(inventorySvc)
	posHandler := handlers.NewPOSHTTPHandler(posSvc)
	returnsHandler := handlers.NewReturnsHTTPHandler(returnsSvc)
	reportsHandler := handlers.NewReportsHTTPHandler(reportsSvc)
	importHandler := handlers.NewImportHTTPHandler(importerSvc)
	userHandler := handlers.NewUserHTTPHandler(userSvc)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit("100-M"))

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		auth.Use(middleware.RateLimit("10-M"))
		{
			auth.POST("/login", userHandler.Login)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(secret))
	{
		authGroup := protected.Group("/auth")
		{
			authGroup.POST("/change-password", userHandler.ChangePassword)
		}

		products := protected.Group("/products")
		{
			products.POST("", catalogHandler.CreateProduct)
			products.GET("", catalogHandler.ListProducts)
			products.GET("/low-stock", catalogHandler.ListLowStockProducts)
			products.GET("/in-stock", posHandler.ListProductsInStock)
			products.GET("/sku/:sku", catalogHandler.GetProductBySKU)
			products.GET("/:id", catalogHandler.GetProduct)
			products.PUT("/:id", catalogHandler.UpdateProduct)
		}

		customers := protected.Group("/customers")
		{
			customers.POST("", catalogHandler.CreateCustomer)
			customers.GET("", catalogHandler.ListCustomers)
		}

		suppliers := protected.Group("/suppliers")
		{
			suppliers.POST("", catalogHandler.CreateSupplier)
			suppliers.GET("", catalogHandler.ListSuppliers)
		}

		vans := protected.Group("/vans")
		{
			vans.POST("", catalogHandler.CreateVan)
			vans.GET("", catalogHandler.ListVans)
			vans.PUT("/:id", catalogHandler.UpdateVan)
			vans.DELETE("/:id", catalogHandler.DeleteVan)
		}

		loadForms := protected.Group("/load-forms")
		{
			loadForms.POST("", inventoryHandler.CreateLoadForm)
			loadForms.GET("", inventoryHandler.ListLoadForms)
		}

		sales := protected.Group("/sales")
		{
			sales.POST("", posHandler.CreateSale)
			sales.GET("", posHandler.ListSales)
			sales.GET("/:id", posHandler.GetSale)
			sales.POST("/:id/items", posHandler.AddSaleItem)
		}

		purchases := protected.Group("/purchases")
		{
			purchases.POST("", posHandler.CreatePurchase)
			purchases.GET("", posHandler.ListPurchases)
			purchases.GET("/:id", posHandler.GetPurchase)
			purchases.POST("/:id/items", posHandler.AddPurchaseItem)
		}

		returnsGroup := protected.Group("/returns")
		{
			returnsGroup.POST("", returnsHandler.CreateReturn)
			returnsGroup.GET("", returnsHandler.ListReturns)
			returnsGroup.GET("/:id", returnsHandler.GetReturn)
			returnsGroup.GET("/:id/returnable", returnsHandler.ListReturnableItems)
			returnsGroup.POST("/:id/items", returnsHandler.AddReturnItem)
		}

		reportsGroup := protected.Group("/reports")
		{
			reportsGroup.GET("/dashboard", reportsHandler.Dashboard)
			reportsGroup.GET("/stock", reportsHandler.StockReport)
			reportsGroup.GET("/monthly-stock", reportsHandler.MonthlyStockReport)
			reportsGroup.GET("/van-sales", reportsHandler.VanSalesReport)
			reportsGroup.GET("/investment", reportsHandler.Investment)
		}

		// Admin only
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/auth/register", userHandler.Register)

			importGroup := admin.Group("/import")
			{
				importGroup.POST("/products", importHandler.ImportProducts)
				importGroup.POST("/customers", importHandler.ImportCustomers)
				importGroup.POST("/suppliers", importHandler.ImportSuppliers)
				importGroup.POST("/vans", importHandler.ImportVans)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	port := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
