package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalog "vanpos-system/internal/services/catalog/handler"
)

type CatalogHTTPHandler struct {
	catalog *catalog.CatalogService
}

func NewCatalogHTTPHandler(svc *catalog.CatalogService) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{catalog: svc}
}

// Product endpoints
func (h *CatalogHTTPHandler) CreateProduct(c *gin.Context) {
	var req catalog.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, product)
}

func (h *CatalogHTTPHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req catalog.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, product)
}

func (h *CatalogHTTPHandler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, product)
}

func (h *CatalogHTTPHandler) GetProductBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		fail(c, http.StatusBadRequest, "Product SKU is required")
		return
	}

	product, err := h.catalog.GetProductBySKU(c.Request.Context(), sku)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, product)
}

func (h *CatalogHTTPHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, products)
}

func (h *CatalogHTTPHandler) ListLowStockProducts(c *gin.Context) {
	products, err := h.catalog.LowStockProducts(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, products)
}

// Customer endpoints
func (h *CatalogHTTPHandler) CreateCustomer(c *gin.Context) {
	var req catalog.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.catalog.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, customer)
}

func (h *CatalogHTTPHandler) ListCustomers(c *gin.Context) {
	customers, err := h.catalog.ListCustomers(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, customers)
}

// Supplier endpoints
func (h *CatalogHTTPHandler) CreateSupplier(c *gin.Context) {
	var req catalog.SupplierInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.catalog.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, supplier)
}

func (h *CatalogHTTPHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.catalog.ListSuppliers(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, suppliers)
}

// Van endpoints
func (h *CatalogHTTPHandler) CreateVan(c *gin.Context) {
	var req catalog.VanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	van, err := h.catalog.CreateVan(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, van)
}

func (h *CatalogHTTPHandler) UpdateVan(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid van ID")
		return
	}

	var req catalog.VanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	van, err := h.catalog.UpdateVan(c.Request.Context(), id, req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, van)
}

func (h *CatalogHTTPHandler) ListVans(c *gin.Context) {
	vans, err := h.catalog.ListVans(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, vans)
}

func (h *CatalogHTTPHandler) DeleteVan(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid van ID")
		return
	}

	if err := h.catalog.DeleteVan(c.Request.Context(), id); err != nil {
		failFromErr(c, err)
		return
	}
	success(c, gin.H{"deleted": true})
}
