package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pos "vanpos-system/internal/services/pos/handler"
)

type POSHTTPHandler struct {
	pos *pos.POSService
}

func NewPOSHTTPHandler(svc *pos.POSService) *POSHTTPHandler {
	return &POSHTTPHandler{pos: svc}
}

// Sale endpoints
func (h *POSHTTPHandler) CreateSale(c *gin.Context) {
	var req pos.CreateSaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.CreatedBy = currentUserID(c)

	sale, err := h.pos.CreateSale(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, sale)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *POSHTTPHandler) AddSaleItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid sale ID")
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.pos.AddSaleItem(c.Request.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, sale)
}

func (h *POSHTTPHandler) GetSale(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid sale ID")
		return
	}

	sale, err := h.pos.GetSale(c.Request.Context(), id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, sale)
}

func (h *POSHTTPHandler) ListSales(c *gin.Context) {
	sales, err := h.pos.ListSales(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, sales)
}

func (h *POSHTTPHandler) ListProductsInStock(c *gin.Context) {
	products, err := h.pos.ProductsInStock(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, products)
}

// Purchase endpoints
func (h *POSHTTPHandler) CreatePurchase(c *gin.Context) {
	var req pos.CreatePurchaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.CreatedBy = currentUserID(c)

	purchase, err := h.pos.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, purchase)
}

func (h *POSHTTPHandler) AddPurchaseItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	purchase, err := h.pos.AddPurchaseItem(c.Request.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, purchase)
}

func (h *POSHTTPHandler) GetPurchase(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	purchase, err := h.pos.GetPurchase(c.Request.Context(), id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, purchase)
}

func (h *POSHTTPHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.pos.ListPurchases(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, purchases)
}
