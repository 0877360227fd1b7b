package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	importer "vanpos-system/internal/services/importer/handler"
)

type ImportHTTPHandler struct {
	importer *importer.ImporterService
}

func NewImportHTTPHandler(svc *importer.ImporterService) *ImportHTTPHandler {
	return &ImportHTTPHandler{importer: svc}
}

func (h *ImportHTTPHandler) ImportProducts(c *gin.Context) {
	var rows []importer.ProductRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.importer.ImportProducts(c.Request.Context(), rows)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, res)
}

func (h *ImportHTTPHandler) ImportCustomers(c *gin.Context) {
	var rows []importer.CustomerRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.importer.ImportCustomers(c.Request.Context(), rows)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, res)
}

func (h *ImportHTTPHandler) ImportSuppliers(c *gin.Context) {
	var rows []importer.SupplierRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.importer.ImportSuppliers(c.Request.Context(), rows)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, res)
}

func (h *ImportHTTPHandler) ImportVans(c *gin.Context) {
	var rows []importer.VanRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.importer.ImportVans(c.Request.Context(), rows)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, res)
}
