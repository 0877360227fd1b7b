package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	inventory "vanpos-system/internal/services/inventory/handler"
)

type InventoryHTTPHandler struct {
	inventory *inventory.InventoryService
}

func NewInventoryHTTPHandler(svc *inventory.InventoryService) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{inventory: svc}
}

func (h *InventoryHTTPHandler) CreateLoadForm(c *gin.Context) {
	var req inventory.LoadFormInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.CreatedBy = currentUserID(c)

	form, err := h.inventory.CreateLoadForm(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, form)
}

func (h *InventoryHTTPHandler) ListLoadForms(c *gin.Context) {
	forms, err := h.inventory.ListLoadForms(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, forms)
}
