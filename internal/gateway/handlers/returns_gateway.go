package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	returns "vanpos-system/internal/services/returns/handler"
)

type ReturnsHTTPHandler struct {
	returns *returns.ReturnsService
}

func NewReturnsHTTPHandler(svc *returns.ReturnsService) *ReturnsHTTPHandler {
	return &ReturnsHTTPHandler{returns: svc}
}

func (h *ReturnsHTTPHandler) CreateReturn(c *gin.Context) {
	var req returns.CreateReturnInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.CreatedBy = currentUserID(c)

	ret, err := h.returns.CreateReturn(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, ret)
}

func (h *ReturnsHTTPHandler) AddReturnItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid return ID")
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returns.AddReturnItem(c.Request.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, ret)
}

func (h *ReturnsHTTPHandler) ListReturnableItems(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid return ID")
		return
	}

	items, err := h.returns.ReturnableItems(c.Request.Context(), id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, items)
}

func (h *ReturnsHTTPHandler) GetReturn(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid return ID")
		return
	}

	ret, err := h.returns.GetReturn(c.Request.Context(), id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, ret)
}

func (h *ReturnsHTTPHandler) ListReturns(c *gin.Context) {
	rets, err := h.returns.ListReturns(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, rets)
}
