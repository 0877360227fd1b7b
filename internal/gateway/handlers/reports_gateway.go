package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reports "vanpos-system/internal/services/reports/handler"
)

type ReportsHTTPHandler struct {
	reports *reports.ReportsService
}

func NewReportsHTTPHandler(svc *reports.ReportsService) *ReportsHTTPHandler {
	return &ReportsHTTPHandler{reports: svc}
}

func (h *ReportsHTTPHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, dashboard)
}

func (h *ReportsHTTPHandler) StockReport(c *gin.Context) {
	report, err := h.reports.StockReport(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, report)
}

func (h *ReportsHTTPHandler) MonthlyStockReport(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		fail(c, http.StatusBadRequest, "month is required, expected YYYY-MM")
		return
	}

	report, err := h.reports.MonthlyStockReport(c.Request.Context(), month)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, report)
}

func (h *ReportsHTTPHandler) VanSalesReport(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		fail(c, http.StatusBadRequest, "month is required, expected YYYY-MM")
		return
	}

	report, err := h.reports.VanSalesReport(c.Request.Context(), month)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, report)
}

func (h *ReportsHTTPHandler) Investment(c *gin.Context) {
	report, err := h.reports.Investment(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, report)
}
