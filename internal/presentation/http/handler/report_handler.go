package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/skipworks/skipflow-api/internal/application/service"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/response"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary handles the receivables summary report
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportService.GetReceivablesSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivables summary retrieved successfully", summary)
}

// PaymentMethods handles the per-instrument collection report
func (h *ReportHandler) PaymentMethods(c *gin.Context) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	start, ok := parseOptionalDate(&startStr)
	if !ok {
		response.BadRequest(c, "Invalid start date")
		return
	}
	end, ok := parseOptionalDate(&endStr)
	if !ok {
		response.BadRequest(c, "Invalid end date")
		return
	}

	breakdown, err := h.reportService.GetMethodBreakdown(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method breakdown retrieved successfully", breakdown)
}

// Aging handles the receivables aging report
func (h *ReportHandler) Aging(c *gin.Context) {
	buckets, err := h.reportService.GetAgingBuckets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aging report retrieved successfully", buckets)
}
