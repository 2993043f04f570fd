package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/application/service"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/response"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// ReconciliationHandler handles reconciliation HTTP requests
type ReconciliationHandler struct {
	reconciliationService *service.ReconciliationService
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reconciliationService *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Reconcile handles matching a trip's field payment against its invoices.
// Re-running for an already reconciled trip returns the prior outcome.
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid trip ID")
		return
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), tripID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Trip reconciled successfully", result)
}

// ListUnreconciled handles listing trip payments awaiting manual review
func (h *ReconciliationHandler) ListUnreconciled(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()

	records, total, err := h.reconciliationService.ListUnreconciled(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(records,
		pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Unreconciled payments retrieved successfully", result)
}
