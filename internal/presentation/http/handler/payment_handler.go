package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/application/service"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/request"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/response"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// PaymentHandler handles payment-event HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List handles listing payment events with filtering
func (h *PaymentHandler) List(c *gin.Context) {
	var req request.PaymentFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PaymentFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		InvoiceNo:  req.InvoiceNo,
	}
	params.Pagination.Validate()

	if req.Method != "" {
		method, err := enum.ParsePaymentMethod(req.Method)
		if err != nil {
			response.BadRequest(c, "Unknown payment method")
			return
		}
		params.Method = &method
	}
	if req.StartDate != "" {
		start, ok := parseOptionalDate(&req.StartDate)
		if !ok {
			response.BadRequest(c, "Invalid start date")
			return
		}
		params.StartDate = start
	}
	if req.EndDate != "" {
		end, ok := parseOptionalDate(&req.EndDate)
		if !ok {
			response.BadRequest(c, "Invalid end date")
			return
		}
		params.EndDate = end
	}

	events, total, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(events,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// Reverse handles appending a compensating reversal for an earlier payment
func (h *PaymentHandler) Reverse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req request.ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	reversal, err := h.paymentService.ReversePayment(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment reversed successfully", reversal)
}
