package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/application/service"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/request"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/response"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	paymentService *service.PaymentService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, paymentService *service.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, paymentService: paymentService}
}

// buildInput converts the wire request into a build input
func (h *InvoiceHandler) buildInput(c *gin.Context, req *request.BuildInvoiceRequest) (*service.BuildInvoiceInput, bool) {
	sourceType := enum.InvoiceSourceOrders
	if req.Source == "customer" {
		sourceType = enum.InvoiceSourceCustomer
	}

	taxRate := decimal.Zero
	if req.TaxRate != "" {
		parsed, ok := parseAmount(req.TaxRate)
		if !ok {
			response.BadRequest(c, "Invalid tax rate")
			return nil, false
		}
		taxRate = parsed
	}

	subTotal, ok := parseOptionalAmount(req.SubTotal)
	if !ok {
		response.BadRequest(c, "Invalid sub total")
		return nil, false
	}
	exchangeRate, ok := parseOptionalAmount(req.ExchangeRate)
	if !ok {
		response.BadRequest(c, "Invalid exchange rate")
		return nil, false
	}
	issueDate, ok := parseOptionalDate(req.IssueDate)
	if !ok {
		response.BadRequest(c, "Invalid issue date")
		return nil, false
	}

	return &service.BuildInvoiceInput{
		SourceType:       sourceType,
		OrderIDs:         req.OrderIDs,
		CustomerID:       req.CustomerID,
		ManualSubTotal:   subTotal,
		TaxRate:          taxRate,
		PaymentTermsDays: req.PaymentTermsDays,
		Currency:         req.Currency,
		OriginalCurrency: req.OriginalCurrency,
		ExchangeRate:     exchangeRate,
		IssueDate:        issueDate,
		Note:             req.Note,
	}, true
}

// Preview handles building a draft invoice without committing it
func (h *InvoiceHandler) Preview(c *gin.Context) {
	var req request.BuildInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := h.buildInput(c, &req)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.BuildInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice preview built successfully", invoice)
}

// Create handles committing a new invoice to the ledger
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.BuildInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := h.buildInput(c, &req)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles getting a single invoice with its payment history
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// GetByNo handles looking an invoice up by its printed invoice number
func (h *InvoiceHandler) GetByNo(c *gin.Context) {
	invoiceNo := c.Param("invoice_no")
	if invoiceNo == "" {
		response.BadRequest(c, "Invalid invoice number")
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByNo(c.Request.Context(), invoiceNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// List handles listing invoices with filtering
func (h *InvoiceHandler) List(c *gin.Context) {
	var req request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	params.Pagination.Validate()

	if req.Status != "" {
		status, err := enum.ParseInvoiceStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid invoice status")
			return
		}
		params.Status = &status
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
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

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(invoices,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Send handles transitioning a draft invoice to Sent
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice sent successfully", invoice)
}

// Cancel handles cancelling an unpaid invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice cancelled successfully", invoice)
}

// Remind handles sending a payment reminder for an outstanding invoice
func (h *InvoiceHandler) Remind(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.RemindInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reminder recorded successfully", invoice)
}

// RecordPayment handles recording an office payment against an invoice
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.BadRequest(c, "Unknown payment method")
		return
	}
	amount, ok := parseAmount(req.Amount)
	if !ok {
		response.BadRequest(c, "Invalid payment amount")
		return
	}
	paidAt, ok := parseOptionalDate(req.PaidAt)
	if !ok {
		response.BadRequest(c, "Invalid payment date")
		return
	}

	event, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		InvoiceID:       id,
		Method:          method,
		Amount:          amount,
		PaidAt:          paidAt,
		ReferenceNo:     req.ReferenceNo,
		BankName:        req.BankName,
		BankAccount:     req.BankAccount,
		EWalletProvider: req.EWalletProvider,
		EWalletNumber:   req.EWalletNumber,
		Note:            req.Note,
		RecordedBy:      GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", event)
}

// ListPayments handles listing the payment history of one invoice
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	events, err := h.paymentService.ListInvoicePayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", events)
}

// MarkOverdue handles flipping a lapsed invoice to Overdue on demand. The
// background sweep does this on a schedule; the endpoint exists for console
// use between sweeps.
func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.MarkOverdue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice overdue check applied", invoice)
}
