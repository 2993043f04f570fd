package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/application/service"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/request"
	"github.com/skipworks/skipflow-api/internal/presentation/http/dto/response"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// TripHandler handles trip and field-payment HTTP requests
type TripHandler struct {
	tripService    *service.TripService
	paymentService *service.PaymentService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *service.TripService, paymentService *service.PaymentService) *TripHandler {
	return &TripHandler{tripService: tripService, paymentService: paymentService}
}

// Get handles getting a single trip with its orders and payment record
func (h *TripHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid trip ID")
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Trip retrieved successfully", trip)
}

// GetByNo handles looking a trip up by the number printed on its manifest
func (h *TripHandler) GetByNo(c *gin.Context) {
	tripNo := c.Param("trip_no")
	if tripNo == "" {
		response.BadRequest(c, "Invalid trip number")
		return
	}

	trip, err := h.tripService.GetTripByNo(c.Request.Context(), tripNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Trip retrieved successfully", trip)
}

// List handles listing trips
func (h *TripHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.TripFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
	}
	params.Pagination.Validate()

	if driverIDStr := c.Query("driver_id"); driverIDStr != "" {
		driverID, err := uuid.Parse(driverIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid driver ID")
			return
		}
		params.DriverID = &driverID
	}

	trips, total, err := h.tripService.ListTrips(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(trips,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Trips retrieved successfully", result)
}

// RecordPayment handles capturing a driver-collected payment against a trip
func (h *TripHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid trip ID")
		return
	}

	var req request.RecordTripPaymentRequest
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
	collectedAt, ok := parseOptionalDate(req.CollectedAt)
	if !ok {
		response.BadRequest(c, "Invalid collection date")
		return
	}

	record, err := h.paymentService.RecordTripPayment(c.Request.Context(), &service.RecordTripPaymentInput{
		TripID:           id,
		DriverID:         req.DriverID,
		Method:           method,
		Amount:           amount,
		ReferenceNo:      req.ReferenceNo,
		ReceiptRequested: req.ReceiptRequested,
		CollectedAt:      collectedAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Trip payment captured successfully", record)
}
