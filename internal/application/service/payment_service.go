package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"go.uber.org/zap"
)

// PaymentService records payment events: office-side against invoices, and
// field-side against driver trips. Events are append-only; corrections go
// through compensating reversal events.
type PaymentService struct {
	invoiceRepo     repository.InvoiceRepository
	paymentRepo     repository.PaymentEventRepository
	tripRepo        repository.TripRepository
	tripPaymentRepo repository.TripPaymentRepository
	locker          *KeyedLocker
	logger          *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentEventRepository,
	tripRepo repository.TripRepository,
	tripPaymentRepo repository.TripPaymentRepository,
	locker *KeyedLocker,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		invoiceRepo:     invoiceRepo,
		paymentRepo:     paymentRepo,
		tripRepo:        tripRepo,
		tripPaymentRepo: tripPaymentRepo,
		locker:          locker,
		logger:          logger,
	}
}

// RecordPaymentInput represents an office-recorded payment against an invoice
type RecordPaymentInput struct {
	InvoiceID       uuid.UUID
	Method          enum.PaymentMethod
	Amount          decimal.Decimal
	PaidAt          *time.Time
	ReferenceNo     *string
	BankName        *string
	BankAccount     *string
	EWalletProvider *string
	EWalletNumber   *string
	Note            *string
	TripID          *uuid.UUID
	RecordedBy      *uuid.UUID
}

// validateInstrument checks the method-specific fields of a payment input
func validateInstrument(method enum.PaymentMethod, reference, bankName, bankAccount, provider, number *string) error {
	if !method.IsValid() {
		return apperror.NewBadRequestError("Unknown payment method")
	}

	if method.RequiresReference() && (reference == nil || *reference == "") {
		return apperror.ErrReferenceRequired
	}

	var fieldErrors []apperror.FieldError
	if method.RequiresBankDetails() {
		if bankName == nil || *bankName == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "bank_name", Message: "Bank name is required for bank transfers"})
		}
		if bankAccount == nil || *bankAccount == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "bank_account", Message: "Bank account is required for bank transfers"})
		}
	}
	if method.RequiresEWalletDetails() {
		if provider == nil || *provider == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "ewallet_provider", Message: "E-wallet provider is required"})
		}
		if number == nil || *number == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "ewallet_number", Message: "E-wallet number is required"})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// RecordPayment validates and appends a payment event, updating the invoice
// ledger in the same transaction. Over-payments are rejected outright so the
// caller can split the amount deliberately instead of being silently capped.
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.PaymentEvent, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewUnprocessableError(apperror.KindInvalidPaymentAmount, "Payment amount must be greater than zero")
	}
	if err := validateInstrument(input.Method, input.ReferenceNo, input.BankName, input.BankAccount, input.EWalletProvider, input.EWalletNumber); err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(input.InvoiceID)
	defer unlock()

	invoice, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := invoice.ApplyPayment(input.Amount); err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	event := &entity.PaymentEvent{
		InvoiceID:       invoice.ID,
		InvoiceNo:       invoice.InvoiceNo,
		TripID:          input.TripID,
		Method:          input.Method,
		Amount:          input.Amount,
		PaidAt:          paidAt,
		ReferenceNo:     input.ReferenceNo,
		BankName:        input.BankName,
		BankAccount:     input.BankAccount,
		EWalletProvider: input.EWalletProvider,
		EWalletNumber:   input.EWalletNumber,
		Note:            input.Note,
		RecordedBy:      input.RecordedBy,
	}

	if err := s.invoiceRepo.ApplyPaymentEvent(ctx, invoice, event); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("invoice_no", invoice.InvoiceNo),
		zap.String("method", input.Method.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("balance", invoice.BalanceAmount.String()),
	)

	return event, nil
}

// ReversePayment appends a compensating negative event against an earlier
// payment. The original event is never mutated or deleted.
func (s *PaymentService) ReversePayment(ctx context.Context, eventID uuid.UUID, reason *string) (*entity.PaymentEvent, error) {
	original, err := s.paymentRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, apperror.NewNotFoundError("Payment event")
	}
	if original.IsReversal() {
		return nil, apperror.NewConflictError("A reversal cannot itself be reversed")
	}

	unlock := s.locker.Lock(original.InvoiceID)
	defer unlock()

	// Reject a second reversal of the same event
	siblings, err := s.paymentRepo.ListByInvoiceID(ctx, original.InvoiceID)
	if err != nil {
		return nil, err
	}
	for _, sib := range siblings {
		if sib.ReversesEventID != nil && *sib.ReversesEventID == original.ID {
			return nil, apperror.NewConflictError("Payment has already been reversed")
		}
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, original.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := invoice.ApplyPayment(original.Amount.Neg()); err != nil {
		return nil, err
	}

	reversal := &entity.PaymentEvent{
		InvoiceID:       invoice.ID,
		InvoiceNo:       invoice.InvoiceNo,
		TripID:          original.TripID,
		Method:          original.Method,
		Amount:          original.Amount.Neg(),
		PaidAt:          time.Now(),
		ReferenceNo:     original.ReferenceNo,
		Note:            reason,
		ReversesEventID: &original.ID,
	}

	if err := s.invoiceRepo.ApplyPaymentEvent(ctx, invoice, reversal); err != nil {
		return nil, err
	}

	s.logger.Info("payment reversed",
		zap.String("invoice_no", invoice.InvoiceNo),
		zap.String("event_id", original.ID.String()),
	)

	return reversal, nil
}

// RecordTripPaymentInput represents a field payment captured by a driver
type RecordTripPaymentInput struct {
	TripID           uuid.UUID
	DriverID         uuid.UUID
	Method           enum.PaymentMethod
	Amount           decimal.Decimal
	ReferenceNo      *string
	ReceiptRequested bool
	CollectedAt      *time.Time
}

// RecordTripPayment captures a driver-collected payment against a trip. The
// record is not yet linked to an invoice; reconciliation does that later.
// Exactly one record may exist per trip.
func (s *PaymentService) RecordTripPayment(ctx context.Context, input *RecordTripPaymentInput) (*entity.TripPaymentRecord, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewUnprocessableError(apperror.KindInvalidPaymentAmount, "Payment amount must be greater than zero")
	}
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}
	if input.Method.RequiresReference() && (input.ReferenceNo == nil || *input.ReferenceNo == "") {
		return nil, apperror.ErrReferenceRequired
	}
	if input.ReceiptRequested && input.Method != enum.PaymentMethodCash {
		return nil, apperror.NewBadRequestError("A printed receipt is only offered for cash collections")
	}

	// One record per trip; the lock keeps a double-submitted capture from
	// passing the existence check twice.
	unlock := s.locker.Lock(input.TripID)
	defer unlock()

	trip, err := s.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperror.NewNotFoundError("Trip")
	}

	existing, err := s.tripPaymentRepo.GetByTripID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrTripAlreadyRecorded
	}

	collectedAt := time.Now()
	if input.CollectedAt != nil {
		collectedAt = *input.CollectedAt
	}

	record := &entity.TripPaymentRecord{
		TripID:             trip.ID,
		DriverID:           input.DriverID,
		Method:             input.Method,
		Amount:             input.Amount,
		ReferenceNo:        input.ReferenceNo,
		ReceiptRequested:   input.ReceiptRequested,
		UnreconciledAmount: input.Amount,
		CollectedAt:        collectedAt,
	}

	if err := s.tripPaymentRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("trip payment captured",
		zap.String("trip_no", trip.TripNo),
		zap.String("method", input.Method.String()),
		zap.String("amount", input.Amount.String()),
	)

	return record, nil
}

// ListPayments returns payment events matching the filter
func (s *PaymentService) ListPayments(ctx context.Context, params *repository.PaymentFilterParams) ([]entity.PaymentEvent, int64, error) {
	return s.paymentRepo.List(ctx, params)
}

// ListInvoicePayments returns the payment history of one invoice
func (s *PaymentService) ListInvoicePayments(ctx context.Context, invoiceID uuid.UUID) ([]entity.PaymentEvent, error) {
	return s.paymentRepo.ListByInvoiceID(ctx, invoiceID)
}
