package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"github.com/skipworks/skipflow-api/pkg/pagination"
	"go.uber.org/zap"
)

// ReconciliationService bridges driver-collected trip payments with the
// invoices they ultimately settle. Drivers may be offline when they collect,
// so the two records arrive independently and are merged here.
type ReconciliationService struct {
	invoiceRepo     repository.InvoiceRepository
	orderRepo       repository.DeliveryOrderRepository
	paymentRepo     repository.PaymentEventRepository
	tripRepo        repository.TripRepository
	tripPaymentRepo repository.TripPaymentRepository
	paymentService  *PaymentService
	locker          *KeyedLocker
	logger          *zap.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.DeliveryOrderRepository,
	paymentRepo repository.PaymentEventRepository,
	tripRepo repository.TripRepository,
	tripPaymentRepo repository.TripPaymentRepository,
	paymentService *PaymentService,
	locker *KeyedLocker,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		invoiceRepo:     invoiceRepo,
		orderRepo:       orderRepo,
		paymentRepo:     paymentRepo,
		tripRepo:        tripRepo,
		tripPaymentRepo: tripPaymentRepo,
		paymentService:  paymentService,
		locker:          locker,
		logger:          logger,
	}
}

// ReconciliationResult represents the outcome of reconciling one trip. An
// unmatched remainder is an expected operational occurrence, not an error: it
// is surfaced here for manual review instead of failing the caller.
type ReconciliationResult struct {
	TripID             uuid.UUID                 `json:"trip_id"`
	Record             *entity.TripPaymentRecord `json:"record"`
	Applied            []entity.PaymentEvent     `json:"applied"`
	AppliedAmount      decimal.Decimal           `json:"applied_amount"`
	UnreconciledAmount decimal.Decimal           `json:"unreconciled_amount"`
	AlreadyReconciled  bool                      `json:"already_reconciled"`
}

// Reconcile matches the trip's field-collected payment against the invoices
// billing the trip's orders, oldest obligation first. A trip whose payment has
// already been recorded is returned as-is; no duplicate events are created.
func (s *ReconciliationService) Reconcile(ctx context.Context, tripID uuid.UUID) (*ReconciliationResult, error) {
	// The trip lock is held across the recorded check and the allocation so
	// two overlapping reconciles cannot both apply the payment. Invoice locks
	// are taken one at a time underneath it, never the other way around.
	unlock := s.locker.Lock(tripID)
	defer unlock()

	record, err := s.tripPaymentRepo.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Trip payment record")
	}

	if record.PaymentRecorded {
		applied, err := s.paymentRepo.ListByTripID(ctx, tripID)
		if err != nil {
			return nil, err
		}
		return &ReconciliationResult{
			TripID:             tripID,
			Record:             record,
			Applied:            applied,
			AppliedAmount:      record.Amount.Sub(record.UnreconciledAmount),
			UnreconciledAmount: record.UnreconciledAmount,
			AlreadyReconciled:  true,
		}, nil
	}

	orders, err := s.orderRepo.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	orderIDs := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	invoices, err := s.invoiceRepo.ListByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	// Only issued invoices with a balance can absorb the payment; a draft
	// means the office has not billed the trip yet and the record is held.
	candidates := make([]entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Status.CanApplyPayment() && inv.BalanceAmount.IsPositive() {
			candidates = append(candidates, inv)
		}
	}

	// Oldest obligation first; invoice number breaks due-date ties so
	// overlapping reconciliation runs always touch invoices in the same order.
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].DueDate.Equal(candidates[j].DueDate) {
			return candidates[i].DueDate.Before(candidates[j].DueDate)
		}
		return candidates[i].InvoiceNo < candidates[j].InvoiceNo
	})

	remaining := record.Amount
	applied := make([]entity.PaymentEvent, 0, len(candidates))
	appliedAmount := decimal.Zero

	for _, inv := range candidates {
		if !remaining.IsPositive() {
			break
		}
		amount := remaining
		if amount.GreaterThan(inv.BalanceAmount) {
			amount = inv.BalanceAmount
		}

		event, err := s.paymentService.RecordPayment(ctx, &RecordPaymentInput{
			InvoiceID:   inv.ID,
			Method:      record.Method,
			Amount:      amount,
			PaidAt:      &record.CollectedAt,
			ReferenceNo: record.ReferenceNo,
			TripID:      &record.TripID,
		})
		if err != nil {
			return nil, err
		}

		applied = append(applied, *event)
		appliedAmount = appliedAmount.Add(amount)
		remaining = remaining.Sub(amount)
	}

	// Only a record that settled something is sealed; an entirely unmatched
	// record stays open so it can be reconciled once the invoice is issued.
	if len(applied) > 0 {
		now := time.Now()
		record.PaymentRecorded = true
		record.ReconciledAt = &now
	}
	record.UnreconciledAmount = remaining
	if err := s.tripPaymentRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	if err := s.completeTrip(ctx, tripID); err != nil {
		return nil, err
	}

	s.logger.Info("trip reconciled",
		zap.String("trip_id", tripID.String()),
		zap.String("applied", appliedAmount.String()),
		zap.String("unreconciled", remaining.String()),
		zap.Int("invoices", len(applied)),
	)

	return &ReconciliationResult{
		TripID:             tripID,
		Record:             record,
		Applied:            applied,
		AppliedAmount:      appliedAmount,
		UnreconciledAmount: remaining,
		AlreadyReconciled:  false,
	}, nil
}

// completeTrip stamps the trip's completion time once both halves of the
// field workflow exist: the driver's status update and a reconciled payment.
// Either one alone leaves the trip open for follow-up.
func (s *ReconciliationService) completeTrip(ctx context.Context, tripID uuid.UUID) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil || trip == nil {
		return err
	}
	if trip.Status != enum.TripStatusCompleted || trip.CompletedAt != nil {
		return nil
	}

	record, err := s.tripPaymentRepo.GetByTripID(ctx, tripID)
	if err != nil {
		return err
	}
	if record == nil || !record.PaymentRecorded {
		return nil
	}

	now := time.Now()
	trip.CompletedAt = &now
	return s.tripRepo.Update(ctx, trip)
}

// ListUnreconciled returns trip payment records awaiting manual review:
// either never matched to an invoice or carrying a leftover amount.
func (s *ReconciliationService) ListUnreconciled(ctx context.Context, params *pagination.PaginationParams) ([]entity.TripPaymentRecord, int64, error) {
	return s.tripPaymentRepo.ListUnreconciled(ctx, params)
}
