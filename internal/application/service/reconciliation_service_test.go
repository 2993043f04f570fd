package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"github.com/skipworks/skipflow-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// issueTripInvoice bills one order on the given trip and sends the invoice.
// issueDate controls the due date so tests can fix the allocation order.
func issueTripInvoice(t *testing.T, env *testEnv, customer *entity.Customer, trip *entity.Trip, amount string, issueDate time.Time) *entity.Invoice {
	t.Helper()
	ctx := context.Background()

	order := env.createOrder(t, customer, amount, &trip.ID)
	invoice, err := env.invoiceSvc.CreateInvoice(ctx, &BuildInvoiceInput{
		SourceType: enum.InvoiceSourceOrders,
		OrderIDs:   []uuid.UUID{order.ID},
		IssueDate:  &issueDate,
	})
	require.NoError(t, err)

	sent, err := env.invoiceSvc.SendInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	return sent
}

func recordTripCash(t *testing.T, env *testEnv, trip *entity.Trip, amount string) *entity.TripPaymentRecord {
	t.Helper()

	record, err := env.paymentSvc.RecordTripPayment(context.Background(), &RecordTripPaymentInput{
		TripID:   trip.ID,
		DriverID: trip.DriverID,
		Method:   enum.PaymentMethodCash,
		Amount:   mustDecimal(t, amount),
	})
	require.NoError(t, err)
	return record
}

func TestReconcileExactMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Perdana Builders")
	trip := env.createTrip(t, enum.TripStatusCompleted)
	invoice := issueTripInvoice(t, env, customer, trip, "750.00", time.Now())
	recordTripCash(t, env, trip, "750.00")

	result, err := env.reconSvc.Reconcile(ctx, trip.ID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyReconciled)
	require.Len(t, result.Applied, 1)
	assert.True(t, result.AppliedAmount.Equal(mustDecimal(t, "750.00")))
	assert.True(t, result.UnreconciledAmount.IsZero())
	assert.True(t, result.Record.PaymentRecorded)
	require.NotNil(t, result.Applied[0].TripID)
	assert.Equal(t, trip.ID, *result.Applied[0].TripID)

	settled, err := env.invoiceSvc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, settled.Status)

	// Completed trip plus a reconciled payment closes the trip out
	var refreshed entity.Trip
	require.NoError(t, env.db.First(&refreshed, "id = ?", trip.ID).Error)
	assert.NotNil(t, refreshed.CompletedAt)
}

func TestReconcileOldestDueFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Suria Recycling")
	trip := env.createTrip(t, enum.TripStatusInProgress)

	older := issueTripInvoice(t, env, customer, trip, "400.00", time.Now().AddDate(0, 0, -20))
	newer := issueTripInvoice(t, env, customer, trip, "300.00", time.Now())
	recordTripCash(t, env, trip, "500.00")

	result, err := env.reconSvc.Reconcile(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, result.Applied, 2)
	assert.Equal(t, older.ID, result.Applied[0].InvoiceID)
	assert.True(t, result.Applied[0].Amount.Equal(mustDecimal(t, "400.00")))
	assert.Equal(t, newer.ID, result.Applied[1].InvoiceID)
	assert.True(t, result.Applied[1].Amount.Equal(mustDecimal(t, "100.00")))
	assert.True(t, result.UnreconciledAmount.IsZero())

	first, err := env.invoiceSvc.GetInvoice(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, first.Status)

	second, err := env.invoiceSvc.GetInvoice(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, second.Status)
	assert.True(t, second.BalanceAmount.Equal(mustDecimal(t, "200.00")))
}

func TestReconcileLeftoverSurfaced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Hock Lee")
	trip := env.createTrip(t, enum.TripStatusInProgress)
	issueTripInvoice(t, env, customer, trip, "600.00", time.Now())
	recordTripCash(t, env, trip, "650.00")

	result, err := env.reconSvc.Reconcile(ctx, trip.ID)
	require.NoError(t, err)
	assert.True(t, result.AppliedAmount.Equal(mustDecimal(t, "600.00")))
	assert.True(t, result.UnreconciledAmount.Equal(mustDecimal(t, "50.00")),
		"the excess is held for review, not forced onto the invoice")
	assert.True(t, result.Record.PaymentRecorded, "a record that settled something is sealed")

	records, total, err := env.reconSvc.ListUnreconciled(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, trip.ID, records[0].TripID)
}

func TestReconcileUnmatchedHeldOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Perdana Builders")
	trip := env.createTrip(t, enum.TripStatusInProgress)
	env.createOrder(t, customer, "380.00", &trip.ID)
	recordTripCash(t, env, trip, "380.00")

	// The office has not billed the trip yet
	result, err := env.reconSvc.Reconcile(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.False(t, result.Record.PaymentRecorded, "an unmatched record stays open")
	assert.True(t, result.UnreconciledAmount.Equal(mustDecimal(t, "380.00")))

	invoice := issueTripInvoice(t, env, customer, trip, "380.00", time.Now())

	// A later run picks the record up once the invoice exists. The trip now
	// carries two orders but only the second one is billed.
	retry, err := env.reconSvc.Reconcile(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, retry.Applied, 1)
	assert.Equal(t, invoice.ID, retry.Applied[0].InvoiceID)
	assert.True(t, retry.Record.PaymentRecorded)
	assert.True(t, retry.UnreconciledAmount.IsZero())
}

func TestReconcileIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Suria Recycling")
	trip := env.createTrip(t, enum.TripStatusInProgress)
	invoice := issueTripInvoice(t, env, customer, trip, "500.00", time.Now())
	recordTripCash(t, env, trip, "500.00")

	first, err := env.reconSvc.Reconcile(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, first.Applied, 1)

	second, err := env.reconSvc.Reconcile(ctx, trip.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyReconciled)
	require.Len(t, second.Applied, 1, "the prior event is reported, not re-created")
	assert.Equal(t, first.Applied[0].ID, second.Applied[0].ID)
	assert.True(t, second.AppliedAmount.Equal(mustDecimal(t, "500.00")))

	settled, err := env.invoiceSvc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, settled.PaidAmount.Equal(mustDecimal(t, "500.00")), "no duplicate application")
	assert.Len(t, settled.Payments, 1)
}

func TestReconcileConcurrentCallsApplyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Suria Recycling")
	trip := env.createTrip(t, enum.TripStatusInProgress)
	invoice := issueTripInvoice(t, env, customer, trip, "500.00", time.Now())
	recordTripCash(t, env, trip, "500.00")

	const workers = 4
	results := make([]*ReconciliationResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.reconSvc.Reconcile(ctx, trip.ID)
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if !results[i].AlreadyReconciled {
			fresh++
		}
		assert.True(t, results[i].AppliedAmount.Equal(mustDecimal(t, "500.00")))
	}
	assert.Equal(t, 1, fresh, "exactly one call performs the allocation")

	settled, err := env.invoiceSvc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, settled.PaidAmount.Equal(mustDecimal(t, "500.00")), "no duplicate application")
	assert.Len(t, settled.Payments, 1)
}

func TestReconcileRequiresRecord(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t, enum.TripStatusInProgress)

	_, err := env.reconSvc.Reconcile(context.Background(), trip.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
