package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// issueInvoice creates and sends an invoice billing one order of the given amount
func issueInvoice(t *testing.T, env *testEnv, customer *entity.Customer, amount string) *entity.Invoice {
	t.Helper()
	ctx := context.Background()

	order := env.createOrder(t, customer, amount, nil)
	invoice, err := env.invoiceSvc.CreateInvoice(ctx, &BuildInvoiceInput{
		SourceType: enum.InvoiceSourceOrders,
		OrderIDs:   []uuid.UUID{order.ID},
	})
	require.NoError(t, err)

	sent, err := env.invoiceSvc.SendInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	return sent
}

func TestRecordPaymentSettlesInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Perdana Builders")
	invoice := issueInvoice(t, env, customer, "848.00")

	ref := "TXN-20260815-001"
	bank := "Maybank"
	account := "5123-4567-8901"
	event, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID:   invoice.ID,
		Method:      enum.PaymentMethodBankTransfer,
		Amount:      mustDecimal(t, "848.00"),
		ReferenceNo: &ref,
		BankName:    &bank,
		BankAccount: &account,
	})
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceNo, event.InvoiceNo)

	refreshed, err := env.invoiceSvc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, refreshed.Status)
	assert.True(t, refreshed.BalanceAmount.IsZero())
	require.Len(t, refreshed.Payments, 1)
}

func TestRecordPaymentSplitInstruments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Suria Recycling")
	invoice := issueInvoice(t, env, customer, "1000.00")

	_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID: invoice.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    mustDecimal(t, "400.00"),
	})
	require.NoError(t, err)

	ref := "OB-889123"
	_, err = env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID:   invoice.ID,
		Method:      enum.PaymentMethodOnlineBanking,
		Amount:      mustDecimal(t, "600.00"),
		ReferenceNo: &ref,
	})
	require.NoError(t, err)

	refreshed, err := env.invoiceSvc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, refreshed.Status)
	assert.Len(t, refreshed.Payments, 2)
}

func TestRecordPaymentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Perdana Builders")
	invoice := issueInvoice(t, env, customer, "500.00")

	t.Run("overpayment rejected", func(t *testing.T) {
		_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
			InvoiceID: invoice.ID,
			Method:    enum.PaymentMethodCash,
			Amount:    mustDecimal(t, "500.01"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrOverpayment))
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
			InvoiceID: invoice.ID,
			Method:    enum.PaymentMethodCash,
			Amount:    mustDecimal(t, "0"),
		})
		require.Error(t, err)
	})

	t.Run("non-cash requires a reference", func(t *testing.T) {
		_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
			InvoiceID: invoice.ID,
			Method:    enum.PaymentMethodCheque,
			Amount:    mustDecimal(t, "100.00"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrReferenceRequired))
	})

	t.Run("bank transfer requires bank details", func(t *testing.T) {
		ref := "TXN-1"
		_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
			InvoiceID:   invoice.ID,
			Method:      enum.PaymentMethodBankTransfer,
			Amount:      mustDecimal(t, "100.00"),
			ReferenceNo: &ref,
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("ewallet requires provider and number", func(t *testing.T) {
		ref := "EW-12"
		_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
			InvoiceID:   invoice.ID,
			Method:      enum.PaymentMethodEWallet,
			Amount:      mustDecimal(t, "100.00"),
			ReferenceNo: &ref,
		})
		require.Error(t, err)
	})

	t.Run("rejected cleanly after all validations", func(t *testing.T) {
		// Nothing above may have touched the ledger
		refreshed, err := env.invoiceSvc.GetInvoice(ctx, invoice.ID)
		require.NoError(t, err)
		assert.True(t, refreshed.PaidAmount.IsZero())
		assert.Empty(t, refreshed.Payments)
	})
}

func TestReversePayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Perdana Builders")
	invoice := issueInvoice(t, env, customer, "500.00")

	event, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID: invoice.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    mustDecimal(t, "500.00"),
	})
	require.NoError(t, err)

	reason := "keyed against the wrong invoice"
	reversal, err := env.paymentSvc.ReversePayment(ctx, event.ID, &reason)
	require.NoError(t, err)
	assert.True(t, reversal.Amount.Equal(mustDecimal(t, "-500.00")))
	require.NotNil(t, reversal.ReversesEventID)
	assert.Equal(t, event.ID, *reversal.ReversesEventID)

	refreshed, err := env.invoiceSvc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, refreshed.Status, "reversal reopens the invoice")
	assert.True(t, refreshed.BalanceAmount.Equal(mustDecimal(t, "500.00")))
	assert.Len(t, refreshed.Payments, 2, "the original event is kept")

	t.Run("double reversal rejected", func(t *testing.T) {
		_, err := env.paymentSvc.ReversePayment(ctx, event.ID, nil)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("reversal of a reversal rejected", func(t *testing.T) {
		_, err := env.paymentSvc.ReversePayment(ctx, reversal.ID, nil)
		require.Error(t, err)
	})
}

func TestRecordTripPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trip := env.createTrip(t, enum.TripStatusInProgress)

	record, err := env.paymentSvc.RecordTripPayment(ctx, &RecordTripPaymentInput{
		TripID:           trip.ID,
		DriverID:         trip.DriverID,
		Method:           enum.PaymentMethodCash,
		Amount:           mustDecimal(t, "750.00"),
		ReceiptRequested: true,
	})
	require.NoError(t, err)
	assert.False(t, record.PaymentRecorded, "capture does not reconcile")
	assert.True(t, record.UnreconciledAmount.Equal(mustDecimal(t, "750.00")))

	t.Run("one record per trip", func(t *testing.T) {
		_, err := env.paymentSvc.RecordTripPayment(ctx, &RecordTripPaymentInput{
			TripID:   trip.ID,
			DriverID: trip.DriverID,
			Method:   enum.PaymentMethodCash,
			Amount:   mustDecimal(t, "100.00"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrTripAlreadyRecorded))
	})

	t.Run("receipt only for cash", func(t *testing.T) {
		other := env.createTrip(t, enum.TripStatusInProgress)
		ref := "TXN-5"
		_, err := env.paymentSvc.RecordTripPayment(ctx, &RecordTripPaymentInput{
			TripID:           other.ID,
			DriverID:         other.DriverID,
			Method:           enum.PaymentMethodOnlineBanking,
			Amount:           mustDecimal(t, "100.00"),
			ReferenceNo:      &ref,
			ReceiptRequested: true,
		})
		require.Error(t, err)
	})

	t.Run("non-cash needs a reference in the field too", func(t *testing.T) {
		other := env.createTrip(t, enum.TripStatusInProgress)
		_, err := env.paymentSvc.RecordTripPayment(ctx, &RecordTripPaymentInput{
			TripID:   other.ID,
			DriverID: other.DriverID,
			Method:   enum.PaymentMethodOnlineBanking,
			Amount:   mustDecimal(t, "100.00"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrReferenceRequired))
	})

	t.Run("unknown trip", func(t *testing.T) {
		_, err := env.paymentSvc.RecordTripPayment(ctx, &RecordTripPaymentInput{
			TripID:   uuid.New(),
			DriverID: uuid.New(),
			Method:   enum.PaymentMethodCash,
			Amount:   mustDecimal(t, "100.00"),
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}
