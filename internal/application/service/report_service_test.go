package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	infraRepo "github.com/skipworks/skipflow-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceivablesSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reportSvc := NewReportService(infraRepo.NewReportRepository(env.db))
	customer := env.createCustomer(t, "Perdana Builders")

	// Sent invoice with a partial payment
	partial := issueInvoice(t, env, customer, "800.00")
	_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID: partial.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    mustDecimal(t, "300.00"),
	})
	require.NoError(t, err)

	// Lapsed invoice flipped to overdue
	lapsedIssue := time.Now().AddDate(0, 0, -45)
	order := env.createOrder(t, customer, "500.00", nil)
	lapsed, err := env.invoiceSvc.CreateInvoice(ctx, &BuildInvoiceInput{
		SourceType: enum.InvoiceSourceOrders,
		OrderIDs:   []uuid.UUID{order.ID},
		IssueDate:  &lapsedIssue,
	})
	require.NoError(t, err)
	_, err = env.invoiceSvc.SendInvoice(ctx, lapsed.ID)
	require.NoError(t, err)
	_, err = env.invoiceSvc.MarkOverdue(ctx, lapsed.ID)
	require.NoError(t, err)

	// Cancelled invoice must not count
	manualSubTotal := mustDecimal(t, "9999.00")
	cancelled, err := env.invoiceSvc.CreateInvoice(ctx, &BuildInvoiceInput{
		SourceType:     enum.InvoiceSourceCustomer,
		CustomerID:     &customer.ID,
		ManualSubTotal: &manualSubTotal,
	})
	require.NoError(t, err)
	_, err = env.invoiceSvc.CancelInvoice(ctx, cancelled.ID)
	require.NoError(t, err)

	summary, err := reportSvc.GetReceivablesSummary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.InvoiceCount)
	assert.True(t, summary.TotalInvoiced.Equal(mustDecimal(t, "1300.00")))
	assert.True(t, summary.TotalPaid.Equal(mustDecimal(t, "300.00")))
	assert.True(t, summary.TotalOutstanding.Equal(mustDecimal(t, "1000.00")))
	assert.EqualValues(t, 1, summary.OverdueCount)
	assert.True(t, summary.OverdueOutstanding.Equal(mustDecimal(t, "500.00")))
}

func TestMethodBreakdown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reportSvc := NewReportService(infraRepo.NewReportRepository(env.db))
	customer := env.createCustomer(t, "Suria Recycling")
	invoice := issueInvoice(t, env, customer, "1000.00")

	_, err := env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID: invoice.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    mustDecimal(t, "200.00"),
	})
	require.NoError(t, err)
	_, err = env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID: invoice.ID,
		Method:    enum.PaymentMethodCash,
		Amount:    mustDecimal(t, "100.00"),
	})
	require.NoError(t, err)

	ref := "TXN-1"
	bank := "Maybank"
	account := "1234"
	_, err = env.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		InvoiceID:   invoice.ID,
		Method:      enum.PaymentMethodBankTransfer,
		Amount:      mustDecimal(t, "500.00"),
		ReferenceNo: &ref,
		BankName:    &bank,
		BankAccount: &account,
	})
	require.NoError(t, err)

	rows, err := reportSvc.GetMethodBreakdown(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, enum.PaymentMethodCash, rows[0].Method)
	assert.EqualValues(t, 2, rows[0].Count)
	assert.True(t, rows[0].Total.Equal(mustDecimal(t, "300.00")))

	assert.Equal(t, enum.PaymentMethodBankTransfer, rows[1].Method)
	assert.EqualValues(t, 1, rows[1].Count)
	assert.True(t, rows[1].Total.Equal(mustDecimal(t, "500.00")))
}

func TestAgingBuckets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reportSvc := NewReportService(infraRepo.NewReportRepository(env.db))
	customer := env.createCustomer(t, "Hock Lee")

	// Default terms are 30 days, so issue age minus 30 is days overdue
	issueAt := func(daysAgo int, amount string) {
		issue := time.Now().AddDate(0, 0, -daysAgo)
		order := env.createOrder(t, customer, amount, nil)
		invoice, err := env.invoiceSvc.CreateInvoice(ctx, &BuildInvoiceInput{
			SourceType: enum.InvoiceSourceOrders,
			OrderIDs:   []uuid.UUID{order.ID},
			IssueDate:  &issue,
		})
		require.NoError(t, err)
		_, err = env.invoiceSvc.SendInvoice(ctx, invoice.ID)
		require.NoError(t, err)
	}

	issueAt(0, "100.00")   // due in 30 days: current
	issueAt(45, "200.00")  // 15 days overdue: 1-30
	issueAt(80, "400.00")  // 50 days overdue: 31-60
	issueAt(200, "800.00") // 170 days overdue: 90+

	buckets, err := reportSvc.GetAgingBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 5)

	byLabel := make(map[string]struct {
		count       int64
		outstanding string
	})
	for _, b := range buckets {
		byLabel[b.Bucket] = struct {
			count       int64
			outstanding string
		}{b.InvoiceCount, b.Outstanding.StringFixed(2)}
	}

	assert.Equal(t, int64(1), byLabel["current"].count)
	assert.Equal(t, "100.00", byLabel["current"].outstanding)
	assert.Equal(t, "200.00", byLabel["1-30"].outstanding)
	assert.Equal(t, "400.00", byLabel["31-60"].outstanding)
	assert.Equal(t, int64(0), byLabel["61-90"].count)
	assert.Equal(t, "800.00", byLabel["90+"].outstanding)
}
