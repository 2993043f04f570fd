package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newSentInvoice(subTotal, taxRate string) *Invoice {
	inv := &Invoice{
		SubTotal:  dec(subTotal),
		TaxRate:   dec(taxRate),
		Status:    enum.InvoiceStatusSent,
		IssueDate: time.Now(),
		DueDate:   time.Now().AddDate(0, 0, 30),
	}
	inv.Recalculate()
	return inv
}

func TestInvoiceRecalculate(t *testing.T) {
	tests := []struct {
		name     string
		subTotal string
		taxRate  string
		wantTax  string
		wantTot  string
	}{
		{"no tax", "800.00", "0", "0.00", "800.00"},
		{"six percent", "800.00", "6", "48.00", "848.00"},
		{"six percent larger", "1850.00", "6", "111.00", "1961.00"},
		{"rounds half up", "33.33", "6", "2.00", "35.33"},
		{"half cent rounds up", "12.25", "6", "0.74", "12.99"},
		{"rounding boundary", "10.75", "7", "0.75", "11.50"},
		{"ten percent", "123.45", "10", "12.35", "135.80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{SubTotal: dec(tt.subTotal), TaxRate: dec(tt.taxRate)}
			inv.Recalculate()

			assert.True(t, inv.TaxAmount.Equal(dec(tt.wantTax)),
				"tax = %s, want %s", inv.TaxAmount, tt.wantTax)
			assert.True(t, inv.TotalAmount.Equal(dec(tt.wantTot)),
				"total = %s, want %s", inv.TotalAmount, tt.wantTot)
			assert.True(t, inv.BalanceAmount.Equal(inv.TotalAmount))
		})
	}
}

func TestInvoiceRecalculateClampsBalance(t *testing.T) {
	inv := &Invoice{SubTotal: dec("100.00"), TaxRate: dec("0"), PaidAmount: dec("150.00")}
	inv.Recalculate()

	assert.True(t, inv.BalanceAmount.IsZero(), "balance never goes negative, got %s", inv.BalanceAmount)
}

func TestInvoiceSend(t *testing.T) {
	inv := &Invoice{Status: enum.InvoiceStatusDraft}
	require.NoError(t, inv.Send())
	assert.Equal(t, enum.InvoiceStatusSent, inv.Status)

	err := inv.Send()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, apperror.KindInvalidTransition, appErr.Kind)
}

func TestInvoiceApplyPayment(t *testing.T) {
	t.Run("full payment settles the invoice", func(t *testing.T) {
		inv := newSentInvoice("800.00", "6")
		require.NoError(t, inv.ApplyPayment(dec("848.00")))

		assert.Equal(t, enum.InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.BalanceAmount.IsZero())
	})

	t.Run("partial payment keeps the invoice open", func(t *testing.T) {
		inv := newSentInvoice("800.00", "6")
		require.NoError(t, inv.ApplyPayment(dec("500.00")))

		assert.Equal(t, enum.InvoiceStatusSent, inv.Status)
		assert.True(t, inv.BalanceAmount.Equal(dec("348.00")))
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		inv := newSentInvoice("800.00", "0")
		err := inv.ApplyPayment(dec("800.01"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrOverpayment))
		assert.True(t, inv.PaidAmount.IsZero(), "a rejected payment leaves nothing behind")
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		inv := newSentInvoice("800.00", "0")
		require.Error(t, inv.ApplyPayment(decimal.Zero))
	})

	t.Run("payment against a draft is rejected", func(t *testing.T) {
		inv := &Invoice{SubTotal: dec("100.00"), Status: enum.InvoiceStatusDraft}
		inv.Recalculate()

		err := inv.ApplyPayment(dec("100.00"))
		require.Error(t, err)
		assert.Equal(t, apperror.KindInvalidTransition, apperror.GetAppError(err).Kind)
	})

	t.Run("payment cures an overdue invoice", func(t *testing.T) {
		inv := newSentInvoice("800.00", "0")
		inv.Status = enum.InvoiceStatusOverdue

		require.NoError(t, inv.ApplyPayment(dec("300.00")))
		assert.Equal(t, enum.InvoiceStatusSent, inv.Status, "partial cure reopens as Sent")

		require.NoError(t, inv.ApplyPayment(dec("500.00")))
		assert.Equal(t, enum.InvoiceStatusPaid, inv.Status)
	})

	t.Run("reversal reopens a settled invoice", func(t *testing.T) {
		inv := newSentInvoice("800.00", "0")
		require.NoError(t, inv.ApplyPayment(dec("800.00")))
		require.Equal(t, enum.InvoiceStatusPaid, inv.Status)

		require.NoError(t, inv.ApplyPayment(dec("800.00").Neg()))
		assert.Equal(t, enum.InvoiceStatusSent, inv.Status)
		assert.True(t, inv.BalanceAmount.Equal(dec("800.00")))
	})

	t.Run("reversal cannot exceed paid amount", func(t *testing.T) {
		inv := newSentInvoice("800.00", "0")
		require.NoError(t, inv.ApplyPayment(dec("100.00")))

		err := inv.ApplyPayment(dec("200.00").Neg())
		require.Error(t, err)
	})
}

func TestInvoiceMarkOverdue(t *testing.T) {
	now := time.Now()

	t.Run("flips a lapsed sent invoice", func(t *testing.T) {
		inv := newSentInvoice("500.00", "0")
		inv.DueDate = now.AddDate(0, 0, -1)

		assert.True(t, inv.MarkOverdue(now))
		assert.Equal(t, enum.InvoiceStatusOverdue, inv.Status)

		// Second call is a no-op
		assert.False(t, inv.MarkOverdue(now))
		assert.Equal(t, enum.InvoiceStatusOverdue, inv.Status)
	})

	t.Run("ignores an invoice still within terms", func(t *testing.T) {
		inv := newSentInvoice("500.00", "0")
		inv.DueDate = now.AddDate(0, 0, 5)

		assert.False(t, inv.MarkOverdue(now))
		assert.Equal(t, enum.InvoiceStatusSent, inv.Status)
	})

	t.Run("ignores a settled invoice", func(t *testing.T) {
		inv := newSentInvoice("500.00", "0")
		require.NoError(t, inv.ApplyPayment(dec("500.00")))
		inv.DueDate = now.AddDate(0, 0, -1)

		assert.False(t, inv.MarkOverdue(now))
		assert.Equal(t, enum.InvoiceStatusPaid, inv.Status)
	})
}

func TestInvoiceCancel(t *testing.T) {
	t.Run("cancels an unpaid invoice", func(t *testing.T) {
		inv := newSentInvoice("500.00", "0")
		require.NoError(t, inv.Cancel())
		assert.Equal(t, enum.InvoiceStatusCancelled, inv.Status)
	})

	t.Run("blocked when any payment is applied", func(t *testing.T) {
		inv := newSentInvoice("500.00", "0")
		require.NoError(t, inv.ApplyPayment(dec("100.00")))

		err := inv.Cancel()
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrCancellationBlocked))
	})

	t.Run("allowed again after a full reversal", func(t *testing.T) {
		inv := newSentInvoice("500.00", "0")
		require.NoError(t, inv.ApplyPayment(dec("100.00")))
		require.NoError(t, inv.ApplyPayment(dec("100.00").Neg()))

		require.NoError(t, inv.Cancel())
	})

	t.Run("rejected for a paid invoice", func(t *testing.T) {
		inv := newSentInvoice("500.00", "0")
		require.NoError(t, inv.ApplyPayment(dec("500.00")))
		require.Error(t, inv.Cancel())
	})
}

func TestIsRecognizedTaxRate(t *testing.T) {
	assert.True(t, IsRecognizedTaxRate(dec("0")))
	assert.True(t, IsRecognizedTaxRate(dec("6")))
	assert.True(t, IsRecognizedTaxRate(dec("7")))
	assert.True(t, IsRecognizedTaxRate(dec("10")))
	assert.False(t, IsRecognizedTaxRate(dec("5")))
	assert.False(t, IsRecognizedTaxRate(dec("16")))
}
