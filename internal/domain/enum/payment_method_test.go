package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethodInstrumentRules(t *testing.T) {
	tests := []struct {
		method       PaymentMethod
		name         string
		reference    bool
		bankDetails  bool
		ewalletPlumb bool
	}{
		{PaymentMethodCash, "Cash", false, false, false},
		{PaymentMethodBankTransfer, "Bank Transfer", true, true, false},
		{PaymentMethodOnlineBanking, "Online Banking", true, false, false},
		{PaymentMethodCashDepositMachine, "Cash Deposit Machine", true, false, false},
		{PaymentMethodEWallet, "E-Wallet", true, false, true},
		{PaymentMethodCheque, "Cheque", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.method.IsValid())
			assert.Equal(t, tt.name, tt.method.String())
			assert.Equal(t, tt.reference, tt.method.RequiresReference())
			assert.Equal(t, tt.bankDetails, tt.method.RequiresBankDetails())
			assert.Equal(t, tt.ewalletPlumb, tt.method.RequiresEWalletDetails())
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("Bank Transfer")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodBankTransfer, m)

	_, err = ParsePaymentMethod("Barter")
	require.Error(t, err)
}

func TestPaymentMethodIsValid(t *testing.T) {
	assert.False(t, PaymentMethod(-1).IsValid())
	assert.False(t, PaymentMethod(6).IsValid())
}

func TestInvoiceStatusPredicates(t *testing.T) {
	assert.True(t, InvoiceStatusPaid.IsTerminal())
	assert.True(t, InvoiceStatusCancelled.IsTerminal())
	assert.False(t, InvoiceStatusSent.IsTerminal())

	assert.True(t, InvoiceStatusSent.CanApplyPayment())
	assert.True(t, InvoiceStatusOverdue.CanApplyPayment())
	assert.False(t, InvoiceStatusDraft.CanApplyPayment())
	assert.False(t, InvoiceStatusPaid.CanApplyPayment())
	assert.False(t, InvoiceStatusCancelled.CanApplyPayment())

	assert.True(t, InvoiceStatusDraft.CanCancel())
	assert.True(t, InvoiceStatusSent.CanCancel())
	assert.True(t, InvoiceStatusOverdue.CanCancel())
	assert.False(t, InvoiceStatusPaid.CanCancel())
	assert.False(t, InvoiceStatusCancelled.CanCancel())
}

func TestParseInvoiceStatus(t *testing.T) {
	s, err := ParseInvoiceStatus("Overdue")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusOverdue, s)

	_, err = ParseInvoiceStatus("Lost")
	require.Error(t, err)
}
