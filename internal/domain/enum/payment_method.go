package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod represents the instrument used to settle an invoice
type PaymentMethod int

const (
	PaymentMethodCash               PaymentMethod = 0
	PaymentMethodBankTransfer       PaymentMethod = 1
	PaymentMethodOnlineBanking      PaymentMethod = 2
	PaymentMethodCashDepositMachine PaymentMethod = 3
	PaymentMethodEWallet            PaymentMethod = 4
	PaymentMethodCheque             PaymentMethod = 5
)

var paymentMethodNames = [...]string{
	"Cash",
	"Bank Transfer",
	"Online Banking",
	"Cash Deposit Machine",
	"E-Wallet",
	"Cheque",
}

func (m PaymentMethod) String() string {
	if int(m) < 0 || int(m) >= len(paymentMethodNames) {
		return "Cash"
	}
	return paymentMethodNames[m]
}

// IsValid reports whether the value is a known payment method
func (m PaymentMethod) IsValid() bool {
	return int(m) >= 0 && int(m) < len(paymentMethodNames)
}

// RequiresReference returns true for every instrument except cash; a
// transaction/slip reference is mandatory when recording such a payment.
func (m PaymentMethod) RequiresReference() bool {
	return m != PaymentMethodCash
}

// RequiresBankDetails returns true when the payment must carry the payer's
// bank name and account number.
func (m PaymentMethod) RequiresBankDetails() bool {
	return m == PaymentMethodBankTransfer
}

// RequiresEWalletDetails returns true when the payment must carry the
// e-wallet provider and wallet number.
func (m PaymentMethod) RequiresEWalletDetails() bool {
	return m == PaymentMethodEWallet
}

// ParsePaymentMethod converts a display name into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for i, name := range paymentMethodNames {
		if name == s {
			return PaymentMethod(i), nil
		}
	}
	return PaymentMethodCash, fmt.Errorf("unknown payment method: %q", s)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
