package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus int

const (
	InvoiceStatusDraft     InvoiceStatus = 0
	InvoiceStatusSent      InvoiceStatus = 1
	InvoiceStatusPaid      InvoiceStatus = 2
	InvoiceStatusOverdue   InvoiceStatus = 3
	InvoiceStatusCancelled InvoiceStatus = 4
)

func (s InvoiceStatus) String() string {
	names := [...]string{"Draft", "Sent", "Paid", "Overdue", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Draft"
	}
	return names[s]
}

// IsTerminal returns true when no further transition is possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// CanCancel returns true if the status permits cancellation (monetary
// preconditions are checked separately)
func (s InvoiceStatus) CanCancel() bool {
	return s != InvoiceStatusPaid && s != InvoiceStatusCancelled
}

// ParseInvoiceStatus converts a display name into an InvoiceStatus
func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	switch str {
	case "Draft":
		return InvoiceStatusDraft, nil
	case "Sent":
		return InvoiceStatusSent, nil
	case "Paid":
		return InvoiceStatusPaid, nil
	case "Overdue":
		return InvoiceStatusOverdue, nil
	case "Cancelled":
		return InvoiceStatusCancelled, nil
	}
	return InvoiceStatusDraft, fmt.Errorf("unknown invoice status: %q", str)
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = InvoiceStatusDraft
	case "Sent":
		*s = InvoiceStatusSent
	case "Paid":
		*s = InvoiceStatusPaid
	case "Overdue":
		*s = InvoiceStatusOverdue
	case "Cancelled":
		*s = InvoiceStatusCancelled
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
