package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceSourceType represents how an invoice was originated: aggregated from
// delivery orders, or billed directly to a customer with a manual subtotal.
type InvoiceSourceType int

const (
	InvoiceSourceOrders   InvoiceSourceType = 0
	InvoiceSourceCustomer InvoiceSourceType = 1
)

func (t InvoiceSourceType) String() string {
	names := [...]string{"Orders", "Customer"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Orders"
	}
	return names[t]
}

func (t InvoiceSourceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InvoiceSourceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = InvoiceSourceType(i)
		return nil
	}
	switch str {
	case "Orders":
		*t = InvoiceSourceOrders
	case "Customer":
		*t = InvoiceSourceCustomer
	}
	return nil
}

func (t InvoiceSourceType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *InvoiceSourceType) Scan(value interface{}) error {
	if value == nil {
		*t = InvoiceSourceOrders
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = InvoiceSourceType(v)
	case int:
		*t = InvoiceSourceType(v)
	}
	return nil
}
