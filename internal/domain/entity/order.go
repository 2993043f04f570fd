package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryOrder is an immutable billable fact supplied by the order registry:
// a skip delivery or collection performed for a customer at a service date,
// with the amount charged for it. The billing core reads these and records the
// invoice binding once an order has been billed; it never changes the service
// facts themselves.
type DeliveryOrder struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderNo      string          `gorm:"size:100;unique;not null" json:"order_no"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName string          `gorm:"size:255" json:"customer_name"`
	ServiceDate  time.Time       `gorm:"type:date;not null" json:"service_date"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	BinSerialNo  *string         `gorm:"size:100" json:"bin_serial_no,omitempty"`
	TripID       *uuid.UUID      `gorm:"type:uuid;index" json:"trip_id,omitempty"`
	InvoiceID    *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Trip     *Trip     `gorm:"foreignKey:TripID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new delivery order
func (o *DeliveryOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DeliveryOrder model
func (DeliveryOrder) TableName() string {
	return "delivery_orders"
}

// IsInvoiced reports whether the order has already been billed
func (o *DeliveryOrder) IsInvoiced() bool {
	return o.InvoiceID != nil
}
