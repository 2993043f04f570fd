package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PaymentEvent is an immutable record of an amount paid against an invoice via
// a specific instrument. Events are only ever appended; a mistaken payment is
// corrected by a compensating negative-amount event, never by mutation.
type PaymentEvent struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"invoice_id"`
	InvoiceNo       string             `gorm:"size:100;not null;index" json:"invoice_no"`
	TripID          *uuid.UUID         `gorm:"type:uuid;index" json:"trip_id,omitempty"`
	Method          enum.PaymentMethod `gorm:"default:0" json:"method"`
	Amount          decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAt          time.Time          `gorm:"type:date;not null" json:"paid_at"`
	ReferenceNo     *string            `gorm:"size:100" json:"reference_no,omitempty"`
	BankName        *string            `gorm:"size:255" json:"bank_name,omitempty"`
	BankAccount     *string            `gorm:"size:100" json:"bank_account,omitempty"`
	EWalletProvider *string            `gorm:"size:100" json:"ewallet_provider,omitempty"`
	EWalletNumber   *string            `gorm:"size:100" json:"ewallet_number,omitempty"`
	Note            *string            `gorm:"type:text" json:"note,omitempty"`
	ReversesEventID *uuid.UUID         `gorm:"type:uuid;index" json:"reverses_event_id,omitempty"`
	RecordedBy      *uuid.UUID         `gorm:"type:uuid" json:"recorded_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment event
func (p *PaymentEvent) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentEvent model
func (PaymentEvent) TableName() string {
	return "payment_events"
}

// IsReversal reports whether this event compensates an earlier one
func (p *PaymentEvent) IsReversal() bool {
	return p.ReversesEventID != nil || p.Amount.IsNegative()
}
