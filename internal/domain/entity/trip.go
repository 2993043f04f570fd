package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Trip represents a driver collection trip. Trips are owned by the fleet
// registry; the billing core reads them and records reconciliation bookkeeping.
type Trip struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TripNo      string          `gorm:"size:100;unique;not null" json:"trip_no"`
	DriverID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"driver_id"`
	DriverName  string          `gorm:"size:255" json:"driver_name"`
	Status      enum.TripStatus `gorm:"default:0" json:"status"`
	TripDate    time.Time       `gorm:"type:date;not null" json:"trip_date"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Orders        []DeliveryOrder    `gorm:"foreignKey:TripID" json:"orders,omitempty"`
	PaymentRecord *TripPaymentRecord `gorm:"foreignKey:TripID" json:"payment_record,omitempty"`
}

// BeforeCreate generates a UUID before creating a new trip
func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Trip model
func (Trip) TableName() string {
	return "trips"
}

// TripPaymentRecord is a field-collected payment captured by a driver at the
// point of collection. It is not yet linked to an invoice; reconciliation later
// matches it against the invoices billing the trip's orders.
type TripPaymentRecord struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TripID             uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"trip_id"`
	DriverID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"driver_id"`
	Method             enum.PaymentMethod `gorm:"default:0" json:"method"`
	Amount             decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"amount"`
	ReferenceNo        *string            `gorm:"size:100" json:"reference_no,omitempty"`
	ReceiptRequested   bool               `gorm:"default:false" json:"receipt_requested"`
	PaymentRecorded    bool               `gorm:"default:false;index" json:"payment_recorded"`
	ReconciledAt       *time.Time         `json:"reconciled_at,omitempty"`
	UnreconciledAmount decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"unreconciled_amount"`
	CollectedAt        time.Time          `gorm:"type:date;not null" json:"collected_at"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	// Relationships
	Trip Trip `gorm:"foreignKey:TripID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new trip payment record
func (r *TripPaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TripPaymentRecord model
func (TripPaymentRecord) TableName() string {
	return "trip_payment_records"
}
