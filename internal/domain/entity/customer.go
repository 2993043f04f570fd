package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a billing customer. Customer records are owned by the
// customer registry; the billing core only reads them.
type Customer struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	Email             *string        `gorm:"size:255" json:"email,omitempty"`
	Phone             *string        `gorm:"size:50" json:"phone,omitempty"`
	BillingAddress    *string        `gorm:"type:text" json:"billing_address,omitempty"`
	TaxRegistrationNo *string        `gorm:"size:50" json:"tax_registration_no,omitempty"`
	PaymentTermsDays  *int           `json:"payment_terms_days,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders   []DeliveryOrder `gorm:"foreignKey:CustomerID" json:"-"`
	Invoices []Invoice       `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
