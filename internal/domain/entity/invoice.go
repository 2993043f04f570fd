package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"gorm.io/gorm"
)

// RecognizedTaxRates are the tax percentages the builder accepts.
var RecognizedTaxRates = []decimal.Decimal{
	decimal.NewFromInt(0),
	decimal.NewFromInt(6),
	decimal.NewFromInt(7),
	decimal.NewFromInt(10),
}

// IsRecognizedTaxRate reports whether rate is one of the accepted percentages
func IsRecognizedTaxRate(rate decimal.Decimal) bool {
	for _, r := range RecognizedTaxRates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// Invoice represents a billing document for skip rental and collection services.
// Monetary fields are derived exclusively through Recalculate and ApplyPayment;
// nothing outside this type writes them directly.
type Invoice struct {
	ID               uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo        string                 `gorm:"size:100;unique;not null" json:"invoice_no"`
	SourceType       enum.InvoiceSourceType `gorm:"default:0" json:"source_type"`
	CustomerID       uuid.UUID              `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName     string                 `gorm:"size:255" json:"customer_name"`
	SubTotal         decimal.Decimal        `gorm:"type:decimal(15,2);default:0" json:"sub_total"`
	TaxRate          decimal.Decimal        `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	TaxAmount        decimal.Decimal        `gorm:"type:decimal(15,2);default:0" json:"tax_amount"`
	TotalAmount      decimal.Decimal        `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	PaidAmount       decimal.Decimal        `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	BalanceAmount    decimal.Decimal        `gorm:"type:decimal(15,2);default:0" json:"balance_amount"`
	Status           enum.InvoiceStatus     `gorm:"default:0;index" json:"status"`
	IssueDate        time.Time              `gorm:"type:date;not null" json:"issue_date"`
	DueDate          time.Time              `gorm:"type:date;not null;index" json:"due_date"`
	PaymentTermsDays int                    `gorm:"default:30" json:"payment_terms_days"`
	LastReminderDate *time.Time             `gorm:"type:date" json:"last_reminder_date,omitempty"`
	Currency         string                 `gorm:"size:3;not null" json:"currency"`
	OriginalCurrency *string                `gorm:"size:3" json:"original_currency,omitempty"`
	ExchangeRate     *decimal.Decimal       `gorm:"type:decimal(15,6)" json:"exchange_rate,omitempty"`
	Note             *string                `gorm:"type:text" json:"note,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	DeletedAt        gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Orders   []InvoiceOrder `gorm:"foreignKey:InvoiceID" json:"orders,omitempty"`
	Payments []PaymentEvent `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Recalculate recomputes the derived monetary fields from sub_total, tax_rate
// and paid_amount. Tax is rounded half-up to 2 decimal places at the point it
// is computed; the total is the plain sum and is never re-rounded.
func (i *Invoice) Recalculate() {
	i.TaxAmount = i.SubTotal.Mul(i.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	i.TotalAmount = i.SubTotal.Add(i.TaxAmount)
	i.BalanceAmount = i.TotalAmount.Sub(i.PaidAmount)
	if i.BalanceAmount.IsNegative() {
		i.BalanceAmount = decimal.Zero
	}
}

// Send transitions the invoice from Draft to Sent
func (i *Invoice) Send() error {
	if i.Status != enum.InvoiceStatusDraft {
		return apperror.NewInvalidTransitionError(i.Status.String(), "send")
	}
	i.Status = enum.InvoiceStatusSent
	return nil
}

// ApplyPayment adds amount to paid_amount and advances the status. A positive
// amount may not exceed the outstanding balance; a negative amount reverses a
// prior payment and may reopen a settled invoice.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if amount.IsZero() {
		return apperror.NewUnprocessableError(apperror.KindInvalidPaymentAmount, "Payment amount must not be zero")
	}
	if amount.IsPositive() {
		if !i.Status.CanApplyPayment() {
			return apperror.NewInvalidTransitionError(i.Status.String(), "record a payment against")
		}
		if amount.GreaterThan(i.BalanceAmount) {
			return apperror.ErrOverpayment
		}
	} else {
		if i.PaidAmount.Add(amount).IsNegative() {
			return apperror.NewUnprocessableError(apperror.KindInvalidPaymentAmount, "Reversal exceeds the recorded paid amount")
		}
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	i.Recalculate()

	if i.BalanceAmount.IsZero() {
		i.Status = enum.InvoiceStatusPaid
	} else if i.Status == enum.InvoiceStatusOverdue || i.Status == enum.InvoiceStatusPaid {
		// A partial cure or a reversal leaves outstanding work
		i.Status = enum.InvoiceStatusSent
	}
	return nil
}

// MarkOverdue flips a Sent invoice to Overdue once the due date has lapsed with
// a balance outstanding. It is idempotent and a no-op in any other status.
func (i *Invoice) MarkOverdue(now time.Time) bool {
	if i.Status != enum.InvoiceStatusSent {
		return false
	}
	if !i.DueDate.Before(now) || !i.BalanceAmount.IsPositive() {
		return false
	}
	i.Status = enum.InvoiceStatusOverdue
	return true
}

// Cancel transitions the invoice to Cancelled. An invoice with any payment
// applied must be reversed through compensating payment events first.
func (i *Invoice) Cancel() error {
	if !i.Status.CanCancel() {
		return apperror.NewInvalidTransitionError(i.Status.String(), "cancel")
	}
	if i.PaidAmount.IsPositive() {
		return apperror.ErrCancellationBlocked
	}
	i.Status = enum.InvoiceStatusCancelled
	return nil
}

// InvoiceOrder links an invoice to a delivery order it bills, capturing the
// order amount at build time.
type InvoiceOrder struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	OrderNo   string          `gorm:"size:100" json:"order_no"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Invoice Invoice       `gorm:"foreignKey:InvoiceID" json:"-"`
	Order   DeliveryOrder `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice order link
func (io *InvoiceOrder) BeforeCreate(tx *gorm.DB) error {
	if io.ID == uuid.Nil {
		io.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceOrder model
func (InvoiceOrder) TableName() string {
	return "invoice_orders"
}
