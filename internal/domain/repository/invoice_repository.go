package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create persists a committed invoice together with its order links
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error)
	GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// ListByOrderIDs returns invoices that bill any of the given delivery orders
	ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]entity.Invoice, error)
	// ListDue returns Sent invoices whose due date lies before cutoff and whose
	// balance is still positive; used by the overdue sweep
	ListDue(ctx context.Context, cutoff time.Time) ([]entity.Invoice, error)
	// ApplyPaymentEvent persists a payment event and the updated invoice it
	// settles against in a single transaction. One must never exist without
	// the other.
	ApplyPaymentEvent(ctx context.Context, invoice *entity.Invoice, event *entity.PaymentEvent) error
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
