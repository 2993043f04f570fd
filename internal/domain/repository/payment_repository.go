package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// PaymentEventRepository defines the interface for payment event data
// operations. Events are append-only: there is no update or delete; a wrong
// payment is corrected by a compensating event.
type PaymentEventRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentEvent, error)
	ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.PaymentEvent, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]entity.PaymentEvent, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.PaymentEvent, int64, error)
}

// PaymentFilterParams contains filtering parameters for payment event queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	InvoiceNo  string
	Method     *enum.PaymentMethod
	StartDate  *time.Time
	EndDate    *time.Time
}
