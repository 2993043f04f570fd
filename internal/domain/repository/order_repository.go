package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// DeliveryOrderRepository defines the interface for delivery order data
// operations. Orders are billable facts owned by the order registry; the
// billing core reads them and writes only the invoice binding.
type DeliveryOrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryOrder, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.DeliveryOrder, error)
	GetByTripID(ctx context.Context, tripID uuid.UUID) ([]entity.DeliveryOrder, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.DeliveryOrder, int64, error)
	// MarkInvoiced binds the given orders to an invoice once it is committed
	MarkInvoiced(ctx context.Context, orderIDs []uuid.UUID, invoiceID uuid.UUID) error
	// UnmarkInvoiced releases the binding when an invoice is cancelled so the
	// orders become billable again
	UnmarkInvoiced(ctx context.Context, invoiceID uuid.UUID) error
}

// OrderFilterParams contains filtering parameters for delivery order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CustomerID *uuid.UUID
	// Uninvoiced restricts the listing to orders not yet bound to an invoice
	Uninvoiced bool
}
