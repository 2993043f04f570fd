package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// TripRepository defines the interface for trip data operations. Trips are
// owned by the fleet registry; the billing core reads them and updates only
// reconciliation bookkeeping.
type TripRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
	GetByTripNo(ctx context.Context, tripNo string) (*entity.Trip, error)
	// GetWithOrders returns the trip with its delivery orders preloaded
	GetWithOrders(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
	Update(ctx context.Context, trip *entity.Trip) error
	List(ctx context.Context, params *TripFilterParams) ([]entity.Trip, int64, error)
}

// TripFilterParams contains filtering parameters for trip queries
type TripFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.TripStatus
	DriverID   *uuid.UUID
}

// TripPaymentRepository defines the interface for field-collected payment
// records. A record is created exactly once per trip; reconciliation updates
// only its bookkeeping fields (payment_recorded, reconciled_at,
// unreconciled_amount).
type TripPaymentRepository interface {
	Create(ctx context.Context, record *entity.TripPaymentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TripPaymentRecord, error)
	GetByTripID(ctx context.Context, tripID uuid.UUID) (*entity.TripPaymentRecord, error)
	Update(ctx context.Context, record *entity.TripPaymentRecord) error
	// ListUnreconciled returns records that are not yet reconciled or that
	// carry a leftover unreconciled amount, for the manual review screen
	ListUnreconciled(ctx context.Context, params *pagination.PaginationParams) ([]entity.TripPaymentRecord, int64, error)
}
