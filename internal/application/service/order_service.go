package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/pkg/apperror"
)

// OrderService exposes read access to the delivery order registry: the
// billable facts invoices are built from. The registry itself is maintained
// by the operations system.
type OrderService struct {
	orderRepo repository.DeliveryOrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.DeliveryOrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetOrder returns a delivery order by id
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.DeliveryOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Delivery order")
	}
	return order, nil
}

// ListOrders returns delivery orders matching the filter
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) ([]entity.DeliveryOrder, int64, error) {
	return s.orderRepo.List(ctx, params)
}
