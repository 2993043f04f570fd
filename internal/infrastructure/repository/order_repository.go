package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	domainRepo "github.com/skipworks/skipflow-api/internal/domain/repository"
	"gorm.io/gorm"
)

type deliveryOrderRepository struct {
	db *gorm.DB
}

// NewDeliveryOrderRepository creates a new delivery order repository
func NewDeliveryOrderRepository(db *gorm.DB) domainRepo.DeliveryOrderRepository {
	return &deliveryOrderRepository{db: db}
}

func (r *deliveryOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryOrder, error) {
	var order entity.DeliveryOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *deliveryOrderRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.DeliveryOrder, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var orders []entity.DeliveryOrder
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&orders).Error
	return orders, err
}

func (r *deliveryOrderRepository) GetByTripID(ctx context.Context, tripID uuid.UUID) ([]entity.DeliveryOrder, error) {
	var orders []entity.DeliveryOrder
	err := r.db.WithContext(ctx).Where("trip_id = ?", tripID).Find(&orders).Error
	return orders, err
}

func (r *deliveryOrderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.DeliveryOrder, int64, error) {
	var orders []entity.DeliveryOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DeliveryOrder{})

	if params.Search != "" {
		query = query.Where("order_no LIKE ? OR customer_name LIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.Uninvoiced {
		query = query.Where("invoice_id IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("service_date DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *deliveryOrderRepository) MarkInvoiced(ctx context.Context, orderIDs []uuid.UUID, invoiceID uuid.UUID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DeliveryOrder{}).
		Where("id IN ?", orderIDs).
		Update("invoice_id", invoiceID).Error
}

func (r *deliveryOrderRepository) UnmarkInvoiced(ctx context.Context, invoiceID uuid.UUID) error {
	// The link rows must go with the binding: invoice_orders.order_id is
	// unique, so a leftover row would block the order from being billed again.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).
			Delete(&entity.InvoiceOrder{}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.DeliveryOrder{}).
			Where("invoice_id = ?", invoiceID).
			Update("invoice_id", nil).Error
	})
}
