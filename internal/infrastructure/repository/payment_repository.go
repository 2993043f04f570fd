package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	domainRepo "github.com/skipworks/skipflow-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentEventRepository struct {
	db *gorm.DB
}

// NewPaymentEventRepository creates a new payment event repository
func NewPaymentEventRepository(db *gorm.DB) domainRepo.PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentEvent, error) {
	var event entity.PaymentEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &event, err
}

func (r *paymentEventRepository) ListByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.PaymentEvent, error) {
	var events []entity.PaymentEvent
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *paymentEventRepository) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]entity.PaymentEvent, error) {
	var events []entity.PaymentEvent
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *paymentEventRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.PaymentEvent, int64, error) {
	var events []entity.PaymentEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PaymentEvent{})

	if params.InvoiceNo != "" {
		query = query.Where("invoice_no LIKE ?", "%"+params.InvoiceNo+"%")
	}

	if params.Method != nil {
		query = query.Where("method = ?", *params.Method)
	}

	if params.StartDate != nil {
		query = query.Where("paid_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("paid_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&events).Error

	return events, total, err
}
