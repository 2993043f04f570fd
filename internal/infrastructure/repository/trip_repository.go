package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	domainRepo "github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/pkg/pagination"
	"gorm.io/gorm"
)

type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *gorm.DB) domainRepo.TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	var trip entity.Trip
	err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &trip, err
}

func (r *tripRepository) GetByTripNo(ctx context.Context, tripNo string) (*entity.Trip, error) {
	var trip entity.Trip
	err := r.db.WithContext(ctx).First(&trip, "trip_no = ?", tripNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &trip, err
}

func (r *tripRepository) GetWithOrders(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	var trip entity.Trip
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Preload("PaymentRecord").
		First(&trip, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &trip, err
}

func (r *tripRepository) Update(ctx context.Context, trip *entity.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

func (r *tripRepository) List(ctx context.Context, params *domainRepo.TripFilterParams) ([]entity.Trip, int64, error) {
	var trips []entity.Trip
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Trip{})

	if params.Search != "" {
		query = query.Where("trip_no LIKE ? OR driver_name LIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.DriverID != nil {
		query = query.Where("driver_id = ?", *params.DriverID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("PaymentRecord").
		Order("created_at DESC").
		Find(&trips).Error

	return trips, total, err
}

type tripPaymentRepository struct {
	db *gorm.DB
}

// NewTripPaymentRepository creates a new trip payment record repository
func NewTripPaymentRepository(db *gorm.DB) domainRepo.TripPaymentRepository {
	return &tripPaymentRepository{db: db}
}

func (r *tripPaymentRepository) Create(ctx context.Context, record *entity.TripPaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *tripPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TripPaymentRecord, error) {
	var record entity.TripPaymentRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *tripPaymentRepository) GetByTripID(ctx context.Context, tripID uuid.UUID) (*entity.TripPaymentRecord, error) {
	var record entity.TripPaymentRecord
	err := r.db.WithContext(ctx).First(&record, "trip_id = ?", tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *tripPaymentRepository) Update(ctx context.Context, record *entity.TripPaymentRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *tripPaymentRepository) ListUnreconciled(ctx context.Context, params *pagination.PaginationParams) ([]entity.TripPaymentRecord, int64, error) {
	var records []entity.TripPaymentRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.TripPaymentRecord{}).
		Where("payment_recorded = ? OR unreconciled_amount > 0", false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&records).Error

	return records, total, err
}
