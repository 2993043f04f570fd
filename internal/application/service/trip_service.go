package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/pkg/apperror"
)

// TripService exposes read access to the trip registry for console screens.
// Trip lifecycle management belongs to the fleet system; billing only needs
// to look trips up and show their payment state.
type TripService struct {
	tripRepo repository.TripRepository
}

// NewTripService creates a new trip service
func NewTripService(tripRepo repository.TripRepository) *TripService {
	return &TripService{tripRepo: tripRepo}
}

// GetTrip returns a trip with its orders and payment record
func (s *TripService) GetTrip(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	trip, err := s.tripRepo.GetWithOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperror.NewNotFoundError("Trip")
	}
	return trip, nil
}

// GetTripByNo returns a trip looked up by the trip number on the manifest
func (s *TripService) GetTripByNo(ctx context.Context, tripNo string) (*entity.Trip, error) {
	trip, err := s.tripRepo.GetByTripNo(ctx, tripNo)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperror.NewNotFoundError("Trip")
	}
	return trip, nil
}

// ListTrips returns trips matching the filter
func (s *TripService) ListTrips(ctx context.Context, params *repository.TripFilterParams) ([]entity.Trip, int64, error) {
	return s.tripRepo.List(ctx, params)
}
