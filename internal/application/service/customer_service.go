package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"github.com/skipworks/skipflow-api/pkg/pagination"
)

// CustomerService exposes read access to the customer registry for console
// screens and invoice building.
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// GetCustomer returns a customer by id
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers returns customers matching the search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, params, search)
}
