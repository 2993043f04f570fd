package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	infraRepo "github.com/skipworks/skipflow-api/internal/infrastructure/repository"
	"github.com/skipworks/skipflow-api/pkg/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database
type testEnv struct {
	db          *gorm.DB
	invoiceSvc  *InvoiceService
	paymentSvc  *PaymentService
	reconSvc    *ReconciliationService
	tripSvc     *TripService
	customerSvc *CustomerService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entity.Customer{},
		&entity.DeliveryOrder{},
		&entity.Trip{},
		&entity.Invoice{},
		&entity.InvoiceOrder{},
		&entity.PaymentEvent{},
		&entity.TripPaymentRecord{},
		&entity.IdempotencyKey{},
	)
	require.NoError(t, err)

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	log := zap.NewNop()

	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	paymentRepo := infraRepo.NewPaymentEventRepository(db)
	orderRepo := infraRepo.NewDeliveryOrderRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	tripRepo := infraRepo.NewTripRepository(db)
	tripPaymentRepo := infraRepo.NewTripPaymentRepository(db)

	locker := NewKeyedLocker()
	invoiceSvc := NewInvoiceService(invoiceRepo, orderRepo, customerRepo, locker, nil, log, InvoiceServiceConfig{})
	paymentSvc := NewPaymentService(invoiceRepo, paymentRepo, tripRepo, tripPaymentRepo, locker, log)
	reconSvc := NewReconciliationService(invoiceRepo, orderRepo, paymentRepo, tripRepo, tripPaymentRepo, paymentSvc, locker, log)

	return &testEnv{
		db:          db,
		invoiceSvc:  invoiceSvc,
		paymentSvc:  paymentSvc,
		reconSvc:    reconSvc,
		tripSvc:     NewTripService(tripRepo),
		customerSvc: NewCustomerService(customerRepo),
	}
}

func (e *testEnv) createCustomer(t *testing.T, name string) *entity.Customer {
	t.Helper()

	customer := &entity.Customer{Name: name}
	require.NoError(t, e.db.Create(customer).Error)
	return customer
}

func (e *testEnv) createTrip(t *testing.T, status enum.TripStatus) *entity.Trip {
	t.Helper()

	trip := &entity.Trip{
		TripNo:     utils.GenerateTripNo(),
		DriverID:   uuid.New(),
		DriverName: "Test Driver",
		Status:     status,
		TripDate:   time.Now(),
	}
	require.NoError(t, e.db.Create(trip).Error)
	return trip
}

func (e *testEnv) createOrder(t *testing.T, customer *entity.Customer, amount string, tripID *uuid.UUID) *entity.DeliveryOrder {
	t.Helper()

	order := &entity.DeliveryOrder{
		OrderNo:      utils.GenerateOrderNo(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ServiceDate:  time.Now(),
		Amount:       mustDecimal(t, amount),
		TripID:       tripID,
	}
	require.NoError(t, e.db.Create(order).Error)
	return order
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
