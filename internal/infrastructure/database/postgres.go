package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/config"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Registry entities (owned upstream, mirrored here)
		&entity.Customer{},
		&entity.DeliveryOrder{},
		&entity.Trip{},

		// Invoice and payment entities
		&entity.Invoice{},
		&entity.InvoiceOrder{},
		&entity.PaymentEvent{},
		&entity.TripPaymentRecord{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDemoData seeds a handful of customers, delivery orders and trips so a
// fresh install has something to invoice against. Production deployments sync
// these from the operations system instead.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Customer{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing customers: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding demo data...")

	terms14 := 14
	email1 := "accounts@perdanabuilders.example"
	email2 := "billing@suriarecycling.example"
	customers := []entity.Customer{
		{Name: "Perdana Builders Sdn Bhd", Email: &email1, PaymentTermsDays: &terms14},
		{Name: "Suria Recycling Enterprise", Email: &email2},
		{Name: "Hock Lee Renovation Works"},
	}
	if err := db.Create(&customers).Error; err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	trip := entity.Trip{
		TripNo:     "TRIP-SEED0001",
		DriverID:   uuid.New(),
		DriverName: "Azman bin Rashid",
		Status:     enum.TripStatusAssigned,
		TripDate:   time.Now(),
	}
	if err := db.Create(&trip).Error; err != nil {
		return fmt.Errorf("failed to seed trip: %w", err)
	}

	bin1 := "BIN-0042"
	orders := []entity.DeliveryOrder{
		{
			OrderNo:      "DO-SEED0001",
			CustomerID:   customers[0].ID,
			CustomerName: customers[0].Name,
			ServiceDate:  time.Now().AddDate(0, 0, -2),
			Amount:       decimal.NewFromFloat(380.00),
			BinSerialNo:  &bin1,
			TripID:       &trip.ID,
		},
		{
			OrderNo:      "DO-SEED0002",
			CustomerID:   customers[0].ID,
			CustomerName: customers[0].Name,
			ServiceDate:  time.Now().AddDate(0, 0, -1),
			Amount:       decimal.NewFromFloat(420.00),
			TripID:       &trip.ID,
		},
		{
			OrderNo:      "DO-SEED0003",
			CustomerID:   customers[1].ID,
			CustomerName: customers[1].Name,
			ServiceDate:  time.Now(),
			Amount:       decimal.NewFromFloat(550.00),
		},
	}
	if err := db.Create(&orders).Error; err != nil {
		return fmt.Errorf("failed to seed delivery orders: %w", err)
	}

	log.Println("Demo data seeding completed")
	return nil
}
