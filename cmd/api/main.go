package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skipworks/skipflow-api/internal/application/service"
	"github.com/skipworks/skipflow-api/internal/config"
	domainRepo "github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/internal/infrastructure/database"
	"github.com/skipworks/skipflow-api/internal/infrastructure/logger"
	"github.com/skipworks/skipflow-api/internal/infrastructure/repository"
	"github.com/skipworks/skipflow-api/internal/presentation/http/handler"
	"github.com/skipworks/skipflow-api/internal/presentation/http/routes"
	"github.com/skipworks/skipflow-api/pkg/email"
	"github.com/skipworks/skipflow-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	zapLogger, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed demo registry data on a fresh install
	if err := database.SeedDemoData(db); err != nil {
		zapLogger.Warn("failed to seed demo data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentEventRepository(db)
	orderRepo := repository.NewDeliveryOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	tripRepo := repository.NewTripRepository(db)
	tripPaymentRepo := repository.NewTripPaymentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUser,
		SMTPPassword: cfg.Email.SMTPPass,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromAddress,
	})

	// Initialize services
	locker := service.NewKeyedLocker()
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, customerRepo, locker, emailService, zapLogger, service.InvoiceServiceConfig{
		DefaultCurrency:  cfg.Billing.DefaultCurrency,
		DefaultTermsDays: cfg.Billing.DefaultTermsDays,
	})
	paymentService := service.NewPaymentService(invoiceRepo, paymentRepo, tripRepo, tripPaymentRepo, locker, zapLogger)
	reconciliationService := service.NewReconciliationService(invoiceRepo, orderRepo, paymentRepo, tripRepo, tripPaymentRepo, paymentService, locker, zapLogger)
	tripService := service.NewTripService(tripRepo)
	reportService := service.NewReportService(reportRepo)
	customerService := service.NewCustomerService(customerRepo)
	orderService := service.NewOrderService(orderRepo)

	// Periodically flip lapsed Sent invoices to Overdue
	startOverdueSweep(invoiceService, cfg.Billing.OverdueSweepInterval, zapLogger)

	// Purge expired idempotency keys
	startIdempotencyPurge(idempotencyRepo, zapLogger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice:        handler.NewInvoiceHandler(invoiceService, paymentService),
		Payment:        handler.NewPaymentHandler(paymentService),
		Trip:           handler.NewTripHandler(tripService, paymentService),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
		Report:         handler.NewReportHandler(reportService),
		Customer:       handler.NewCustomerHandler(customerService),
		Order:          handler.NewOrderHandler(orderService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          zapLogger,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	zapLogger.Info("starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}

// startIdempotencyPurge removes expired idempotency keys once an hour
func startIdempotencyPurge(repo domainRepo.IdempotencyRepository, zapLogger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			purged, err := repo.DeleteExpired(context.Background())
			if err != nil {
				zapLogger.Warn("idempotency key purge failed", zap.Error(err))
				continue
			}
			if purged > 0 {
				zapLogger.Info("purged expired idempotency keys", zap.Int64("count", purged))
			}
		}
	}()
}

// startOverdueSweep runs the overdue sweep on a fixed interval
func startOverdueSweep(invoiceService *service.InvoiceService, interval time.Duration, zapLogger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := invoiceService.MarkOverdueSweep(context.Background()); err != nil {
				zapLogger.Warn("overdue sweep failed", zap.Error(err))
			}
		}
	}()
}
