package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skipworks/skipflow-api/internal/config"
	domainRepo "github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/internal/presentation/http/handler"
	"github.com/skipworks/skipflow-api/internal/presentation/http/middleware"
	"github.com/skipworks/skipflow-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice        *handler.InvoiceHandler
	Payment        *handler.PaymentHandler
	Trip           *handler.TripHandler
	Reconciliation *handler.ReconciliationHandler
	Report         *handler.ReportHandler
	Customer       *handler.CustomerHandler
	Order          *handler.OrderHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	registerInvoiceRoutes(protected, h, deps)
	registerPaymentRoutes(protected, h)
	registerTripRoutes(protected, h, deps)
	registerReconciliationRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerOrderRoutes(protected, h)
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("/preview", h.Invoice.Preview)
		// Invoice creation uses idempotency middleware to prevent duplicates
		invoices.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Invoice.Create)
		invoices.GET("/no/:invoice_no", h.Invoice.GetByNo)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/send", h.Invoice.Send)
		invoices.POST("/:id/cancel", h.Invoice.Cancel)
		invoices.POST("/:id/remind", h.Invoice.Remind)
		invoices.POST("/:id/mark-overdue", h.Invoice.MarkOverdue)
		invoices.GET("/:id/payments", h.Invoice.ListPayments)
		// Office payment entry also guards against double submission
		invoices.POST("/:id/payments", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Invoice.RecordPayment)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers) {
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.POST("/:id/reverse", h.Payment.Reverse)
	}
}

func registerTripRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	trips := protected.Group("/trips")
	{
		trips.GET("", h.Trip.List)
		trips.GET("/no/:trip_no", h.Trip.GetByNo)
		trips.GET("/:id", h.Trip.Get)
		// Driver apps retry on flaky connections; the idempotency key keeps a
		// retried submission from tripping the one-record-per-trip rule
		trips.POST("/:id/payment", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Trip.RecordPayment)
	}
}

func registerReconciliationRoutes(protected *gin.RouterGroup, h *Handlers) {
	reconciliation := protected.Group("/reconciliation")
	{
		reconciliation.POST("/trips/:id", h.Reconciliation.Reconcile)
		reconciliation.GET("/unreconciled", h.Reconciliation.ListUnreconciled)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/payment-methods", h.Report.PaymentMethods)
		reports.GET("/aging", h.Report.Aging)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
	}
}
