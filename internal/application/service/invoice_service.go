package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	"github.com/skipworks/skipflow-api/internal/domain/repository"
	"github.com/skipworks/skipflow-api/pkg/apperror"
	"github.com/skipworks/skipflow-api/pkg/email"
	"github.com/skipworks/skipflow-api/pkg/utils"
	"go.uber.org/zap"
)

// InvoiceServiceConfig carries billing defaults applied when an input omits them
type InvoiceServiceConfig struct {
	DefaultCurrency  string
	DefaultTermsDays int
}

// InvoiceService owns the invoice ledger: it builds drafts, commits them, and
// is the only component that transitions invoice status or touches the derived
// monetary fields.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	orderRepo    repository.DeliveryOrderRepository
	customerRepo repository.CustomerRepository
	locker       *KeyedLocker
	emailService *email.EmailService
	logger       *zap.Logger
	cfg          InvoiceServiceConfig
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.DeliveryOrderRepository,
	customerRepo repository.CustomerRepository,
	locker *KeyedLocker,
	emailService *email.EmailService,
	logger *zap.Logger,
	cfg InvoiceServiceConfig,
) *InvoiceService {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "MYR"
	}
	if cfg.DefaultTermsDays <= 0 {
		cfg.DefaultTermsDays = 30
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		locker:       locker,
		emailService: emailService,
		logger:       logger,
		cfg:          cfg,
	}
}

// BuildInvoiceInput represents the source and terms for building an invoice
type BuildInvoiceInput struct {
	SourceType       enum.InvoiceSourceType
	OrderIDs         []uuid.UUID
	CustomerID       *uuid.UUID
	ManualSubTotal   *decimal.Decimal
	TaxRate          decimal.Decimal
	PaymentTermsDays int
	Currency         string
	OriginalCurrency *string
	ExchangeRate     *decimal.Decimal
	IssueDate        *time.Time
	Note             *string
}

// BuildInvoice computes a draft invoice from the given source and terms. It is
// a pure computation: nothing is persisted until the caller commits the draft
// through CreateInvoice.
func (s *InvoiceService) BuildInvoice(ctx context.Context, input *BuildInvoiceInput) (*entity.Invoice, error) {
	if !entity.IsRecognizedTaxRate(input.TaxRate) {
		return nil, apperror.NewUnprocessableError(apperror.KindUnsupportedTaxRate,
			fmt.Sprintf("Tax rate %s%% is not supported", input.TaxRate.String()))
	}

	if (input.OriginalCurrency == nil) != (input.ExchangeRate == nil) {
		return nil, apperror.NewBadRequestError("Original currency and exchange rate must be provided together")
	}
	if input.ExchangeRate != nil && !input.ExchangeRate.IsPositive() {
		return nil, apperror.NewBadRequestError("Exchange rate must be positive")
	}

	invoice := &entity.Invoice{
		SourceType:       input.SourceType,
		TaxRate:          input.TaxRate,
		Status:           enum.InvoiceStatusDraft,
		Currency:         input.Currency,
		OriginalCurrency: input.OriginalCurrency,
		ExchangeRate:     input.ExchangeRate,
		Note:             input.Note,
	}
	if invoice.Currency == "" {
		invoice.Currency = s.cfg.DefaultCurrency
	}

	switch input.SourceType {
	case enum.InvoiceSourceOrders:
		if err := s.buildFromOrders(ctx, invoice, input.OrderIDs); err != nil {
			return nil, err
		}
	case enum.InvoiceSourceCustomer:
		if err := s.buildFromCustomer(ctx, invoice, input.CustomerID, input.ManualSubTotal); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.ErrMissingSource
	}

	issueDate := time.Now()
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}
	termsDays := input.PaymentTermsDays
	if termsDays <= 0 {
		termsDays = s.cfg.DefaultTermsDays
	}
	invoice.IssueDate = issueDate
	invoice.PaymentTermsDays = termsDays
	invoice.DueDate = issueDate.AddDate(0, 0, termsDays)

	invoice.PaidAmount = decimal.Zero
	invoice.Recalculate()

	return invoice, nil
}

// buildFromOrders aggregates the referenced delivery orders into the draft
func (s *InvoiceService) buildFromOrders(ctx context.Context, invoice *entity.Invoice, orderIDs []uuid.UUID) error {
	if len(orderIDs) == 0 {
		return apperror.ErrMissingSource
	}

	orders, err := s.orderRepo.GetByIDs(ctx, orderIDs)
	if err != nil {
		return err
	}

	orderMap := make(map[uuid.UUID]*entity.DeliveryOrder, len(orders))
	for i := range orders {
		orderMap[orders[i].ID] = &orders[i]
	}

	subTotal := decimal.Zero
	links := make([]entity.InvoiceOrder, 0, len(orderIDs))
	for _, id := range orderIDs {
		order, exists := orderMap[id]
		if !exists {
			return apperror.NewNotFoundError(fmt.Sprintf("Delivery order %s", id))
		}
		if order.IsInvoiced() {
			return apperror.NewConflictError(fmt.Sprintf("Delivery order %s is already invoiced", order.OrderNo))
		}
		if invoice.CustomerID == uuid.Nil {
			invoice.CustomerID = order.CustomerID
			invoice.CustomerName = order.CustomerName
		} else if invoice.CustomerID != order.CustomerID {
			return apperror.NewBadRequestError("All orders on an invoice must belong to the same customer")
		}

		subTotal = subTotal.Add(order.Amount)
		links = append(links, entity.InvoiceOrder{
			OrderID: order.ID,
			OrderNo: order.OrderNo,
			Amount:  order.Amount,
		})
	}

	invoice.SubTotal = subTotal
	invoice.Orders = links
	return nil
}

// buildFromCustomer sets up a direct-billing draft with a manual subtotal
func (s *InvoiceService) buildFromCustomer(ctx context.Context, invoice *entity.Invoice, customerID *uuid.UUID, manualSubTotal *decimal.Decimal) error {
	if customerID == nil || manualSubTotal == nil || manualSubTotal.IsNegative() {
		return apperror.ErrMissingSource
	}

	customer, err := s.customerRepo.GetByID(ctx, *customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	invoice.CustomerID = customer.ID
	invoice.CustomerName = customer.Name
	invoice.SubTotal = *manualSubTotal
	return nil
}

// CreateInvoice builds a draft and commits it to the ledger, assigning the
// invoice number and binding the billed orders.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *BuildInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.BuildInvoice(ctx, input)
	if err != nil {
		return nil, err
	}

	invoice.InvoiceNo = utils.GenerateInvoiceNo()

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if invoice.SourceType == enum.InvoiceSourceOrders {
		orderIDs := make([]uuid.UUID, len(invoice.Orders))
		for i, link := range invoice.Orders {
			orderIDs[i] = link.OrderID
		}
		if err := s.orderRepo.MarkInvoiced(ctx, orderIDs, invoice.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("invoice committed",
		zap.String("invoice_no", invoice.InvoiceNo),
		zap.String("customer", invoice.CustomerName),
		zap.String("total", invoice.TotalAmount.String()),
	)

	return invoice, nil
}

// SendInvoice transitions a draft invoice to Sent
func (s *InvoiceService) SendInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := invoice.Send(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	if s.emailService != nil && invoice.Customer != nil && invoice.Customer.Email != nil {
		data := email.InvoiceIssuedData{
			CustomerName: invoice.CustomerName,
			InvoiceNo:    invoice.InvoiceNo,
			IssueDate:    invoice.IssueDate.Format("2006-01-02"),
			DueDate:      invoice.DueDate.Format("2006-01-02"),
			Currency:     invoice.Currency,
			Total:        invoice.TotalAmount.StringFixed(2),
		}
		if err := s.emailService.SendInvoiceIssued(*invoice.Customer.Email, data); err != nil {
			s.logger.Warn("failed to send issued invoice email",
				zap.String("invoice_no", invoice.InvoiceNo), zap.Error(err))
		}
	}

	return invoice, nil
}

// CancelInvoice cancels an unpaid invoice and releases its order bindings
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := invoice.Cancel(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	if invoice.SourceType == enum.InvoiceSourceOrders {
		if err := s.orderRepo.UnmarkInvoiced(ctx, invoice.ID); err != nil {
			return nil, err
		}
	}

	return invoice, nil
}

// MarkOverdue flips a lapsed Sent invoice to Overdue. It is idempotent: a
// second call, or a call against a settled or cancelled invoice, is a no-op.
func (s *InvoiceService) MarkOverdue(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if invoice.MarkOverdue(time.Now()) {
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}

// MarkOverdueSweep marks every lapsed Sent invoice as Overdue. It is invoked
// periodically from a background ticker.
func (s *InvoiceService) MarkOverdueSweep(ctx context.Context) (int, error) {
	due, err := s.invoiceRepo.ListDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	var flipped int
	for _, inv := range due {
		if _, err := s.MarkOverdue(ctx, inv.ID); err != nil {
			s.logger.Warn("overdue sweep failed for invoice",
				zap.String("invoice_no", inv.InvoiceNo), zap.Error(err))
			continue
		}
		flipped++
	}

	if flipped > 0 {
		s.logger.Info("overdue sweep completed", zap.Int("marked", flipped))
	}
	return flipped, nil
}

// RemindInvoice records a reminder against an outstanding invoice and emails
// the customer when an address is on file.
func (s *InvoiceService) RemindInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if !invoice.Status.CanApplyPayment() {
		return nil, apperror.NewInvalidTransitionError(invoice.Status.String(), "send a reminder for")
	}

	now := time.Now()
	invoice.LastReminderDate = &now
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	if s.emailService != nil && invoice.Customer != nil && invoice.Customer.Email != nil {
		data := email.InvoiceReminderData{
			CustomerName: invoice.CustomerName,
			InvoiceNo:    invoice.InvoiceNo,
			DueDate:      invoice.DueDate.Format("2006-01-02"),
			Currency:     invoice.Currency,
			Balance:      invoice.BalanceAmount.StringFixed(2),
			Overdue:      invoice.Status == enum.InvoiceStatusOverdue,
		}
		if err := s.emailService.SendInvoiceReminder(*invoice.Customer.Email, data); err != nil {
			s.logger.Warn("failed to send reminder email",
				zap.String("invoice_no", invoice.InvoiceNo), zap.Error(err))
		}
	}

	return invoice, nil
}

// GetInvoice returns an invoice with its payment history
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceByNo returns an invoice looked up by its invoice number. Office
// staff key numbers in from printed copies, so this is the console's lookup.
func (s *InvoiceService) GetInvoiceByNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByInvoiceNo(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices returns invoices matching the filter
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, params)
}
