package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
	domainRepo "github.com/skipworks/skipflow-api/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetReceivablesSummary(ctx context.Context) (*domainRepo.ReceivablesSummaryResult, error) {
	var row struct {
		InvoiceCount       int64
		TotalInvoiced      decimal.Decimal
		TotalPaid          decimal.Decimal
		TotalOutstanding   decimal.Decimal
		OverdueCount       int64
		OverdueOutstanding decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select(`COUNT(*) AS invoice_count,
			COALESCE(SUM(total_amount), 0) AS total_invoiced,
			COALESCE(SUM(paid_amount), 0) AS total_paid,
			COALESCE(SUM(balance_amount), 0) AS total_outstanding,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS overdue_count,
			COALESCE(SUM(CASE WHEN status = ? THEN balance_amount ELSE 0 END), 0) AS overdue_outstanding`,
			enum.InvoiceStatusOverdue, enum.InvoiceStatusOverdue).
		Where("status <> ?", enum.InvoiceStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domainRepo.ReceivablesSummaryResult{
		InvoiceCount:       row.InvoiceCount,
		TotalInvoiced:      row.TotalInvoiced,
		TotalPaid:          row.TotalPaid,
		TotalOutstanding:   row.TotalOutstanding,
		OverdueCount:       row.OverdueCount,
		OverdueOutstanding: row.OverdueOutstanding,
	}, nil
}

func (r *reportRepository) GetMethodBreakdown(ctx context.Context, start, end time.Time) ([]domainRepo.MethodBreakdownResult, error) {
	var rows []struct {
		Method enum.PaymentMethod
		Count  int64
		Total  decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&entity.PaymentEvent{}).
		Select("method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("paid_at >= ? AND paid_at <= ?", start, end).
		Group("method").
		Order("method ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.MethodBreakdownResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domainRepo.MethodBreakdownResult{
			Method: row.Method,
			Count:  row.Count,
			Total:  row.Total,
		})
	}
	return results, nil
}

// agingBuckets are the day ranges receivables are grouped into
var agingBuckets = []struct {
	label   string
	minDays int
	maxDays int // exclusive; -1 means unbounded
}{
	{"current", -1 << 31, 1},
	{"1-30", 1, 31},
	{"31-60", 31, 61},
	{"61-90", 61, 91},
	{"90+", 91, -1},
}

func (r *reportRepository) GetAgingBuckets(ctx context.Context, asOf time.Time) ([]domainRepo.AgingBucketResult, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enum.InvoiceStatus{enum.InvoiceStatusSent, enum.InvoiceStatusOverdue}).
		Where("balance_amount > 0").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.AgingBucketResult, len(agingBuckets))
	for i, b := range agingBuckets {
		results[i] = domainRepo.AgingBucketResult{Bucket: b.label, Outstanding: decimal.Zero}
	}

	for _, inv := range invoices {
		daysOverdue := int(asOf.Sub(inv.DueDate).Hours() / 24)
		for i, b := range agingBuckets {
			if daysOverdue >= b.minDays && (b.maxDays == -1 || daysOverdue < b.maxDays) {
				results[i].InvoiceCount++
				results[i].Outstanding = results[i].Outstanding.Add(inv.BalanceAmount)
				break
			}
		}
	}

	return results, nil
}
