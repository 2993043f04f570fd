package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skipworks/skipflow-api/internal/domain/enum"
)

// ReceivablesSummaryResult represents ledger-wide invoice totals
type ReceivablesSummaryResult struct {
	InvoiceCount       int64
	TotalInvoiced      decimal.Decimal
	TotalPaid          decimal.Decimal
	TotalOutstanding   decimal.Decimal
	OverdueCount       int64
	OverdueOutstanding decimal.Decimal
}

// MethodBreakdownResult represents amounts collected per payment instrument
type MethodBreakdownResult struct {
	Method enum.PaymentMethod
	Count  int64
	Total  decimal.Decimal
}

// AgingBucketResult represents outstanding balances bucketed by days overdue
type AgingBucketResult struct {
	Bucket      string
	InvoiceCount int64
	Outstanding decimal.Decimal
}

// ReportRepository defines interface for reporting aggregation queries.
// All methods are read-only projections over the ledger.
type ReportRepository interface {
	// GetReceivablesSummary returns totals across non-cancelled invoices
	GetReceivablesSummary(ctx context.Context) (*ReceivablesSummaryResult, error)

	// GetMethodBreakdown returns collected amounts per payment method within
	// the given date range
	GetMethodBreakdown(ctx context.Context, start, end time.Time) ([]MethodBreakdownResult, error)

	// GetAgingBuckets returns outstanding balances grouped into aging buckets
	// relative to the given reference date
	GetAgingBuckets(ctx context.Context, asOf time.Time) ([]AgingBucketResult, error)
}
