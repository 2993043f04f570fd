package service

import (
	"context"
	"time"

	"github.com/skipworks/skipflow-api/internal/domain/repository"
)

// ReportService derives read-only projections from the ledger for the
// reporting dashboards. It never writes.
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// GetReceivablesSummary returns ledger-wide invoice totals
func (s *ReportService) GetReceivablesSummary(ctx context.Context) (*repository.ReceivablesSummaryResult, error) {
	return s.reportRepo.GetReceivablesSummary(ctx)
}

// GetMethodBreakdown returns collected amounts per payment instrument. When
// no range is given it defaults to the current calendar month.
func (s *ReportService) GetMethodBreakdown(ctx context.Context, start, end *time.Time) ([]repository.MethodBreakdownResult, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	return s.reportRepo.GetMethodBreakdown(ctx, from, to)
}

// GetAgingBuckets returns outstanding balances grouped by days overdue
func (s *ReportService) GetAgingBuckets(ctx context.Context) ([]repository.AgingBucketResult, error) {
	return s.reportRepo.GetAgingBuckets(ctx, time.Now())
}
