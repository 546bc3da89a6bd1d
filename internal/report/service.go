package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmartins/centsible/internal/transaction"
)

// ErrInvalidPeriod marks a summary request without a usable date range.
var ErrInvalidPeriod = errors.New("invalid report period")

// Query selects the summary period and optional filters. Either Month
// (YYYY-MM) or both StartDate and EndDate must be set.
type Query struct {
	Month     string
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Vendor    string
	Account   string
	Status    string
}

// Filter is the resolved date range plus filters the store queries on.
// End is exclusive.
type Filter struct {
	Start    time.Time
	End      time.Time
	Category string
	Vendor   string
	Account  string
	Status   string
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	CategoryTotals(ctx context.Context, f Filter) ([]CategoryTotal, error)
	TopVendors(ctx context.Context, f Filter, limit int) ([]VendorTotal, error)
	DailyTotals(ctx context.Context, f Filter) ([]TimeseriesPoint, error)
	DirectionTotal(ctx context.Context, f Filter, direction transaction.Direction) (int64, error)
	// SaveMonthly upserts the cached summary for a month.
	SaveMonthly(ctx context.Context, period string, summary *Summary) error
}

const topVendorLimit = 10

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary builds the rollup for the requested period. Unfiltered monthly
// summaries are cached; a cache write failure only logs.
func (s *Service) Summary(ctx context.Context, q Query) (*Summary, error) {
	period, filter, err := resolvePeriod(q)
	if err != nil {
		return nil, err
	}

	totalsByCategory, err := s.repo.CategoryTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("aggregating category totals: %w", err)
	}

	topVendors, err := s.repo.TopVendors(ctx, filter, topVendorLimit)
	if err != nil {
		return nil, fmt.Errorf("aggregating vendor totals: %w", err)
	}

	timeseries, err := s.repo.DailyTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("aggregating daily totals: %w", err)
	}

	income, err := s.repo.DirectionTotal(ctx, filter, transaction.DirectionCredit)
	if err != nil {
		return nil, fmt.Errorf("totaling income: %w", err)
	}

	expense, err := s.repo.DirectionTotal(ctx, filter, transaction.DirectionDebit)
	if err != nil {
		return nil, fmt.Errorf("totaling expenses: %w", err)
	}

	summary := &Summary{
		Period:            period,
		TotalsByCategory:  totalsByCategory,
		TopVendors:        topVendors,
		Timeseries:        timeseries,
		TotalIncomeCents:  income,
		TotalExpenseCents: expense,
		NetSavingsCents:   income - expense,
	}

	if q.Month != "" && q.Category == "" && q.Vendor == "" && q.Account == "" {
		if err := s.repo.SaveMonthly(ctx, period, summary); err != nil {
			slog.Warn("failed to cache monthly report", "period", period, "error", err)
		} else {
			slog.Info("cached monthly report", "period", period)
		}
	}

	slog.Info("generated summary report",
		"period", period,
		"categories", len(totalsByCategory),
		"vendors", len(topVendors))

	return summary, nil
}

func resolvePeriod(q Query) (string, Filter, error) {
	filter := Filter{
		Category: q.Category,
		Vendor:   q.Vendor,
		Account:  q.Account,
		Status:   q.Status,
	}

	switch {
	case q.Month != "":
		start, err := time.Parse("2006-01", q.Month)
		if err != nil {
			return "", Filter{}, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidPeriod)
		}

		filter.Start = start
		filter.End = start.AddDate(0, 1, 0)

		return q.Month, filter, nil

	case q.StartDate != nil && q.EndDate != nil:
		filter.Start = *q.StartDate
		filter.End = *q.EndDate

		period := fmt.Sprintf("%s_to_%s",
			q.StartDate.Format(time.DateOnly), q.EndDate.Format(time.DateOnly))

		return period, filter, nil

	default:
		return "", Filter{}, fmt.Errorf("%w: month or start and end dates required", ErrInvalidPeriod)
	}
}
