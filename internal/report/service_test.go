package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmartins/centsible/internal/report"
	"github.com/mmartins/centsible/internal/transaction"
)

func expectAggregates(repo *report.MockRepository) {
	repo.EXPECT().CategoryTotals(gomock.Any(), gomock.Any()).Return([]report.CategoryTotal{
		{Category: "Groceries", AmountCents: 45000},
		{Category: "Dining", AmountCents: 12000},
	}, nil)
	repo.EXPECT().TopVendors(gomock.Any(), gomock.Any(), 10).Return([]report.VendorTotal{
		{Vendor: "Hy-Vee", AmountCents: 22000},
	}, nil)
	repo.EXPECT().DailyTotals(gomock.Any(), gomock.Any()).Return([]report.TimeseriesPoint{
		{Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), SumCents: 4300},
	}, nil)
	repo.EXPECT().DirectionTotal(gomock.Any(), gomock.Any(), transaction.DirectionCredit).Return(int64(500000), nil)
	repo.EXPECT().DirectionTotal(gomock.Any(), gomock.Any(), transaction.DirectionDebit).Return(int64(180000), nil)
}

func TestService_Summary_Month(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	var gotFilter report.Filter
	repo.EXPECT().CategoryTotals(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f report.Filter) ([]report.CategoryTotal, error) {
			gotFilter = f
			return []report.CategoryTotal{{Category: "Groceries", AmountCents: 45000}}, nil
		})
	repo.EXPECT().TopVendors(gomock.Any(), gomock.Any(), 10).Return(nil, nil)
	repo.EXPECT().DailyTotals(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().DirectionTotal(gomock.Any(), gomock.Any(), transaction.DirectionCredit).Return(int64(500000), nil)
	repo.EXPECT().DirectionTotal(gomock.Any(), gomock.Any(), transaction.DirectionDebit).Return(int64(180000), nil)
	repo.EXPECT().SaveMonthly(gomock.Any(), "2025-10", gomock.Any()).Return(nil)

	svc := report.NewService(repo)
	summary, err := svc.Summary(context.Background(), report.Query{Month: "2025-10", Status: "finalized"})
	require.NoError(t, err)

	assert.Equal(t, "2025-10", summary.Period)
	assert.Equal(t, int64(320000), summary.NetSavingsCents)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), gotFilter.Start)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), gotFilter.End, "end is exclusive")
	assert.Equal(t, "finalized", gotFilter.Status)
}

func TestService_Summary_DecemberRollsOver(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	var gotFilter report.Filter
	repo.EXPECT().CategoryTotals(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f report.Filter) ([]report.CategoryTotal, error) {
			gotFilter = f
			return nil, nil
		})
	repo.EXPECT().TopVendors(gomock.Any(), gomock.Any(), 10).Return(nil, nil)
	repo.EXPECT().DailyTotals(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().DirectionTotal(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil).Times(2)
	repo.EXPECT().SaveMonthly(gomock.Any(), "2025-12", gomock.Any()).Return(nil)

	svc := report.NewService(repo)
	_, err := svc.Summary(context.Background(), report.Query{Month: "2025-12"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), gotFilter.End)
}

func TestService_Summary_DateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	expectAggregates(repo)
	// No SaveMonthly expectation: custom ranges are never cached.

	start := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)

	svc := report.NewService(repo)
	summary, err := svc.Summary(context.Background(), report.Query{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, "2025-10-05_to_2025-10-12", summary.Period)
	assert.Equal(t, int64(500000), summary.TotalIncomeCents)
	assert.Equal(t, int64(180000), summary.TotalExpenseCents)
}

func TestService_Summary_FilteredMonthNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	expectAggregates(repo)
	// No SaveMonthly expectation: filtered summaries are never cached.

	svc := report.NewService(repo)
	_, err := svc.Summary(context.Background(), report.Query{Month: "2025-10", Category: "Dining"})
	require.NoError(t, err)
}

func TestService_Summary_CacheFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	expectAggregates(repo)
	repo.EXPECT().SaveMonthly(gomock.Any(), "2025-10", gomock.Any()).Return(errors.New("db down"))

	svc := report.NewService(repo)
	summary, err := svc.Summary(context.Background(), report.Query{Month: "2025-10"})
	require.NoError(t, err)
	assert.Equal(t, "2025-10", summary.Period)
}

func TestService_Summary_InvalidPeriod(t *testing.T) {
	tests := []struct {
		name  string
		query report.Query
	}{
		{"BadMonthFormat", report.Query{Month: "October 2025"}},
		{"NoPeriod", report.Query{}},
		{"OnlyStartDate", report.Query{StartDate: new(time.Time)}},
	}

	svc := report.NewService(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Summary(context.Background(), tt.query)
			assert.ErrorIs(t, err, report.ErrInvalidPeriod)
		})
	}
}
