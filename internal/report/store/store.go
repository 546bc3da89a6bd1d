package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mmartins/centsible/internal/report"
	"github.com/mmartins/centsible/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// filterClause renders the shared WHERE conditions. The date range is
// half-open: start inclusive, end exclusive.
func filterClause(f report.Filter) (string, []any) {
	clauses := []string{"txn_date >= $1", "txn_date < $2"}
	args := []any{f.Start, f.End}

	appendArg := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Category != "" {
		appendArg("category = $%d", f.Category)
	}
	if f.Vendor != "" {
		appendArg("canonical_vendor = $%d", f.Vendor)
	}
	if f.Account != "" {
		appendArg("source_account = $%d", f.Account)
	}
	if f.Status != "" {
		appendArg("status = $%d", f.Status)
	}

	return strings.Join(clauses, " AND "), args
}

func (s *Store) CategoryTotals(ctx context.Context, f report.Filter) ([]report.CategoryTotal, error) {
	where, args := filterClause(f)

	query := fmt.Sprintf(`
		SELECT category, SUM(amount_cents) AS total
		FROM transactions
		WHERE %s AND direction = 'debit' AND category IS NOT NULL
		GROUP BY category
		ORDER BY total DESC
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying category totals: %w", err)
	}
	defer rows.Close()

	var totals []report.CategoryTotal

	for rows.Next() {
		var t report.CategoryTotal
		if err := rows.Scan(&t.Category, &t.AmountCents); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return totals, nil
}

func (s *Store) TopVendors(ctx context.Context, f report.Filter, limit int) ([]report.VendorTotal, error) {
	where, args := filterClause(f)
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT canonical_vendor, SUM(amount_cents) AS total
		FROM transactions
		WHERE %s AND direction = 'debit' AND canonical_vendor IS NOT NULL
		GROUP BY canonical_vendor
		ORDER BY total DESC
		LIMIT $%d
	`, where, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vendor totals: %w", err)
	}
	defer rows.Close()

	var totals []report.VendorTotal

	for rows.Next() {
		var t report.VendorTotal
		if err := rows.Scan(&t.Vendor, &t.AmountCents); err != nil {
			return nil, fmt.Errorf("scanning vendor total: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vendor totals: %w", err)
	}

	return totals, nil
}

func (s *Store) DailyTotals(ctx context.Context, f report.Filter) ([]report.TimeseriesPoint, error) {
	where, args := filterClause(f)

	query := fmt.Sprintf(`
		SELECT txn_date, SUM(amount_cents) AS total
		FROM transactions
		WHERE %s AND direction = 'debit'
		GROUP BY txn_date
		ORDER BY txn_date ASC
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying daily totals: %w", err)
	}
	defer rows.Close()

	var points []report.TimeseriesPoint

	for rows.Next() {
		var p report.TimeseriesPoint
		if err := rows.Scan(&p.Date, &p.SumCents); err != nil {
			return nil, fmt.Errorf("scanning timeseries point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeseries points: %w", err)
	}

	return points, nil
}

func (s *Store) DirectionTotal(ctx context.Context, f report.Filter, direction transaction.Direction) (int64, error) {
	where, args := filterClause(f)
	args = append(args, string(direction))

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE %s AND direction = $%d
	`, where, len(args))

	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("querying %s total: %w", direction, err)
	}

	return total, nil
}

func (s *Store) SaveMonthly(ctx context.Context, period string, summary *report.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding report payload: %w", err)
	}

	query := `
		INSERT INTO reports (period, kind, payload, created_at)
		VALUES ($1, 'monthly', $2, NOW())
		ON CONFLICT (period, kind) DO UPDATE SET payload = EXCLUDED.payload
	`

	if _, err := s.db.ExecContext(ctx, query, period, payload); err != nil {
		return fmt.Errorf("caching report for period %s: %w", period, err)
	}

	return nil
}
