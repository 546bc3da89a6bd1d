package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmartins/centsible/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListWindow loads the transaction fields the detection passes read.
func (s *Store) ListWindow(ctx context.Context, start, end time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, txn_date, amount_cents, direction, raw_descriptor,
		       canonical_vendor, hash_id, receipt_url, category, confidence, status
		FROM transactions
		WHERE txn_date >= $1 AND txn_date <= $2
		ORDER BY txn_date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing transactions in window: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		var (
			tx         transaction.Transaction
			vendor     sql.NullString
			receiptURL sql.NullString
			category   sql.NullString
			confidence sql.NullString
		)

		if err := rows.Scan(&tx.ID, &tx.Date, &tx.AmountCents, &tx.Direction, &tx.RawDescriptor,
			&vendor, &tx.HashID, &receiptURL, &category, &confidence, &tx.Status); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		tx.CanonicalVendor = vendor.String
		tx.ReceiptURL = receiptURL.String
		tx.Category = category.String

		if confidence.Valid {
			c, err := decimal.NewFromString(confidence.String)
			if err != nil {
				return nil, fmt.Errorf("decoding confidence of transaction %d: %w", tx.ID, err)
			}
			tx.Confidence = &c
		}

		txs = append(txs, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) VendorFirstSeen(ctx context.Context) (map[string]time.Time, error) {
	query := `
		SELECT canonical_vendor, MIN(txn_date)
		FROM transactions
		WHERE canonical_vendor IS NOT NULL
		GROUP BY canonical_vendor
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading vendor first-seen dates: %w", err)
	}
	defer rows.Close()

	firstSeen := make(map[string]time.Time)

	for rows.Next() {
		var (
			vendor string
			first  time.Time
		)

		if err := rows.Scan(&vendor, &first); err != nil {
			return nil, fmt.Errorf("scanning vendor first-seen row: %w", err)
		}

		firstSeen[vendor] = first
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vendor first-seen rows: %w", err)
	}

	return firstSeen, nil
}

func (s *Store) SpendByCategory(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	query := `
		SELECT category, SUM(amount_cents)
		FROM transactions
		WHERE txn_date >= $1 AND txn_date <= $2
		  AND category IS NOT NULL
		  AND direction = 'debit'
		GROUP BY category
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading spending by category: %w", err)
	}
	defer rows.Close()

	spending := make(map[string]int64)

	for rows.Next() {
		var (
			category string
			total    int64
		)

		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scanning category spending row: %w", err)
		}

		spending[category] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category spending rows: %w", err)
	}

	return spending, nil
}
