package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmartins/centsible/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.txn_date, t.posted_at, t.amount_cents, t.currency, t.direction,
	t.raw_descriptor, t.canonical_vendor, t.mcc, t.memo, t.source_account,
	t.hash_id, t.receipt_url, t.category, t.subcategory, t.confidence,
	t.status, t.notes
`

// scanTransaction reads a transaction row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx         transaction.Transaction
		direction  string
		status     string
		vendor     sql.NullString
		mcc        sql.NullString
		memo       sql.NullString
		receiptURL sql.NullString
		category   sql.NullString
		subcat     sql.NullString
		confidence sql.NullString
		notes      sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.PostedAt, &tx.AmountCents, &tx.Currency, &direction,
		&tx.RawDescriptor, &vendor, &mcc, &memo, &tx.SourceAccount,
		&tx.HashID, &receiptURL, &category, &subcat, &confidence,
		&status, &notes,
	); err != nil {
		return nil, err
	}

	tx.Direction = transaction.Direction(direction)
	tx.Status = transaction.Status(status)
	tx.CanonicalVendor = vendor.String
	tx.MCC = mcc.String
	tx.Memo = memo.String
	tx.ReceiptURL = receiptURL.String
	tx.Category = category.String
	tx.Subcategory = subcat.String
	tx.Notes = notes.String

	if confidence.Valid {
		conf, err := decimal.NewFromString(confidence.String)
		if err != nil {
			return nil, fmt.Errorf("parsing confidence: %w", err)
		}

		tx.Confidence = &conf
	}

	return &tx, nil
}

// nullable converts empty strings to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) UpsertByHash(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			txn_date, posted_at, amount_cents, currency, direction,
			raw_descriptor, canonical_vendor, mcc, memo, source_account,
			hash_id, status
		)
		VALUES ($1, NOW(), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (hash_id) DO UPDATE SET
			txn_date = EXCLUDED.txn_date,
			amount_cents = EXCLUDED.amount_cents,
			currency = EXCLUDED.currency,
			direction = EXCLUDED.direction,
			raw_descriptor = EXCLUDED.raw_descriptor,
			canonical_vendor = EXCLUDED.canonical_vendor,
			mcc = EXCLUDED.mcc,
			memo = EXCLUDED.memo,
			source_account = EXCLUDED.source_account
		RETURNING id, posted_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Date,
		tx.AmountCents,
		tx.Currency,
		tx.Direction,
		tx.RawDescriptor,
		nullable(tx.CanonicalVendor),
		nullable(tx.MCC),
		nullable(tx.Memo),
		tx.SourceAccount,
		tx.HashID,
		tx.Status,
	).Scan(&tx.ID, &tx.PostedAt)
	if err != nil {
		return fmt.Errorf("upserting transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE 1=1`

	var args []any

	argIdx := 1

	appendArg := func(clause string, value any) {
		query += fmt.Sprintf(clause, argIdx)

		args = append(args, value)
		argIdx++
	}

	if filter.StartDate != nil {
		appendArg(" AND t.txn_date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		appendArg(" AND t.txn_date <= $%d", *filter.EndDate)
	}

	if filter.Category != nil {
		appendArg(" AND t.category = $%d", *filter.Category)
	}

	if filter.Vendor != nil {
		appendArg(" AND t.canonical_vendor = $%d", *filter.Vendor)
	}

	if filter.Account != nil {
		appendArg(" AND t.source_account = $%d", *filter.Account)
	}

	if filter.Status != nil {
		appendArg(" AND t.status = $%d", *filter.Status)
	}

	if filter.Direction != nil {
		appendArg(" AND t.direction = $%d", *filter.Direction)
	}

	query += " ORDER BY t.txn_date ASC, t.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateCategorization(ctx context.Context, id int64, params transaction.CategorizationParams) error {
	query := `
		UPDATE transactions
		SET category = $1, subcategory = $2, confidence = $3, status = $4,
			canonical_vendor = COALESCE($5, canonical_vendor)
		WHERE id = $6
	`

	var vendor sql.NullString
	if params.CanonicalVendor != nil {
		vendor = nullable(*params.CanonicalVendor)
	}

	res, err := s.db.ExecContext(ctx, query,
		nullable(params.Category),
		nullable(params.Subcategory),
		params.Confidence.StringFixed(2),
		params.Status,
		vendor,
		id,
	)
	if err != nil {
		return fmt.Errorf("updating categorization: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateReceiptURL(ctx context.Context, id int64, receiptURL string) error {
	query := `UPDATE transactions SET receipt_url = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, nullable(receiptURL), id)
	if err != nil {
		return fmt.Errorf("updating receipt url: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status transaction.Status) error {
	query := `UPDATE transactions SET status = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
