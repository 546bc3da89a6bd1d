package transaction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// UpsertByHash inserts the transaction or, when a row with the same
	// hash_id exists, updates its mutable fields. The row id is written back
	// to tx.ID either way.
	UpsertByHash(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateCategorization(ctx context.Context, id int64, params CategorizationParams) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	UpdateReceiptURL(ctx context.Context, id int64, receiptURL string) error
}

// Normalizer resolves a raw descriptor to a canonical vendor name.
// Empty result means no match; normalization never fails ingestion.
type Normalizer interface {
	Normalize(ctx context.Context, rawDescriptor string) string
}

type Service struct {
	repo       Repository
	normalizer Normalizer
}

func NewService(repo Repository, normalizer Normalizer) *Service {
	return &Service{repo: repo, normalizer: normalizer}
}

type IngestParams struct {
	Date          time.Time
	AmountCents   int64
	Currency      string
	Direction     Direction
	RawDescriptor string
	MCC           string
	Memo          string
	SourceAccount string
	HashID        string // computed from the content when empty
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Vendor    *string
	Account   *string
	Status    *Status
	Direction *Direction
}

// CategorizationParams carries the mutable categorization fields written
// back after the decision pipeline runs.
type CategorizationParams struct {
	Category        string
	Subcategory     string
	Confidence      decimal.Decimal
	CanonicalVendor *string // nil leaves the stored vendor untouched
	Status          Status
}

// ComputeHash derives the deduplication key from the identity tuple
// date|amount|descriptor|account.
func ComputeHash(date time.Time, amountCents int64, descriptor, account string) string {
	data := fmt.Sprintf("%s|%d|%s|%s", date.Format(time.DateOnly), amountCents, descriptor, account)
	sum := sha256.Sum256([]byte(data))

	return hex.EncodeToString(sum[:])
}

// Ingest stores a transaction idempotently: the same content hash always
// lands on the same row, with mutable fields refreshed.
func (s *Service) Ingest(ctx context.Context, params IngestParams) (*Transaction, error) {
	if !params.Direction.Valid() {
		return nil, ErrInvalidDirection
	}

	hashID := params.HashID
	if hashID == "" {
		hashID = ComputeHash(params.Date, params.AmountCents, params.RawDescriptor, params.SourceAccount)
	}

	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	tx := &Transaction{
		Date:            params.Date,
		AmountCents:     params.AmountCents,
		Currency:        currency,
		Direction:       params.Direction,
		RawDescriptor:   params.RawDescriptor,
		CanonicalVendor: s.normalizer.Normalize(ctx, params.RawDescriptor),
		MCC:             params.MCC,
		Memo:            params.Memo,
		SourceAccount:   params.SourceAccount,
		HashID:          hashID,
		Status:          StatusIngested,
	}

	if err := s.repo.UpsertByHash(ctx, tx); err != nil {
		return nil, fmt.Errorf("upserting transaction: %w", err)
	}

	slog.Info("transaction ingested",
		"id", tx.ID,
		"vendor", tx.CanonicalVendor,
		"amount_cents", tx.AmountCents,
		"hash", hashID[:8])

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ApplyCategorization writes the outcome of the categorization pipeline back
// to the row.
func (s *Service) ApplyCategorization(ctx context.Context, id int64, params CategorizationParams) error {
	return s.repo.UpdateCategorization(ctx, id, params)
}

// Finalize applies a manual category override. Overrides carry full
// confidence and land directly in the finalized state.
func (s *Service) Finalize(ctx context.Context, id int64, category, subcategory string) error {
	one := decimal.NewFromInt(1)

	return s.repo.UpdateCategorization(ctx, id, CategorizationParams{
		Category:    category,
		Subcategory: subcategory,
		Confidence:  one,
		Status:      StatusFinalized,
	})
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

// UpdateReceipt links a receipt file to the transaction.
func (s *Service) UpdateReceipt(ctx context.Context, id int64, receiptURL string) error {
	return s.repo.UpdateReceiptURL(ctx, id, receiptURL)
}
