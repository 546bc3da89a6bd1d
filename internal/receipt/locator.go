// Package receipt links transactions to receipt files stored in an
// external drive folder.
package receipt

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmartins/centsible/internal/transaction"
)

// Criteria is the search window a receipt must fall in to match a
// transaction: within a few days of the transaction date and within a
// tolerance of its amount.
type Criteria struct {
	DateStart      time.Time
	DateEnd        time.Time
	AmountMinCents int64
	AmountMaxCents int64
	Vendor         string
}

const (
	dateToleranceDays = 3
	amountTolerance   = 0.10
)

// CriteriaFor computes the match window for a transaction.
func CriteriaFor(tx *transaction.Transaction) Criteria {
	return Criteria{
		DateStart:      tx.Date.AddDate(0, 0, -dateToleranceDays),
		DateEnd:        tx.Date.AddDate(0, 0, dateToleranceDays),
		AmountMinCents: int64(float64(tx.AmountCents) * (1 - amountTolerance)),
		AmountMaxCents: int64(float64(tx.AmountCents) * (1 + amountTolerance)),
		Vendor:         tx.CanonicalVendor,
	}
}

// Locator finds receipt files for transactions.
type Locator struct {
	driveFolderID string
}

func NewLocator(driveFolderID string) *Locator {
	return &Locator{driveFolderID: driveFolderID}
}

// Find returns the URL of a receipt matching the transaction, or "" when
// none is found.
//
// TODO: wire up the drive folder search; for now every lookup reports no
// match so callers can already depend on the interface.
func (l *Locator) Find(_ context.Context, tx *transaction.Transaction) (string, error) {
	criteria := CriteriaFor(tx)

	slog.Info("receipt search criteria",
		"transaction_id", tx.ID,
		"date_start", criteria.DateStart.Format(time.DateOnly),
		"date_end", criteria.DateEnd.Format(time.DateOnly),
		"amount_min_cents", criteria.AmountMinCents,
		"amount_max_cents", criteria.AmountMaxCents,
		"drive_folder", l.driveFolderID)

	slog.Warn("receipt matching not yet implemented", "transaction_id", tx.ID)

	return "", nil
}
