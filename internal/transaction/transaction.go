package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money left the account (debit) or entered it (credit).
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Valid reports whether d is one of the two accepted directions.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusIngested  Status = "ingested"
	StatusReview    Status = "review"
	StatusFinalized Status = "finalized"
)

var ErrNotFound = errors.New("transaction not found")

// ErrInvalidDirection is returned when a write carries a direction outside
// debit/credit.
var ErrInvalidDirection = errors.New("direction must be debit or credit")

// Transaction represents a single ingested financial transaction.
// HashID uniquely identifies it; re-ingesting the same hash updates the
// mutable fields instead of creating a second row.
type Transaction struct {
	ID              int64
	Date            time.Time // transaction date, day precision
	PostedAt        time.Time
	AmountCents     int64 // minor currency units; sign carried by Direction
	Currency        string
	Direction       Direction
	RawDescriptor   string
	CanonicalVendor string // empty when no vendor matched
	MCC             string // merchant category code, empty when unknown
	Memo            string
	SourceAccount   string
	HashID          string
	ReceiptURL      string
	Category        string
	Subcategory     string
	Confidence      *decimal.Decimal // [0, 1], two decimals
	Status          Status
	Notes           string
}
