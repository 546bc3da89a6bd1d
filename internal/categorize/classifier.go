package categorize

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrTimeout marks a classification attempt cut off by the model
	// deadline. Surfaced to the caller once retries are exhausted.
	ErrTimeout = errors.New("classifier timeout")

	// ErrMalformedResponse marks a model reply that could not be decoded
	// into a usable result. Exhausted retries degrade to the fallback
	// category instead of failing.
	ErrMalformedResponse = errors.New("malformed classifier response")

	// ErrRateLimited marks a quota rejection from the model API.
	ErrRateLimited = errors.New("classifier rate limited")
)

// Input carries the transaction fields the model classifies on.
type Input struct {
	Date        time.Time
	AmountCents int64
	Currency    string
	Direction   string
	Descriptor  string
	Memo        string
	MCC         string
}

// Result is a single categorization outcome, from either a rule or the
// classifier. Confidence is always within [0, 1] at two decimal places.
type Result struct {
	Category    string
	Subcategory string
	Confidence  decimal.Decimal
	Vendor      string
}

//go:generate mockgen -source=classifier.go -destination=classifier_mock.go -package=categorize
type Classifier interface {
	Classify(ctx context.Context, input Input) (*Result, error)
}
