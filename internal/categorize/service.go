package categorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmartins/centsible/internal/rule"
	"github.com/mmartins/centsible/internal/transaction"
)

// RuleApplier is the deterministic first stage. A nil action with a nil
// error means no rule matched.
type RuleApplier interface {
	Apply(ctx context.Context, tx *transaction.Transaction) (*rule.Action, error)
}

// Thresholds drive the post-categorization status decision.
type Thresholds struct {
	// LowConfidence is the bar below which a result needs human review.
	LowConfidence decimal.Decimal
	// ReviewAmountCents forces review for transactions above it, however
	// confident the categorization.
	ReviewAmountCents int64
}

// Service categorizes transactions: deterministic rules first, the AI
// classifier as fallback, with bounded retries around the classifier.
type Service struct {
	rules      RuleApplier
	classifier Classifier
	policy     RetryPolicy
	thresholds Thresholds
}

func NewService(rules RuleApplier, classifier Classifier, policy RetryPolicy, thresholds Thresholds) *Service {
	return &Service{
		rules:      rules,
		classifier: classifier,
		policy:     policy,
		thresholds: thresholds,
	}
}

var fullConfidence = decimal.NewFromInt(1)

// Categorize resolves a category for the transaction. Rule matches carry
// confidence 1.00 and keep the transaction's current vendor; otherwise
// the classifier decides.
func (s *Service) Categorize(ctx context.Context, tx *transaction.Transaction) (*Result, error) {
	action, err := s.rules.Apply(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("applying rules to transaction %d: %w", tx.ID, err)
	}

	if action != nil {
		slog.Info("transaction categorized by rule",
			"transaction_id", tx.ID,
			"category", action.Category)

		return &Result{
			Category:    action.Category,
			Subcategory: action.Subcategory,
			Confidence:  fullConfidence,
			Vendor:      tx.CanonicalVendor,
		}, nil
	}

	slog.Info("no rule matched, using classifier", "transaction_id", tx.ID)

	return s.classifyWithRetry(ctx, tx)
}

func (s *Service) classifyWithRetry(ctx context.Context, tx *transaction.Transaction) (*Result, error) {
	input := Input{
		Date:        tx.Date,
		AmountCents: tx.AmountCents,
		Currency:    tx.Currency,
		Direction:   string(tx.Direction),
		Descriptor:  tx.RawDescriptor,
		Memo:        tx.Memo,
		MCC:         tx.MCC,
	}

	for attempt := 0; attempt <= s.policy.MaxRetries; attempt++ {
		result, err := s.classifier.Classify(ctx, input)
		if err == nil {
			return s.validate(tx, result), nil
		}

		last := attempt == s.policy.MaxRetries

		switch {
		case errors.Is(err, ErrTimeout):
			slog.Error("classifier timeout", "transaction_id", tx.ID, "attempt", attempt+1)
			if last {
				return nil, fmt.Errorf("classifying transaction %d: %w", tx.ID, err)
			}
			s.policy.pause(retryDelay)

		case errors.Is(err, ErrMalformedResponse):
			slog.Error("malformed classifier response", "transaction_id", tx.ID, "attempt", attempt+1, "error", err)
			if last {
				slog.Error("retries exhausted, using default categorization", "transaction_id", tx.ID)
				return s.defaultResult(tx), nil
			}
			s.policy.pause(retryDelay)

		case errors.Is(err, ErrRateLimited):
			slog.Warn("classifier rate limited", "transaction_id", tx.ID, "attempt", attempt+1)
			if last {
				return nil, fmt.Errorf("classifying transaction %d: %w", tx.ID, err)
			}
			s.policy.pause(backoffDelay(attempt))

		default:
			slog.Error("classifier call failed", "transaction_id", tx.ID, "attempt", attempt+1, "error", err)
			if last {
				return s.defaultResult(tx), nil
			}
			s.policy.pause(backoffDelay(attempt))
		}
	}

	return s.defaultResult(tx), nil
}

// validate coerces an off-taxonomy category to the fallback and keeps
// confidence inside [0, 1].
func (s *Service) validate(tx *transaction.Transaction, result *Result) *Result {
	if result.Confidence.IsNegative() {
		result.Confidence = decimal.Zero
	}
	if result.Confidence.GreaterThan(fullConfidence) {
		result.Confidence = fullConfidence
	}

	if !ValidCategory(result.Category) {
		slog.Warn("classifier returned category outside taxonomy",
			"transaction_id", tx.ID,
			"category", result.Category)

		result.Category = FallbackCategory
		result.Confidence = decimal.NewFromFloat(0.50)
	}

	return result
}

var defaultConfidence = decimal.NewFromFloat(0.30)

func (s *Service) defaultResult(tx *transaction.Transaction) *Result {
	vendor := tx.CanonicalVendor
	if vendor == "" {
		vendor = tx.RawDescriptor
	}

	return &Result{
		Category:    FallbackCategory,
		Subcategory: FallbackSubcategory,
		Confidence:  defaultConfidence,
		Vendor:      vendor,
	}
}

// DecideStatus sends a transaction to review when confidence is below the
// bar or the amount is above the review ceiling.
func (s *Service) DecideStatus(confidence decimal.Decimal, amountCents int64) transaction.Status {
	if confidence.LessThan(s.thresholds.LowConfidence) || amountCents > s.thresholds.ReviewAmountCents {
		return transaction.StatusReview
	}

	return transaction.StatusFinalized
}
