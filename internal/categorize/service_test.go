package categorize_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmartins/centsible/internal/categorize"
	"github.com/mmartins/centsible/internal/rule"
	"github.com/mmartins/centsible/internal/transaction"
)

func sampleTx() *transaction.Transaction {
	return &transaction.Transaction{
		ID:            42,
		Date:          time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		AmountCents:   784,
		Currency:      "USD",
		Direction:     transaction.DirectionDebit,
		RawDescriptor: "TST* STARBUCKS 1234",
		MCC:           "5814",
		SourceAccount: "amex",
	}
}

func defaultThresholds() categorize.Thresholds {
	return categorize.Thresholds{
		LowConfidence:     decimal.RequireFromString("0.80"),
		ReviewAmountCents: 5000,
	}
}

// sleepRecorder captures backoff pauses instead of waiting them out.
type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(d time.Duration) {
	r.delays = append(r.delays, d)
}

func newService(t *testing.T, rules []*rule.Rule, classifier categorize.Classifier) (*categorize.Service, *sleepRecorder) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ruleRepo := rule.NewMockRepository(ctrl)
	ruleRepo.EXPECT().ListActiveRules(gomock.Any()).Return(rules, nil).AnyTimes()

	rec := &sleepRecorder{}
	policy := categorize.RetryPolicy{MaxRetries: 2, Sleep: rec.sleep}

	return categorize.NewService(rule.NewEngine(ruleRepo), classifier, policy, defaultThresholds()), rec
}

func assertConfidence(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"confidence = %s, want %s", got, want)
}

func TestService_Categorize_RuleMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	// No classifier expectations: a rule match must not reach the model.

	rules := []*rule.Rule{
		{
			ID:        1,
			Priority:  1,
			Condition: rule.Contains("STARBUCKS"),
			Action:    rule.Action{Category: "Dining", Subcategory: "Coffee"},
			Active:    true,
		},
	}

	svc, _ := newService(t, rules, classifier)

	tx := sampleTx()
	tx.CanonicalVendor = "Starbucks"

	result, err := svc.Categorize(context.Background(), tx)
	require.NoError(t, err)

	assert.Equal(t, "Dining", result.Category)
	assert.Equal(t, "Coffee", result.Subcategory)
	assert.Equal(t, "Starbucks", result.Vendor)
	assertConfidence(t, "1", result.Confidence)
}

func TestService_Categorize_ClassifierFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(&categorize.Result{
		Category:    "Dining",
		Subcategory: "Coffee",
		Confidence:  decimal.RequireFromString("0.93"),
		Vendor:      "Starbucks",
	}, nil)

	svc, rec := newService(t, nil, classifier)

	result, err := svc.Categorize(context.Background(), sampleTx())
	require.NoError(t, err)

	assert.Equal(t, "Dining", result.Category)
	assert.Equal(t, "Starbucks", result.Vendor)
	assertConfidence(t, "0.93", result.Confidence)
	assert.Empty(t, rec.delays)
}

func TestService_Categorize_ClampsConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"AboveOne", "1.5", "1"},
		{"BelowZero", "-0.2", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			classifier := categorize.NewMockClassifier(ctrl)
			classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(&categorize.Result{
				Category:   "Dining",
				Confidence: decimal.RequireFromString(tt.in),
			}, nil)

			svc, _ := newService(t, nil, classifier)

			result, err := svc.Categorize(context.Background(), sampleTx())
			require.NoError(t, err)
			assertConfidence(t, tt.want, result.Confidence)
		})
	}
}

func TestService_Categorize_InvalidCategoryFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(&categorize.Result{
		Category:   "Lottery",
		Confidence: decimal.RequireFromString("0.90"),
	}, nil)

	svc, _ := newService(t, nil, classifier)

	result, err := svc.Categorize(context.Background(), sampleTx())
	require.NoError(t, err)

	assert.Equal(t, categorize.FallbackCategory, result.Category)
	assertConfidence(t, "0.50", result.Confidence)
}

func TestService_Categorize_RetryThenSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	gomock.InOrder(
		classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(nil, categorize.ErrTimeout),
		classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(&categorize.Result{
			Category:   "Groceries",
			Confidence: decimal.RequireFromString("0.95"),
		}, nil),
	)

	svc, rec := newService(t, nil, classifier)

	result, err := svc.Categorize(context.Background(), sampleTx())
	require.NoError(t, err)

	assert.Equal(t, "Groceries", result.Category)
	assert.Equal(t, []time.Duration{time.Second}, rec.delays)
}

func TestService_Categorize_TimeoutExhaustedPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(nil, categorize.ErrTimeout).Times(3)

	svc, rec := newService(t, nil, classifier)

	_, err := svc.Categorize(context.Background(), sampleTx())
	assert.ErrorIs(t, err, categorize.ErrTimeout)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, rec.delays)
}

func TestService_Categorize_MalformedExhaustedDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(nil, categorize.ErrMalformedResponse).Times(3)

	svc, _ := newService(t, nil, classifier)

	result, err := svc.Categorize(context.Background(), sampleTx())
	require.NoError(t, err)

	assert.Equal(t, categorize.FallbackCategory, result.Category)
	assert.Equal(t, categorize.FallbackSubcategory, result.Subcategory)
	assertConfidence(t, "0.30", result.Confidence)
	assert.Equal(t, "TST* STARBUCKS 1234", result.Vendor,
		"vendor falls back to the raw descriptor when no canonical vendor is set")
}

func TestService_Categorize_RateLimitBackoffThenPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(nil, categorize.ErrRateLimited).Times(3)

	svc, rec := newService(t, nil, classifier)

	_, err := svc.Categorize(context.Background(), sampleTx())
	assert.ErrorIs(t, err, categorize.ErrRateLimited)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestService_Categorize_GenericErrorDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	classifier := categorize.NewMockClassifier(ctrl)
	classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("upstream 500")).Times(3)

	svc, rec := newService(t, nil, classifier)

	tx := sampleTx()
	tx.CanonicalVendor = "Starbucks"

	result, err := svc.Categorize(context.Background(), tx)
	require.NoError(t, err)

	assert.Equal(t, categorize.FallbackCategory, result.Category)
	assertConfidence(t, "0.30", result.Confidence)
	assert.Equal(t, "Starbucks", result.Vendor)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestService_DecideStatus(t *testing.T) {
	type testCase struct {
		name        string
		confidence  string
		amountCents int64
		want        transaction.Status
	}

	tests := []testCase{
		{"ConfidentSmallAmount", "0.93", 784, transaction.StatusFinalized},
		{"AtConfidenceThreshold", "0.80", 784, transaction.StatusFinalized},
		{"BelowConfidenceThreshold", "0.79", 784, transaction.StatusReview},
		{"AtAmountThreshold", "0.95", 5000, transaction.StatusFinalized},
		{"AboveAmountThreshold", "0.95", 5001, transaction.StatusReview},
		{"BothOverThresholds", "0.10", 99999, transaction.StatusReview},
	}

	svc := categorize.NewService(nil, nil, categorize.RetryPolicy{}, defaultThresholds())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.DecideStatus(decimal.RequireFromString(tt.confidence), tt.amountCents)
			assert.Equal(t, tt.want, got)
		})
	}
}
