package anomaly

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/mmartins/centsible/internal/transaction"
)

//go:generate mockgen -source=detector.go -destination=repository_mock.go -package=anomaly
type Repository interface {
	// ListWindow returns all transactions dated within [start, end].
	ListWindow(ctx context.Context, start, end time.Time) ([]*transaction.Transaction, error)
	// VendorFirstSeen maps each canonical vendor to its earliest
	// transaction date across all history.
	VendorFirstSeen(ctx context.Context) (map[string]time.Time, error)
	// SpendByCategory sums debit amounts per category within [start, end].
	SpendByCategory(ctx context.Context, start, end time.Time) (map[string]int64, error)
}

// Config carries the detection thresholds.
type Config struct {
	// NewVendorCents flags a vendor's first-ever charge at or above it.
	NewVendorCents int64
	// MissingReceiptCents flags receiptless debits at or above it.
	MissingReceiptCents int64
	// MissingReceiptLimit caps the missing-receipt alerts per run.
	MissingReceiptLimit int
	// LowConfidence labels the review reason on pending-review alerts.
	LowConfidence decimal.Decimal
}

const (
	// minSampleSize is the fewest transactions a category needs before
	// z-score analysis is meaningful.
	minSampleSize = 5

	zMediumThreshold = 2.0
	zHighThreshold   = 3.0

	spendingMultiplier     = 3.0
	spendingHighMultiplier = 5.0
)

// Detector runs the anomaly passes over a lookback window. Passes are
// independent: one failing pass logs and yields nothing while the others
// still report.
type Detector struct {
	repo Repository
	cfg  Config
}

func NewDetector(repo Repository, cfg Config) *Detector {
	return &Detector{repo: repo, cfg: cfg}
}

// Detect analyzes the last lookbackDays of transactions and returns the
// alerts from all passes, in pass order.
func (d *Detector) Detect(ctx context.Context, lookbackDays int) ([]*Alert, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)

	return d.DetectRange(ctx, end.AddDate(0, 0, -lookbackDays), end)
}

// DetectRange runs all passes over transactions dated within [start, end].
func (d *Detector) DetectRange(ctx context.Context, start, end time.Time) ([]*Alert, error) {
	slog.Info("detecting anomalies",
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly))

	txs, err := d.repo.ListWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading transactions for anomaly detection: %w", err)
	}

	var alerts []*Alert
	alerts = append(alerts, d.runPass(ctx, "new_vendors", func() ([]*Alert, error) {
		return d.detectNewVendors(ctx, txs, start, end)
	})...)
	alerts = append(alerts, d.runPass(ctx, "duplicates", func() ([]*Alert, error) {
		return d.detectDuplicates(txs), nil
	})...)
	alerts = append(alerts, d.runPass(ctx, "zscore_outliers", func() ([]*Alert, error) {
		return d.detectZScoreOutliers(txs), nil
	})...)
	alerts = append(alerts, d.runPass(ctx, "unusual_spending", func() ([]*Alert, error) {
		return d.detectUnusualSpending(ctx, start, end)
	})...)
	alerts = append(alerts, d.runPass(ctx, "missing_receipts", func() ([]*Alert, error) {
		return d.detectMissingReceipts(txs), nil
	})...)
	alerts = append(alerts, d.runPass(ctx, "pending_review", func() ([]*Alert, error) {
		return d.detectPendingReview(txs), nil
	})...)

	slog.Info("anomaly detection finished", "alerts", len(alerts))

	return alerts, nil
}

func (d *Detector) runPass(_ context.Context, name string, pass func() ([]*Alert, error)) []*Alert {
	alerts, err := pass()
	if err != nil {
		slog.Error("anomaly pass failed, skipping", "pass", name, "error", err)
		return nil
	}

	return alerts
}

func newAlert(alertType string, severity Severity) *Alert {
	return &Alert{
		ID:       uuid.NewString(),
		Type:     alertType,
		Severity: severity,
		Metadata: map[string]any{},
	}
}

// detectNewVendors flags vendors whose first-ever charge lands in the
// window at or above the threshold.
func (d *Detector) detectNewVendors(ctx context.Context, txs []*transaction.Transaction, start, end time.Time) ([]*Alert, error) {
	firstSeen, err := d.repo.VendorFirstSeen(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading vendor first-seen dates: %w", err)
	}

	var alerts []*Alert

	for _, tx := range txs {
		if tx.CanonicalVendor == "" || tx.Direction != transaction.DirectionDebit {
			continue
		}
		if tx.AmountCents < d.cfg.NewVendorCents {
			continue
		}

		first, ok := firstSeen[tx.CanonicalVendor]
		if !ok || first.Before(start) || first.After(end) || !tx.Date.Equal(first) {
			continue
		}

		a := newAlert(TypeNewVendor, SeverityWarning)
		a.Vendor = tx.CanonicalVendor
		a.AmountCents = tx.AmountCents
		a.Date = tx.Date
		a.Message = fmt.Sprintf("New vendor '%s' with charge of $%.2f", tx.CanonicalVendor, dollars(tx.AmountCents))
		a.Metadata["first_transaction"] = true
		a.Metadata["transaction_id"] = tx.ID
		alerts = append(alerts, a)
	}

	return alerts, nil
}

// detectDuplicates pairs transactions with the same vendor, amount and
// date but different hashes. Each later twin yields one alert naming
// both transactions.
func (d *Detector) detectDuplicates(txs []*transaction.Transaction) []*Alert {
	type key struct {
		vendor      string
		amountCents int64
		date        time.Time
	}

	var alerts []*Alert
	seen := make(map[key]*transaction.Transaction)

	for _, tx := range txs {
		if tx.CanonicalVendor == "" {
			continue
		}

		k := key{tx.CanonicalVendor, tx.AmountCents, tx.Date}
		other, ok := seen[k]
		if !ok {
			seen[k] = tx
			continue
		}

		if other.HashID == tx.HashID {
			continue
		}

		a := newAlert(TypeDuplicate, SeverityInfo)
		a.Vendor = tx.CanonicalVendor
		a.AmountCents = tx.AmountCents
		a.Date = tx.Date
		a.Message = fmt.Sprintf("Possible duplicate: $%.2f at %s on %s",
			dollars(tx.AmountCents), tx.CanonicalVendor, tx.Date.Format(time.DateOnly))
		a.Metadata["transaction_ids"] = []int64{tx.ID, other.ID}
		a.Metadata["same_day"] = true
		alerts = append(alerts, a)
	}

	return alerts
}

// detectZScoreOutliers flags amounts far from their category mean. The
// spread uses the population deviation over the whole window.
func (d *Detector) detectZScoreOutliers(txs []*transaction.Transaction) []*Alert {
	byCategory := make(map[string][]*transaction.Transaction)
	for _, tx := range txs {
		if tx.Category != "" {
			byCategory[tx.Category] = append(byCategory[tx.Category], tx)
		}
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var alerts []*Alert

	for _, category := range categories {
		group := byCategory[category]
		if len(group) < minSampleSize {
			continue
		}

		amounts := make([]float64, len(group))
		for i, tx := range group {
			amounts[i] = float64(tx.AmountCents)
		}

		mean := stat.Mean(amounts, nil)
		std := stat.PopStdDev(amounts, nil)
		if std == 0 {
			continue
		}

		for _, tx := range group {
			z := math.Abs((float64(tx.AmountCents) - mean) / std)
			if z < zMediumThreshold {
				continue
			}

			severity := SeverityMedium
			if z >= zHighThreshold {
				severity = SeverityHigh
			}

			a := newAlert(TypeZScoreOutlier, severity)
			a.Vendor = tx.CanonicalVendor
			a.Category = category
			a.AmountCents = tx.AmountCents
			a.Date = tx.Date
			a.Message = fmt.Sprintf("Unusual $%.2f transaction in %s (z-score: %.2f)",
				dollars(tx.AmountCents), category, z)
			a.Metadata["z_score"] = round2(z)
			a.Metadata["category_mean"] = round2(mean)
			a.Metadata["category_std"] = round2(std)
			a.Metadata["transaction_id"] = tx.ID
			alerts = append(alerts, a)
		}
	}

	return alerts
}

// detectUnusualSpending compares window debit spend per category against
// the preceding double-length baseline period.
func (d *Detector) detectUnusualSpending(ctx context.Context, start, end time.Time) ([]*Alert, error) {
	periodDays := int(end.Sub(start).Hours() / 24)

	recent, err := d.repo.SpendByCategory(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading recent spending: %w", err)
	}

	// The baseline ends the day before the window opens; a transaction dated
	// exactly on the window start counts only toward the recent total.
	historical, err := d.repo.SpendByCategory(ctx, start.AddDate(0, 0, -2*periodDays), start.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("loading historical spending: %w", err)
	}

	categories := make([]string, 0, len(recent))
	for category := range recent {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var alerts []*Alert

	for _, category := range categories {
		historicalAmount, ok := historical[category]
		if !ok || historicalAmount == 0 {
			continue
		}

		recentAmount := recent[category]
		ratio := float64(recentAmount) / float64(historicalAmount)
		if ratio <= spendingMultiplier {
			continue
		}

		severity := SeverityMedium
		if ratio > spendingHighMultiplier {
			severity = SeverityHigh
		}

		a := newAlert(TypeUnusualSpending, severity)
		a.Category = category
		a.AmountCents = recentAmount
		a.Date = end
		a.Message = fmt.Sprintf("%s spending is %.1fx higher than average", category, ratio)
		a.Metadata["recent_amount_cents"] = recentAmount
		a.Metadata["historical_amount_cents"] = historicalAmount
		a.Metadata["ratio"] = round2(ratio)
		a.Metadata["recent_period_days"] = periodDays
		a.Metadata["historical_period_days"] = 2 * periodDays
		alerts = append(alerts, a)
	}

	return alerts, nil
}

// detectMissingReceipts flags the largest receiptless debits, capped per
// run so a backlog cannot flood the alert feed.
func (d *Detector) detectMissingReceipts(txs []*transaction.Transaction) []*Alert {
	var candidates []*transaction.Transaction
	for _, tx := range txs {
		if tx.ReceiptURL == "" && tx.Direction == transaction.DirectionDebit && tx.AmountCents >= d.cfg.MissingReceiptCents {
			candidates = append(candidates, tx)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AmountCents > candidates[j].AmountCents
	})

	if len(candidates) > d.cfg.MissingReceiptLimit {
		candidates = candidates[:d.cfg.MissingReceiptLimit]
	}

	alerts := make([]*Alert, 0, len(candidates))

	for _, tx := range candidates {
		a := newAlert(TypeMissingReceipt, SeverityInfo)
		a.Vendor = tx.CanonicalVendor
		a.Category = tx.Category
		a.AmountCents = tx.AmountCents
		a.Date = tx.Date
		a.Message = fmt.Sprintf("Missing receipt for $%.2f at %s", dollars(tx.AmountCents), vendorOrDescriptor(tx))
		a.Metadata["transaction_id"] = tx.ID
		a.Metadata["needs_receipt"] = true
		alerts = append(alerts, a)
	}

	return alerts
}

// detectPendingReview surfaces transactions stuck in review, newest
// first, labeled with why they landed there.
func (d *Detector) detectPendingReview(txs []*transaction.Transaction) []*Alert {
	var pending []*transaction.Transaction
	for _, tx := range txs {
		if tx.Status == transaction.StatusReview {
			pending = append(pending, tx)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Date.After(pending[j].Date)
	})

	alerts := make([]*Alert, 0, len(pending))

	for _, tx := range pending {
		reason := "high amount"
		if tx.Confidence != nil && tx.Confidence.LessThan(d.cfg.LowConfidence) {
			reason = "low confidence"
		}

		a := newAlert(TypeLowConfidence, SeverityWarning)
		a.Vendor = tx.CanonicalVendor
		a.Category = tx.Category
		a.AmountCents = tx.AmountCents
		a.Date = tx.Date
		a.Message = fmt.Sprintf("Transaction pending review (%s): $%.2f at %s",
			reason, dollars(tx.AmountCents), vendorOrDescriptor(tx))
		a.Metadata["transaction_id"] = tx.ID
		a.Metadata["reason"] = reason
		if tx.Confidence != nil {
			a.Metadata["confidence"] = tx.Confidence.InexactFloat64()
		}
		alerts = append(alerts, a)
	}

	return alerts
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func vendorOrDescriptor(tx *transaction.Transaction) string {
	if tx.CanonicalVendor != "" {
		return tx.CanonicalVendor
	}

	return tx.RawDescriptor
}
