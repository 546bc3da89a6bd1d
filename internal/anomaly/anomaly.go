package anomaly

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Alert types, one per detection pass.
const (
	TypeNewVendor       = "new_vendor_over_threshold"
	TypeDuplicate       = "duplicate_warning"
	TypeZScoreOutlier   = "zscore_outlier"
	TypeUnusualSpending = "unusual_category_spending"
	TypeMissingReceipt  = "missing_receipt"
	TypeLowConfidence   = "low_confidence"
)

// Alert is a single detected anomaly. Alerts are advisory; they never
// block or mutate the transactions they point at.
type Alert struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Vendor      string         `json:"vendor,omitempty"`
	Category    string         `json:"category,omitempty"`
	AmountCents int64          `json:"amount_cents"`
	Date        time.Time      `json:"date"`
	Message     string         `json:"message"`
	Severity    Severity       `json:"severity"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
