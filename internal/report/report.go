package report

import "time"

type CategoryTotal struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
}

type VendorTotal struct {
	Vendor      string `json:"vendor"`
	AmountCents int64  `json:"amount_cents"`
}

type TimeseriesPoint struct {
	Date     time.Time `json:"date"`
	SumCents int64     `json:"sum_cents"`
}

// Summary is a period's financial rollup: debit totals per category and
// vendor, a daily debit timeseries, and the income/expense balance.
type Summary struct {
	Period            string            `json:"period"`
	TotalsByCategory  []CategoryTotal   `json:"totals_by_category"`
	TopVendors        []VendorTotal     `json:"top_vendors"`
	Timeseries        []TimeseriesPoint `json:"timeseries"`
	TotalIncomeCents  int64             `json:"total_income_cents"`
	TotalExpenseCents int64             `json:"total_expense_cents"`
	NetSavingsCents   int64             `json:"net_savings_cents"`
}
