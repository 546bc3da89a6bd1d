package generic

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned means one signed column where negatives are debits.
	amountSigned amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a statement export format.
// Supporting a new bank export is just adding a Profile here.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	MemoCol    string // optional
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSigned
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit
}

// requiredCols returns the column names that must be present for this
// profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of export formats tried during
// auto-detection. More specific layouts come first to avoid false
// matches.
var profiles = []Profile{
	{
		Name:       "card",
		DateCol:    "Transaction Date",
		DescCol:    "Description",
		MemoCol:    "Memo",
		AmountMode: amountSplit,
		DebitCol:   "Debit",
		CreditCol:  "Credit",
	},
	{
		Name:       "checking",
		DateCol:    "Date",
		DescCol:    "Description",
		AmountMode: amountSigned,
		AmountCol:  "Amount",
	},
}
