package generic

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	enc "github.com/mmartins/centsible/internal/encoding"
	"github.com/mmartins/centsible/internal/transaction"
)

// Parser reads bank CSV statement exports and produces ingestion params.
// It auto-detects the layout (card with debit/credit columns, checking
// with a signed amount column) by matching headers against known
// profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader, account string) ([]transaction.IngestParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching statement format: expected card or checking export columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], account)
}

// colIndex maps column names to their index in the header row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from the data rows below the header.
// Rows without a parseable date or amount (footers, running balances)
// are skipped rather than failing the whole import.
func parseRows(p *Profile, cols colIndex, rows [][]string, account string) ([]transaction.IngestParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	memoIdx := -1
	if p.MemoCol != "" {
		if i, ok := cols[p.MemoCol]; ok {
			memoIdx = i
		}
	}

	var params []transaction.IngestParams

	for _, row := range rows {
		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		descriptor := cellValue(row, descIdx)
		if descriptor == "" {
			continue
		}

		amountCents, direction, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		params = append(params, transaction.IngestParams{
			Date:          date,
			AmountCents:   amountCents,
			Direction:     direction,
			RawDescriptor: descriptor,
			Memo:          cellValue(row, memoIdx),
			SourceAccount: account,
		})
	}

	return params, nil
}

var dateLayouts = []string{"01/02/2006", "2006-01-02"}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseAmount(p *Profile, cols colIndex, row []string) (int64, transaction.Direction, bool) {
	switch p.AmountMode {
	case amountSigned:
		return parseSignedAmount(row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return 0, "", false
}

// parseSignedAmount handles a single signed column where negative values
// are money out.
func parseSignedAmount(row []string, idx int) (int64, transaction.Direction, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, "", false
	}

	cents, err := parseUSAmount(s)
	if err != nil || cents == 0 {
		return 0, "", false
	}

	if cents < 0 {
		return -cents, transaction.DirectionDebit, true
	}

	return cents, transaction.DirectionCredit, true
}

// parseSplitAmount handles separate debit and credit columns.
func parseSplitAmount(row []string, debitIdx, creditIdx int) (int64, transaction.Direction, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		if cents, err := parseUSAmount(s); err == nil && cents != 0 {
			return abs(cents), transaction.DirectionDebit, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		if cents, err := parseUSAmount(s); err == nil && cents != 0 {
			return abs(cents), transaction.DirectionCredit, true
		}
	}

	return 0, "", false
}

// parseUSAmount converts "1,234.56", "$12.50" or "(12.50)" to cents.
// Parentheses mark negatives in some card exports.
func parseUSAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}

	cents := int64(math.Round(val * 100))
	if negative {
		cents = -cents
	}

	return cents, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
