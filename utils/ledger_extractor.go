package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/crediflow/underwriting/dto"
)

var dateTokenRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`)

// crMarkerRe / drMarkerRe match explicit polarity markers as standalone
// tokens so descriptions like "CREDIT CARD" do not trip them.
var (
	crMarkerRe = regexp.MustCompile(`(?i)\bCR\.?\b`)
	drMarkerRe = regexp.MustCompile(`(?i)\bDR\.?\b`)
)

var ledgerDateFormats = []string{
	"02/01/2006", "02-01-2006",
	"2/1/2006", "2-1-2006",
	"02/01/06", "02-01-06",
	"2/1/06", "2-1-06",
	"2006-01-02",
}

// ParseLedgerDate parses a statement date token against the accepted shapes
// (day/month/4-digit-year, day/month/2-digit-year, ISO).
func ParseLedgerDate(token string) (time.Time, bool) {
	for _, format := range ledgerDateFormats {
		if t, err := time.Parse(format, token); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Header cues naming the amount columns of a structured statement.
var (
	creditHeaderCues = []string{"credit", "deposit", "cr amount", "paid in"}
	debitHeaderCues  = []string{"debit", "withdrawal", "dr amount", "paid out"}
)

// ledgerColumns are the amount column indexes resolved from a header row.
type ledgerColumns struct {
	debit  int
	credit int
}

// ExtractTransactionsFromGrid walks table rows and keeps every row carrying
// a date token and at least one amount in the sanity range. When the first
// rows name debit and credit columns, amounts are read by column index and
// polarity comes from the column alone; header-less grids go through the
// row heuristic instead. Encounter order is preserved; chronological
// regrouping is the consumer's job.
func ExtractTransactionsFromGrid(grid [][]string) []dto.Transaction {
	var transactions []dto.Transaction

	if cols, headerIdx, ok := detectLedgerColumns(grid); ok {
		for _, row := range grid[headerIdx+1:] {
			if tx, ok := classifyColumnRow(row, cols); ok {
				transactions = append(transactions, tx)
			}
		}
		return transactions
	}

	for _, row := range grid {
		joined := strings.Join(row, "  ")
		if tx, ok := classifyRow(joined); ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions
}

// detectLedgerColumns scans the first few rows for a header naming both
// amount columns. Both must resolve; a lone credit-like header is too weak
// a signal to trust column positions.
func detectLedgerColumns(grid [][]string) (ledgerColumns, int, bool) {
	limit := len(grid)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		cols := ledgerColumns{debit: -1, credit: -1}
		for j, cell := range grid[i] {
			switch {
			case cols.credit < 0 && ContainsAny(cell, creditHeaderCues):
				cols.credit = j
			case cols.debit < 0 && ContainsAny(cell, debitHeaderCues):
				cols.debit = j
			}
		}
		if cols.credit >= 0 && cols.debit >= 0 {
			return cols, i, true
		}
	}
	return ledgerColumns{}, 0, false
}

// classifyColumnRow reads a transaction from a structured row: the amount's
// polarity is whichever named column holds it, never the row heuristic.
func classifyColumnRow(row []string, cols ledgerColumns) (dto.Transaction, bool) {
	joined := strings.TrimSpace(strings.Join(row, "  "))
	dateToken := dateTokenRe.FindString(joined)
	if dateToken == "" {
		return dto.Transaction{}, false
	}

	tx := dto.Transaction{Description: joined}
	if parsed, ok := ParseLedgerDate(dateToken); ok {
		tx.Date = &parsed
	}
	if value, ok := cellAmount(row, cols.credit); ok {
		tx.Credit = value
	}
	if value, ok := cellAmount(row, cols.debit); ok {
		tx.Debit = value
	}
	if tx.Credit == 0 && tx.Debit == 0 {
		return dto.Transaction{}, false
	}
	return tx, true
}

func cellAmount(row []string, col int) (float64, bool) {
	if col >= len(row) {
		return 0, false
	}
	return CleanPositiveAmount(row[col])
}

// ExtractTransactionsFromText does the same over raw text lines, for
// statements that only yield flowing text.
func ExtractTransactionsFromText(text string) []dto.Transaction {
	var transactions []dto.Transaction
	for _, line := range strings.Split(text, "\n") {
		if tx, ok := classifyRow(line); ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions
}

// classifyRow extracts a transaction from a single statement row. Rows
// without a date token or without any numeric value are discarded. Polarity
// is resolved by a layered heuristic in fixed priority: explicit CR/DR
// markers, then description keyword cues, then the numeric-position
// heuristic. No single signal is reliable across issuing banks.
func classifyRow(row string) (dto.Transaction, bool) {
	trimmed := strings.TrimSpace(row)
	if trimmed == "" {
		return dto.Transaction{}, false
	}

	dateToken := dateTokenRe.FindString(trimmed)
	if dateToken == "" {
		return dto.Transaction{}, false
	}

	remainder := strings.Replace(trimmed, dateToken, "", 1)
	amounts := extractAmounts(remainder)
	if len(amounts) == 0 {
		return dto.Transaction{}, false
	}

	// With two or more values the last one is the running balance and the
	// second-to-last is the transaction amount.
	amount := amounts[len(amounts)-1]
	balance := 0.0
	if len(amounts) >= 2 {
		amount = amounts[len(amounts)-2]
		balance = amounts[len(amounts)-1]
	}

	tx := dto.Transaction{Description: trimmed}
	if parsed, ok := ParseLedgerDate(dateToken); ok {
		tx.Date = &parsed
	}

	switch {
	case crMarkerRe.MatchString(remainder):
		tx.Credit = amount
	case drMarkerRe.MatchString(remainder):
		tx.Debit = amount
	case ContainsAny(remainder, DebitKeywords):
		tx.Debit = amount
	case len(amounts) >= 2:
		if amount < balance {
			tx.Credit = amount
		} else {
			tx.Debit = amount
		}
	default:
		// Marker-free row with no debit cue defaults to credit.
		tx.Credit = amount
	}

	return tx, true
}

// extractAmounts pulls every numeric token in the row that survives the
// cleaner's sanity range, in left-to-right order.
func extractAmounts(row string) []float64 {
	var amounts []float64
	for _, token := range strings.Fields(row) {
		if value, ok := CleanPositiveAmount(token); ok {
			amounts = append(amounts, value)
		}
	}
	return amounts
}
