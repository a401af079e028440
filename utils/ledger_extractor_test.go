package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCreditMarkerRow(t *testing.T) {
	transactions := ExtractTransactionsFromText("12/05/23  45,000.00 CR  120,500.00")

	assert.Len(t, transactions, 1)
	tx := transactions[0]
	assert.Equal(t, 45000.0, tx.Credit)
	assert.Zero(t, tx.Debit)
	if assert.NotNil(t, tx.Date) {
		assert.Equal(t, time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC), *tx.Date)
	}
}

func TestClassifyDebitMarkerRow(t *testing.T) {
	transactions := ExtractTransactionsFromText("03/04/2024 CHQ 001234 DR 12,000.00 88,500.00")

	assert.Len(t, transactions, 1)
	assert.Equal(t, 12000.0, transactions[0].Debit)
	assert.Zero(t, transactions[0].Credit)
}

func TestClassifyKeywordRow(t *testing.T) {
	// No CR/DR marker; "ATM" implies a debit
	transactions := ExtractTransactionsFromText("15-06-2024 ATM WDL MUMBAI 5,000.00 83,500.00")

	assert.Len(t, transactions, 1)
	assert.Equal(t, 5000.0, transactions[0].Debit)
}

func TestClassifyPositionalHeuristic(t *testing.T) {
	// Marker-free, keyword-free: second-to-last is the amount, last the
	// balance; amount below balance reads as a credit
	transactions := ExtractTransactionsFromText("2024-06-20 NEFT TRANSFER 40,000.00 1,23,500.00")
	assert.Len(t, transactions, 1)
	assert.Equal(t, 40000.0, transactions[0].Credit)

	// Amount at or above balance reads as a debit
	transactions = ExtractTransactionsFromText("2024-06-21 NEFT TRANSFER 1,50,000.00 23,500.00")
	assert.Len(t, transactions, 1)
	assert.Equal(t, 150000.0, transactions[0].Debit)
}

func TestMarkerFreeSingleAmountDefaultsToCredit(t *testing.T) {
	transactions := ExtractTransactionsFromText("01/07/2024 SALARY JULY 52,000.00")

	assert.Len(t, transactions, 1)
	assert.Equal(t, 52000.0, transactions[0].Credit)
}

func TestRowsWithoutDateOrAmountAreDiscarded(t *testing.T) {
	text := `Account Statement
Opening Balance 10,000.00
05/07/2024 NO NUMBERS HERE
05/07/2024 UPI OUT 1,200.00 8,800.00
Closing Balance`

	transactions := ExtractTransactionsFromText(text)

	assert.Len(t, transactions, 1)
	assert.Equal(t, 1200.0, transactions[0].Debit)
}

func TestExtractTransactionsFromGrid(t *testing.T) {
	grid := [][]string{
		{"Date", "Description", "Debit", "Credit", "Balance"},
		{"02/01/2024", "NEFT FROM ACME LTD", "", "75,000.00", "1,25,000.00"},
		{"05/01/2024", "CHQ RET INSUFFICIENT FUNDS", "2,000.00", "", "1,23,000.00"},
	}

	transactions := ExtractTransactionsFromGrid(grid)

	assert.Len(t, transactions, 2)
	assert.Equal(t, 75000.0, transactions[0].Credit)
	assert.Equal(t, 2000.0, transactions[1].Debit)
}

func TestGridDebitColumnBeatsRowHeuristic(t *testing.T) {
	// Keyword-free description in the debit column: the named column decides
	// polarity, not the amount-below-balance rule
	grid := [][]string{
		{"Date", "Description", "Debit", "Credit", "Balance"},
		{"05/01/2024", "RENT TO LANDLORD", "40,000.00", "", "83,500.00"},
	}

	transactions := ExtractTransactionsFromGrid(grid)

	assert.Len(t, transactions, 1)
	assert.Equal(t, 40000.0, transactions[0].Debit)
	assert.Zero(t, transactions[0].Credit)
}

func TestGridWithoutHeaderUsesRowHeuristic(t *testing.T) {
	grid := [][]string{
		{"15-06-2024", "ATM WDL MUMBAI", "5,000.00", "83,500.00"},
	}

	transactions := ExtractTransactionsFromGrid(grid)

	assert.Len(t, transactions, 1)
	assert.Equal(t, 5000.0, transactions[0].Debit)
}

func TestParseLedgerDate(t *testing.T) {
	for token, want := range map[string]time.Time{
		"12/05/23":   time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
		"12/05/2023": time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
		"2023-05-12": time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC),
		"01-02-2024": time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	} {
		got, ok := ParseLedgerDate(token)
		assert.True(t, ok, token)
		assert.Equal(t, want, got, token)
	}

	_, ok := ParseLedgerDate("31/31/2024")
	assert.False(t, ok)
}
