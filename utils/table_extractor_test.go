package utils

import (
	"testing"

	"github.com/crediflow/underwriting/dto"
	"github.com/stretchr/testify/assert"
)

func TestExtractFieldsFromGrid(t *testing.T) {
	grid := [][]string{
		{"Particulars", "Amount"},
		{"Sundry Debtors", "125000"},
		{"Sundry Creditors", "2,50,000"},
		{"Closing Stock", "Rs. 3,00,000"},
		{"Revenue from Operations", "10,00,000"},
	}

	fields := ExtractFieldsFromGrid(grid)

	assert.Equal(t, 125000.0, fields[dto.FieldDebtors])
	assert.Equal(t, 250000.0, fields[dto.FieldCreditors])
	assert.Equal(t, 300000.0, fields[dto.FieldInventory])
	assert.Equal(t, 1000000.0, fields[dto.FieldSales])
}

func TestExtractFieldsFromGridDownwardFallback(t *testing.T) {
	// Transposed layout: labels on one row, values on the next
	grid := [][]string{
		{"Sales", "Net Profit", "Depreciation"},
		{"5,00,000", "60,000", "15,000"},
	}

	fields := ExtractFieldsFromGrid(grid)

	assert.Equal(t, 500000.0, fields[dto.FieldSales])
	assert.Equal(t, 60000.0, fields[dto.FieldNetProfit])
	assert.Equal(t, 15000.0, fields[dto.FieldDepreciation])
}

func TestExtractFieldsFromGridZeroIsNotFound(t *testing.T) {
	// A zero resolution counts as "not yet found" and may be overwritten
	grid := [][]string{
		{"Debtors", "0"},
		{"Trade Receivables", "80,000"},
	}

	fields := ExtractFieldsFromGrid(grid)

	assert.Equal(t, 80000.0, fields[dto.FieldDebtors])
}

func TestExtractFieldsFromGridFirstMatchWins(t *testing.T) {
	grid := [][]string{
		{"Sundry Debtors", "125000"},
		{"Debtors", "999"},
	}

	fields := ExtractFieldsFromGrid(grid)

	assert.Equal(t, 125000.0, fields[dto.FieldDebtors])
}

func TestExtractFieldsFromGridMalformed(t *testing.T) {
	assert.Empty(t, ExtractFieldsFromGrid(nil))
	assert.Empty(t, ExtractFieldsFromGrid([][]string{}))
	assert.Empty(t, ExtractFieldsFromGrid([][]string{{}, {"only a label"}, nil}))
}

func TestMatchFieldOrdering(t *testing.T) {
	field, ok := MatchField("Working Capital Loan")
	assert.True(t, ok)
	assert.Equal(t, dto.FieldBankCredit, field, "specific label must not resolve to capital")

	field, ok = MatchField("  Share_Capital ")
	assert.True(t, ok)
	assert.Equal(t, dto.FieldCapital, field)

	_, ok = MatchField("Auditor remarks")
	assert.False(t, ok)
}
