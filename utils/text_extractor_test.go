package utils

import (
	"testing"

	"github.com/crediflow/underwriting/dto"
	"github.com/stretchr/testify/assert"
)

func TestExtractFieldsFromText(t *testing.T) {
	text := `
		Statement of Profit and Loss for the year ended 31 March 2024
		Revenue from Operations ......... 12,50,000
		Net Profit for the year: Rs. 1,40,000
		Depreciation and Amortisation    35,000
		Provision for Tax                22,500
	`

	fields := ExtractFieldsFromText(text)

	assert.Equal(t, 1250000.0, fields[dto.FieldSales])
	assert.Equal(t, 140000.0, fields[dto.FieldNetProfit])
	assert.Equal(t, 35000.0, fields[dto.FieldDepreciation])
	assert.Equal(t, 22500.0, fields[dto.FieldTaxPaid])
}

func TestExtractFieldsFromTextProximityWindow(t *testing.T) {
	// The value sits on the next line, outside the synonym's window
	text := "Sundry Debtors as per the annexed schedule attached separately herein\n1,25,000"

	fields := ExtractFieldsFromText(text)

	assert.Zero(t, fields[dto.FieldDebtors], "match must not cross line boundaries")
}

func TestExtractFieldsFromTextFirstMatchWins(t *testing.T) {
	text := "Trade Receivables 80,000\nSundry Debtors 90,000"

	fields := ExtractFieldsFromText(text)

	// "sundry debtors" is the higher-priority synonym even though it occurs later
	assert.Equal(t, 90000.0, fields[dto.FieldDebtors])
}

func TestExtractFieldsFromTextEmpty(t *testing.T) {
	assert.Empty(t, ExtractFieldsFromText(""))
	assert.Empty(t, ExtractFieldsFromText("no accounting labels in this paragraph"))
}
