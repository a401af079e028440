package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExtractSpreadsheetGrid loads an xlsx workbook from memory and returns the
// first non-empty sheet as a grid of string cells. Row lengths are ragged,
// exactly as excelize reports them; the extractors tolerate that.
func ExtractSpreadsheetGrid(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("workbook has no readable sheet")
}
