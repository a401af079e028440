package utils

import "github.com/crediflow/underwriting/dto"

// ExtractFieldsFromGrid scans a 2-D grid of cells for labels that match the
// accounting vocabulary and harvests the nearest numeric value: rightward in
// the matched row first, then downward in the matched column for transposed
// sheets. A later match for a field only replaces an earlier one when the
// earlier one resolved to zero. Never fails on ragged or empty grids.
func ExtractFieldsFromGrid(grid [][]string) map[dto.FieldName]float64 {
	found := make(map[dto.FieldName]float64)

	for rowIdx, row := range grid {
		for colIdx, cell := range row {
			field, ok := MatchField(cell)
			if !ok {
				continue
			}
			if existing := found[field]; existing != 0 {
				continue
			}

			if value, ok := scanRight(row, colIdx); ok {
				found[field] = value
				continue
			}
			if value, ok := scanDown(grid, rowIdx, colIdx); ok {
				found[field] = value
			}
		}
	}

	return found
}

func scanRight(row []string, from int) (float64, bool) {
	for i := from + 1; i < len(row); i++ {
		if value, ok := CleanNumericToken(row[i]); ok && value > 0 {
			return value, true
		}
	}
	return 0, false
}

func scanDown(grid [][]string, fromRow, col int) (float64, bool) {
	for i := fromRow + 1; i < len(grid); i++ {
		if col >= len(grid[i]) {
			continue
		}
		if value, ok := CleanNumericToken(grid[i][col]); ok && value > 0 {
			return value, true
		}
	}
	return 0, false
}
