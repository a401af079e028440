package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// ExtractDelimitedGrid parses a delimited text document into a grid. The
// delimiter is detected from the first line; ragged rows and stray quotes
// are tolerated since bank exports are rarely well-formed CSV.
func ExtractDelimitedGrid(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited document: %w", err)
	}
	return records, nil
}

// detectDelimiter picks the separator with the most occurrences on the
// first line, defaulting to comma.
func detectDelimiter(data []byte) rune {
	firstLine := string(data)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}

	best := ','
	bestCount := strings.Count(firstLine, ",")
	for _, candidate := range []rune{'\t', ';', '|'} {
		if count := strings.Count(firstLine, string(candidate)); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}
