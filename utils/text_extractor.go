package utils

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/crediflow/underwriting/dto"
)

// proximityWindow bounds how far after a matched label the value may sit.
const proximityWindow = 40

var (
	synonymPatterns     map[string]*regexp.Regexp
	synonymPatternsOnce sync.Once
)

// compilePatterns builds one proximity pattern per synonym: the synonym
// followed within the window by the first run of digits with optional
// separators and a decimal point, on the same line.
func compilePatterns() {
	synonymPatterns = make(map[string]*regexp.Regexp)
	for _, entry := range FieldVocabulary {
		for _, synonym := range entry.Synonyms {
			pattern := `(?i)` + regexp.QuoteMeta(synonym) +
				`[^0-9\n]{0,` + strconv.Itoa(proximityWindow) + `}?([0-9][0-9,]*(?:\.[0-9]+)?)`
			synonymPatterns[synonym] = regexp.MustCompile(pattern)
		}
	}
}

// ExtractFieldsFromText scans unstructured text for vocabulary synonyms and
// captures the first numeric run within the proximity window after each one.
// First successful match per field wins. Used when no table-shaped extraction
// is available, typically for PDFs that render as flowing paragraphs.
func ExtractFieldsFromText(text string) map[dto.FieldName]float64 {
	synonymPatternsOnce.Do(compilePatterns)

	found := make(map[dto.FieldName]float64)
	for _, entry := range FieldVocabulary {
		if found[entry.Field] != 0 {
			continue
		}
		for _, synonym := range entry.Synonyms {
			re := synonymPatterns[synonym]
			matches := re.FindStringSubmatch(text)
			if len(matches) < 2 {
				continue
			}
			if value, ok := CleanNumericToken(matches[1]); ok && value > 0 {
				found[entry.Field] = value
				break
			}
		}
	}
	return found
}
