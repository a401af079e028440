package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/crediflow/underwriting/client"
	"github.com/crediflow/underwriting/dto"
	"github.com/crediflow/underwriting/utils"
)

const (
	// minTextLength below which a PDF text tier is considered empty and the
	// pipeline falls through to OCR.
	minTextLength = 20

	// minRowDensity is the transaction count above which the density bonus
	// applies.
	minRowDensity = 5
)

// creditColumnSynonyms identify the credit/deposit column in a statement
// header row.
var creditColumnSynonyms = []string{"credit", "deposit", "cr amount", "paid in"}

// readabilityKeywords gate free-text bank statement analysis: a statement
// page missing most of these never had its columns recognized.
var readabilityKeywords = []string{"date", "balance", "credit", "debit"}

// ExtractionService runs the strategy-ranked extraction pipeline: one
// dispatcher, an ordered list of extractor tiers per content kind, and a
// single canonicalization/confidence step at the end.
type ExtractionService struct {
	pdfProcessor PDFProcessor
	tesseract    *client.TesseractClient
	ocrTimeout   time.Duration
}

func NewExtractionService(pdfProcessor PDFProcessor, tesseract *client.TesseractClient, ocrTimeout time.Duration) *ExtractionService {
	return &ExtractionService{
		pdfProcessor: pdfProcessor,
		tesseract:    tesseract,
		ocrTimeout:   ocrTimeout,
	}
}

// ClassifyContent maps a filename to its content kind. Classification is
// strictly by extension; bytes are never sniffed so behavior stays
// predictable and testable.
func ClassifyContent(filename string) (dto.ContentKind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv", ".txt":
		return dto.KindDelimited, nil
	case ".xlsx", ".xlsm", ".xls":
		return dto.KindSpreadsheet, nil
	case ".pdf":
		return dto.KindPDF, nil
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return dto.KindImage, nil
	}
	return "", fmt.Errorf("%w: %s", dto.ErrUnsupportedFormat, filename)
}

// tierOutput is what one extractor tier produced for a document. Only the
// first tier that produces anything non-zero feeds canonicalization; tiers
// are never merged for the same document.
type tierOutput struct {
	fields       map[dto.FieldName]float64
	transactions []dto.Transaction
	grid         [][]string
	text         string
	reasons      []string
}

func (t *tierOutput) usable() bool {
	return len(t.fields) > 0 || len(t.transactions) > 0
}

// ExtractDocument runs the pipeline for one document and canonicalizes the
// winning tier's output. It returns dto.ErrUnreadableDocument only when
// every tier, OCR included, produced nothing; partial extraction is
// reported through a reduced confidence score instead.
func (s *ExtractionService) ExtractDocument(ctx context.Context, filename string, data []byte, docType dto.DocumentType, password string) (*dto.ExtractionResult, error) {
	kind, err := ClassifyContent(filename)
	if err != nil {
		return nil, err
	}

	var out tierOutput
	switch kind {
	case dto.KindDelimited:
		out, err = s.extractFromDelimited(data, docType)
	case dto.KindSpreadsheet:
		out, err = s.extractFromSpreadsheet(data, docType)
	case dto.KindPDF:
		out, err = s.extractFromPDF(ctx, filename, data, docType, password)
	case dto.KindImage:
		out, err = s.extractFromImageBytes(ctx, data, docType)
	}
	if err != nil {
		return nil, err
	}

	result := &dto.ExtractionResult{
		DocType:      docType,
		Filename:     filename,
		Transactions: out.transactions,
	}
	for name, value := range out.fields {
		result.CanonicalFields.Set(name, value)
	}

	s.scoreConfidence(result, &out, docType)
	return result, nil
}

func (s *ExtractionService) extractFromDelimited(data []byte, docType dto.DocumentType) (tierOutput, error) {
	grid, err := ExtractDelimitedGrid(data)
	if err != nil {
		return tierOutput{}, fmt.Errorf("%w: %v", dto.ErrUnreadableDocument, err)
	}
	return s.extractFromGrid(grid, docType), nil
}

func (s *ExtractionService) extractFromSpreadsheet(data []byte, docType dto.DocumentType) (tierOutput, error) {
	grid, err := ExtractSpreadsheetGrid(data)
	if err != nil {
		return tierOutput{}, fmt.Errorf("%w: %v", dto.ErrUnreadableDocument, err)
	}
	return s.extractFromGrid(grid, docType), nil
}

func (s *ExtractionService) extractFromGrid(grid [][]string, docType dto.DocumentType) tierOutput {
	out := tierOutput{grid: grid}
	if docType == dto.DocTypeBankStatement {
		out.transactions = utils.ExtractTransactionsFromGrid(grid)
	} else {
		out.fields = utils.ExtractFieldsFromGrid(grid)
	}
	return out
}

// extractFromPDF walks the three-tier chain: table-shaped extraction first,
// free text second, OCR over rendered page images last. Each tier is
// strictly more expensive and strictly more tolerant of unstructured input.
func (s *ExtractionService) extractFromPDF(ctx context.Context, filename string, data []byte, docType dto.DocumentType, password string) (tierOutput, error) {
	// Tier 1: table-shaped rows
	if grid, err := s.pdfProcessor.ExtractGrid(data); err == nil && len(grid) > 0 {
		out := s.extractFromGrid(grid, docType)
		if out.usable() {
			return out, nil
		}
	}

	// Tier 2: free text
	text, err := s.pdfProcessor.ExtractText(data)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", filename, err)
	}
	if len(strings.TrimSpace(text)) >= minTextLength {
		out := s.extractFromText(text, docType)
		out.reasons = append(out.reasons, "fell back to free-text extraction")
		if out.usable() {
			return out, nil
		}
	}

	// Tier 3: OCR over page images, common with scanned statements
	log.Printf("PDF %s has minimal text, attempting image-based OCR", filename)
	return s.ocrTier(ctx, filename, data, docType, password)
}

func (s *ExtractionService) extractFromText(text string, docType dto.DocumentType) tierOutput {
	out := tierOutput{text: text}
	if docType == dto.DocTypeBankStatement {
		out.transactions = utils.ExtractTransactionsFromText(text)
	} else {
		out.fields = utils.ExtractFieldsFromText(text)
	}
	return out
}

func (s *ExtractionService) ocrTier(ctx context.Context, filename string, data []byte, docType dto.DocumentType, password string) (tierOutput, error) {
	images, err := s.pdfProcessor.ExtractImages(data, password)
	if err != nil || len(images) == 0 {
		return tierOutput{}, fmt.Errorf("%w: no page images in %s", dto.ErrUnreadableDocument, filename)
	}

	ocrCtx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	var combined strings.Builder
	var reasons []string
	timedOut := false

	for _, img := range images {
		pageText, conf, err := s.tesseract.ExtractImage(ocrCtx, img)
		if err != nil {
			if ocrCtx.Err() != nil {
				timedOut = true
				break
			}
			log.Printf("OCR failed for a page in %s: %v", filename, err)
			continue
		}
		if conf > 0 && conf < 60 {
			reasons = append(reasons, "low OCR confidence page")
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")
	}

	text := combined.String()
	if strings.TrimSpace(text) == "" {
		if timedOut {
			return tierOutput{}, fmt.Errorf("%w: OCR timed out before any page of %s was read", dto.ErrUnreadableDocument, filename)
		}
		return tierOutput{}, fmt.Errorf("%w: OCR produced no text for %s", dto.ErrUnreadableDocument, filename)
	}

	out := s.extractFromText(text, docType)
	out.reasons = append(out.reasons, "fell back to OCR")
	out.reasons = append(out.reasons, reasons...)
	if timedOut {
		out.reasons = append(out.reasons, "OCR timed out; partial pages only")
	}
	return out, nil
}

func (s *ExtractionService) extractFromImageBytes(ctx context.Context, data []byte, docType dto.DocumentType) (tierOutput, error) {
	ocrCtx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	text, conf, err := s.tesseract.ExtractImageBytes(ocrCtx, data)
	if err != nil || strings.TrimSpace(text) == "" {
		return tierOutput{}, fmt.Errorf("%w: image OCR produced no text", dto.ErrUnreadableDocument)
	}

	out := s.extractFromText(text, docType)
	out.reasons = append(out.reasons, "fell back to OCR")
	if conf > 0 && conf < 60 {
		out.reasons = append(out.reasons, "low OCR confidence page")
	}
	return out, nil
}

// scoreConfidence computes the 0-100 extraction confidence once, additively,
// after all extractors have run. A document that fails the column-detection
// bar short-circuits to 0 with an explicit reason so zeroed output is never
// mistaken for a confidently-empty document.
func (s *ExtractionService) scoreConfidence(result *dto.ExtractionResult, out *tierOutput, docType dto.DocumentType) {
	reasons := append([]string{}, out.reasons...)
	score := 0

	if docType == dto.DocTypeBankStatement {
		score = s.scoreBankingConfidence(result, out, &reasons)
	} else {
		score = s.scoreFinancialConfidence(result, out, &reasons)
	}

	for _, reason := range reasons {
		if reason == "OCR timed out; partial pages only" {
			score -= 20
		}
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	result.Confidence = score
	result.ConfidenceReasons = reasons
}

func (s *ExtractionService) scoreBankingConfidence(result *dto.ExtractionResult, out *tierOutput, reasons *[]string) int {
	creditSignal := gridHasCreditColumn(out.grid)
	var totalCredit, totalDebit float64
	for _, tx := range result.Transactions {
		totalCredit += tx.Credit
		totalDebit += tx.Debit
		if tx.Credit > 0 {
			creditSignal = true
		}
	}

	if !creditSignal {
		*reasons = append(*reasons, "credit column not detected")
		result.Transactions = nil
		return 0
	}

	corpus := out.text
	if corpus == "" {
		for _, row := range out.grid {
			corpus += strings.ToLower(strings.Join(row, " ")) + "\n"
		}
	}
	if out.text != "" && !textIsReadable(out.text) {
		*reasons = append(*reasons, "missing critical columns: date, credit, or balance")
	}

	score := 40 // unambiguous credit column
	switch {
	case totalCredit > 0 && totalDebit > 0:
		score += 40
	case totalCredit > 0 || totalDebit > 0:
		score += 30
	default:
		*reasons = append(*reasons, "no non-zero totals")
	}
	if len(result.Transactions) >= minRowDensity {
		score += 20
	} else {
		*reasons = append(*reasons, "transaction density below threshold")
	}
	if utils.ContainsAny(corpus, utils.BounceKeywords) {
		score += 10
		*reasons = append(*reasons, "bounce/return keywords detected")
		if utils.ContainsAny(corpus, utils.EMIKeywords) {
			score += 10
		}
	}
	return score
}

func (s *ExtractionService) scoreFinancialConfidence(result *dto.ExtractionResult, out *tierOutput, reasons *[]string) int {
	found := len(out.fields)
	if found == 0 {
		*reasons = append(*reasons, "no accounting labels matched")
		return 0
	}

	score := 40 // at least one label resolved to a value
	aggregates := 0
	for _, name := range []dto.FieldName{dto.FieldSales, dto.FieldCurrentAssets, dto.FieldCurrentLiabilities, dto.FieldNetProfit} {
		if result.CanonicalFields.Get(name) > 0 {
			aggregates++
		}
	}
	switch {
	case aggregates >= 2:
		score += 40
	case aggregates == 1:
		score += 30
	default:
		*reasons = append(*reasons, "no aggregate totals found")
	}
	if found >= minRowDensity {
		score += 20
	} else {
		*reasons = append(*reasons, "few accounting labels matched")
	}
	return score
}

func gridHasCreditColumn(grid [][]string) bool {
	// Only header rows matter; scanning the first few keeps noise rows from
	// counting as headers.
	limit := len(grid)
	if limit > 5 {
		limit = 5
	}
	for _, row := range grid[:limit] {
		for _, cell := range row {
			if utils.ContainsAny(cell, creditColumnSynonyms) {
				return true
			}
		}
	}
	return false
}

func textIsReadable(text string) bool {
	lower := strings.ToLower(text)
	found := 0
	for _, keyword := range readabilityKeywords {
		if strings.Contains(lower, keyword) {
			found++
		}
	}
	return found >= 3
}
