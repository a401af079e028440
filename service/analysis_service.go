package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"sync"
	"time"

	"github.com/crediflow/underwriting/dto"
)

// AnalysisService orchestrates one underwriting request: it fans extraction
// out across the uploaded documents, joins on all of them, merges the
// canonical fields and ledger, and hands the merged record to the scoring
// engine. Requests share no mutable state; the vocabulary is read-only.
type AnalysisService struct {
	extraction *ExtractionService
	scoring    *ScoringService
}

func NewAnalysisService(extraction *ExtractionService, scoring *ScoringService) *AnalysisService {
	return &AnalysisService{
		extraction: extraction,
		scoring:    scoring,
	}
}

// Analyze processes all documents of a request and computes the scoring
// result. One unreadable document does not abort the others; its failure is
// carried as a zero-confidence extraction with the error as reason. Scoring
// is a strict join point: it runs only after every document has finished.
func (s *AnalysisService) Analyze(ctx context.Context, req *dto.AnalysisRequest) (*dto.AnalysisResponse, error) {
	var metadata dto.UploadMetadata
	if err := json.Unmarshal([]byte(req.Metadata), &metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata JSON: %w", err)
	}
	if len(metadata.Documents) == 0 {
		return nil, fmt.Errorf("metadata names no documents")
	}

	// A single bad document degrades gracefully below, but a request where
	// nothing can even be dispatched is rejected outright.
	supported := 0
	for _, docMeta := range metadata.Documents {
		if _, err := ClassifyContent(docMeta.Filename); err == nil {
			supported++
		}
	}
	if supported == 0 {
		return nil, fmt.Errorf("%w: no named document has a processable extension", dto.ErrUnsupportedFormat)
	}

	fileMap := make(map[string]*multipart.FileHeader)
	for _, file := range req.Files {
		fileMap[file.Filename] = file
	}

	results := make([]*dto.ExtractionResult, len(metadata.Documents))
	var wg sync.WaitGroup

	for i, docMeta := range metadata.Documents {
		fileHeader, ok := fileMap[docMeta.Filename]
		if !ok {
			log.Printf("Warning: file %s named in metadata not found in upload", docMeta.Filename)
			continue
		}

		wg.Add(1)
		go func(idx int, meta dto.DocumentMeta, file *multipart.FileHeader) {
			defer wg.Done()
			results[idx] = s.extractOne(ctx, meta, file)
		}(i, docMeta, fileHeader)
	}

	wg.Wait()

	var extractions []dto.ExtractionResult
	var transactions []dto.Transaction
	merged := dto.CanonicalFields{}

	// Merge in metadata order so concurrent completion order never changes
	// the outcome. First non-zero value per field wins across documents.
	for _, result := range results {
		if result == nil {
			continue
		}
		extractions = append(extractions, *result)
		mergeFields(&merged, &result.CanonicalFields)
		transactions = append(transactions, result.Transactions...)
	}
	if len(extractions) == 0 {
		return nil, fmt.Errorf("%w: no document produced any output", dto.ErrUnreadableDocument)
	}

	var banking *dto.BankingSummary
	if len(transactions) > 0 {
		banking = s.scoring.AnalyzeBanking(transactions)
	}

	scoringResult := s.scoring.Score(&merged, banking, metadata.LoanRequired, metadata.UndocumentedIncome, 0)

	return &dto.AnalysisResponse{
		Extractions: extractions,
		Banking:     banking,
		Scoring:     scoringResult.Rounded(),
		ProcessedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// extractOne reads and extracts a single document, converting failures into
// a zero-confidence result instead of an error so one bad document cannot
// sink the rest of the request.
func (s *AnalysisService) extractOne(ctx context.Context, meta dto.DocumentMeta, fileHeader *multipart.FileHeader) *dto.ExtractionResult {
	f, err := fileHeader.Open()
	if err != nil {
		return failedExtraction(meta, fmt.Sprintf("failed to open upload: %v", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return failedExtraction(meta, fmt.Sprintf("failed to read upload: %v", err))
	}

	result, err := s.extraction.ExtractDocument(ctx, meta.Filename, data, meta.DocType, meta.Password)
	if err != nil {
		log.Printf("Extraction failed for %s: %v", meta.Filename, err)
		return failedExtraction(meta, err.Error())
	}
	return result
}

func failedExtraction(meta dto.DocumentMeta, reason string) *dto.ExtractionResult {
	return &dto.ExtractionResult{
		DocType:           meta.DocType,
		Filename:          meta.Filename,
		Confidence:        0,
		ConfidenceReasons: []string{reason},
	}
}

// mergeFields copies values from src into dst for every field dst still has
// at zero. Zero means "not yet found", so an earlier document's value is
// never displaced.
func mergeFields(dst, src *dto.CanonicalFields) {
	for _, name := range allFieldNames {
		if dst.Get(name) == 0 {
			dst.Set(name, src.Get(name))
		}
	}
}

var allFieldNames = []dto.FieldName{
	dto.FieldSales, dto.FieldNetProfit, dto.FieldDepreciation, dto.FieldTaxPaid,
	dto.FieldInventory, dto.FieldDebtors, dto.FieldCreditors,
	dto.FieldCurrentAssets, dto.FieldCurrentLiabilities,
	dto.FieldCapital, dto.FieldReserves, dto.FieldUnsecuredLoans,
	dto.FieldLoansAdvances, dto.FieldFixedAssets, dto.FieldPurchases,
	dto.FieldBankCredit, dto.FieldEMIMonthly,
}
