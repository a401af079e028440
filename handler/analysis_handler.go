package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/crediflow/underwriting/dto"
	"github.com/crediflow/underwriting/service"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	analysisService *service.AnalysisService
	scoringService  *service.ScoringService
	requestTimeout  time.Duration
}

func NewAnalysisHandler(analysisService *service.AnalysisService, scoringService *service.ScoringService, requestTimeout time.Duration) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		scoringService:  scoringService,
		requestTimeout:  requestTimeout,
	}
}

// Underwrite handles the POST /underwrite endpoint: multipart documents plus
// a metadata JSON naming each file's document type.
func (h *AnalysisHandler) Underwrite(c *gin.Context) {
	log.Println("Received underwriting request")

	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		h.sendError(c, http.StatusBadRequest, "No files provided", nil)
		return
	}

	metadata := c.PostForm("metadata")
	if metadata == "" {
		h.sendError(c, http.StatusBadRequest, "Metadata is required", nil)
		return
	}

	request := &dto.AnalysisRequest{
		Files:    files,
		Metadata: metadata,
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	log.Printf("Processing %d files", len(files))

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	response, err := h.analysisService.Analyze(ctx, request)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dto.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		} else if errors.Is(err, dto.ErrUnreadableDocument) {
			status = http.StatusUnprocessableEntity
		}
		h.sendError(c, status, "Failed to analyze documents", err)
		return
	}

	log.Println("Underwriting analysis completed")
	c.JSON(http.StatusOK, response)
}

// Score handles the POST /score endpoint for manually keyed canonical
// figures, bypassing extraction.
func (h *AnalysisHandler) Score(c *gin.Context) {
	var input dto.ScoringInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid scoring input", err)
		return
	}

	fields := input.Fields()
	result := h.scoringService.Score(&fields, nil, input.LoanRequired, input.UndocumentedIncome, input.BounceCount)
	c.JSON(http.StatusOK, result.Rounded())
}

// sendError sends a structured error response
func (h *AnalysisHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "ANALYSIS_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
