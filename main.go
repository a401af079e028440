package main

import (
	"log"
	"os"

	"github.com/crediflow/underwriting/client"
	"github.com/crediflow/underwriting/config"
	"github.com/crediflow/underwriting/handler"
	"github.com/crediflow/underwriting/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Tesseract v5 reads the model path from the environment
	cfg := config.LoadConfig()
	os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)

	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	pdfProcessor := service.NewPDFProcessor()

	extractionService := service.NewExtractionService(pdfProcessor, tesseractClient, cfg.OCRTimeout)
	scoringService := service.NewScoringService(cfg.ApprovalThreshold)
	analysisService := service.NewAnalysisService(extractionService, scoringService)

	analysisHandler := handler.NewAnalysisHandler(analysisService, scoringService, cfg.RequestTimeout)

	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Credit Underwriting",
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/underwrite", analysisHandler.Underwrite)
		api.POST("/score", analysisHandler.Score)
	}

	log.Printf("Starting Credit Underwriting Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
