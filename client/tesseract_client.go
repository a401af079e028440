package client

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/otiai10/gosseract/v2"
)

type TesseractClient struct {
	dataPath string
}

func NewTesseractClient(dataPath string) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
	}
}

type ocrResult struct {
	text       string
	confidence float64
	err        error
}

// ExtractImage runs OCR over a decoded page image. The gosseract call is
// CPU-bound and cannot be interrupted, so it runs in its own goroutine and
// the context deadline abandons the wait; the goroutine cleans up after
// itself when it finishes.
func (tc *TesseractClient) ExtractImage(ctx context.Context, img image.Image) (string, float64, error) {
	tempFile, err := saveTempPNG(img)
	if err != nil {
		return "", 0, fmt.Errorf("failed to save temp image: %w", err)
	}

	results := make(chan ocrResult, 1)
	go func() {
		defer os.Remove(tempFile)
		text, conf, err := tc.ExtractTextAndQuality(tempFile)
		results <- ocrResult{text: text, confidence: conf, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", 0, ctx.Err()
	case res := <-results:
		return res.text, res.confidence, res.err
	}
}

// ExtractImageBytes runs OCR over raw uploaded image bytes (png/jpeg/tiff),
// honoring the same cancellation contract as ExtractImage.
func (tc *TesseractClient) ExtractImageBytes(ctx context.Context, data []byte) (string, float64, error) {
	tempFile, err := os.CreateTemp("", "ocr-upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", 0, fmt.Errorf("failed to write temp file: %w", err)
	}
	tempFile.Close()

	results := make(chan ocrResult, 1)
	go func() {
		defer os.Remove(tempFile.Name())
		text, conf, err := tc.ExtractTextAndQuality(tempFile.Name())
		results <- ocrResult{text: text, confidence: conf, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", 0, ctx.Err()
	case res := <-results:
		return res.text, res.confidence, res.err
	}
}

// ExtractTextAndQuality extracts text plus a word-level confidence average
// from one image file.
func (tc *TesseractClient) ExtractTextAndQuality(filePath string) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	client.SetTessdataPrefix(tc.dataPath)
	if err := client.SetLanguage("eng"); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(filePath); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// If bounding boxes fail, just return text and 0 confidence
		return text, 0, nil
	}

	var totalConf float64
	var count int
	for _, box := range boxes {
		totalConf += box.Confidence
		count++
	}

	avgConf := 0.0
	if count > 0 {
		avgConf = totalConf / float64(count)
	}

	return text, avgConf, nil
}

func saveTempPNG(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "ocr-img-*.png")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}
	return tempFile.Name(), nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}
