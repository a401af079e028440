package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // decoders for pdfcpu-extracted page images
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// cellGap is the horizontal whitespace (in PDF points) that separates two
// words into different table cells.
const cellGap = 18.0

type PDFProcessor interface {
	ExtractGrid(pdfData []byte) ([][]string, error)
	ExtractText(pdfData []byte) (string, error)
	ExtractImages(pdfData []byte, password string) ([]image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractGrid reads the PDF text rows and splits each row into cells at
// large horizontal gaps between words. This is the table-shaped tier; it
// yields zero rows for PDFs that render as flowing paragraphs, in which
// case the caller falls back to ExtractText.
func (p *pdfProcessor) ExtractGrid(pdfData []byte) ([][]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, err
	}

	var grid [][]string
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			cells := splitRowIntoCells(row.Content)
			if len(cells) >= 2 {
				grid = append(grid, cells)
			}
		}
	}
	return grid, nil
}

// splitRowIntoCells groups positioned words into cells. Words closer than
// cellGap belong to the same cell ("Sundry" + "Debtors"); a wider gap starts
// the next column.
func splitRowIntoCells(words []pdf.Text) []string {
	var cells []string
	var current bytes.Buffer
	lastEnd := -1.0

	for _, word := range words {
		if word.S == "" {
			continue
		}
		if lastEnd >= 0 && word.X-lastEnd > cellGap {
			cells = append(cells, current.String())
			current.Reset()
		} else if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word.S)
		lastEnd = word.X + word.W
		if word.W == 0 {
			// Some producers omit glyph widths; estimate from font size.
			lastEnd = word.X + float64(len(word.S))*word.FontSize*0.5
		}
	}
	if current.Len() > 0 {
		cells = append(cells, current.String())
	}
	return cells
}

func (p *pdfProcessor) ExtractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", err
	}

	var textBuilder bytes.Buffer
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					textBuilder.WriteString(" ")
				}
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

// ExtractImages renders the PDF's embedded page images to disk via pdfcpu
// and decodes them, for the OCR tier on scanned statements.
func (p *pdfProcessor) ExtractImages(pdfData []byte, password string) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "doc-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
	}

	// nil selection extracts from all pages
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	var images []image.Image
	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		imgPath := filepath.Join(tempDir, file.Name())
		imgFile, err := os.Open(imgPath)
		if err != nil {
			continue
		}

		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}
