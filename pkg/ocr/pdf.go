package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"screennotes/pkg/domain"
)

// PDFExtractor reads the embedded text layer of a PDF locally, without any
// network call. PDFs that are pure scans yield no text here; the pipeline
// treats that the same as any other empty extraction.
type PDFExtractor struct{}

// NewPDFExtractor returns a local PDF text extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Provider implements Extractor.
func (e *PDFExtractor) Provider() string { return "pdf-text-layer" }

// Extract pulls plain text from every readable page, skipping pages the
// parser cannot handle rather than failing the whole document.
func (e *PDFExtractor) Extract(_ context.Context, data []byte, kind domain.MediaKind) (string, error) {
	if kind != domain.MediaPDF {
		return "", newError(KindUnknown, fmt.Errorf("pdf extractor got %s media", kind))
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newError(KindInvalidResponse, fmt.Errorf("open pdf: %w", err))
	}
	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
