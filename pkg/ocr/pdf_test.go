package ocr

import (
	"context"
	"testing"

	"screennotes/pkg/domain"
)

func TestPDFExtractorRejectsNonPDF(t *testing.T) {
	_, err := NewPDFExtractor().Extract(context.Background(), []byte("bytes"), domain.MediaImage)
	if err == nil {
		t.Fatal("Extract accepted image media")
	}
}

func TestPDFExtractorInvalidDocument(t *testing.T) {
	_, err := NewPDFExtractor().Extract(context.Background(), []byte("not a pdf"), domain.MediaPDF)
	if kind := KindOf(err); kind != KindInvalidResponse {
		t.Fatalf("error kind = %q, want %q", kind, KindInvalidResponse)
	}
}

func TestRouterDispatchesByKind(t *testing.T) {
	router := NewRouter(map[domain.MediaKind]Extractor{
		domain.MediaImage: extractorFunc(func() (string, error) { return "from image", nil }),
		domain.MediaPDF:   extractorFunc(func() (string, error) { return "from pdf", nil }),
	})
	got, err := router.Extract(context.Background(), []byte("x"), domain.MediaPDF)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "from pdf" {
		t.Fatalf("Extract = %q, want %q", got, "from pdf")
	}
}

func TestRouterUnknownKind(t *testing.T) {
	router := NewRouter(map[domain.MediaKind]Extractor{})
	_, err := router.Extract(context.Background(), []byte("x"), domain.MediaImage)
	if err == nil {
		t.Fatal("Extract returned nil error for unmapped kind")
	}
}

type extractorFunc func() (string, error)

func (f extractorFunc) Extract(context.Context, []byte, domain.MediaKind) (string, error) {
	return f()
}
