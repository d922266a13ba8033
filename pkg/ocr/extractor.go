package ocr

import (
	"context"
	"errors"
	"fmt"

	"screennotes/pkg/domain"
)

// Extractor pulls readable text out of raw image or document bytes.
// All OCR/vision providers implement this interface.
type Extractor interface {
	Extract(ctx context.Context, data []byte, kind domain.MediaKind) (string, error)
}

// ErrorKind classifies extraction failures so callers can surface
// credential problems distinctly from transient network errors.
type ErrorKind string

const (
	KindAuthExpired     ErrorKind = "auth_expired"
	KindAccessDenied    ErrorKind = "access_denied"
	KindNetwork         ErrorKind = "network"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindUnknown         ErrorKind = "unknown"
)

// Error is a typed extraction failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ocr %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("ocr %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the error kind for extraction failures, or KindUnknown
// when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
