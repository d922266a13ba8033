package ocr

import (
	"context"
	"fmt"

	"screennotes/pkg/domain"
)

// Router dispatches extraction to a different backend per media kind. Vision
// APIs that only accept raster images pair with the local PDF extractor for
// document attachments.
type Router struct {
	byKind map[domain.MediaKind]Extractor
}

// NewRouter builds a per-kind dispatcher.
func NewRouter(byKind map[domain.MediaKind]Extractor) *Router {
	return &Router{byKind: byKind}
}

// Extract implements Extractor.
func (r *Router) Extract(ctx context.Context, data []byte, kind domain.MediaKind) (string, error) {
	ex, ok := r.byKind[kind]
	if !ok {
		return "", newError(KindUnknown, fmt.Errorf("no extractor for %s media", kind))
	}
	return ex.Extract(ctx, data, kind)
}
