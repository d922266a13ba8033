// Package app holds the screenshot-to-note pipeline: validate the inbound
// attachment, extract its text, derive a structured note, persist the source
// bytes and the note, and report per-stage progress to the caller.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"screennotes/pkg/domain"
	"screennotes/pkg/notes"
	"screennotes/pkg/ocr"
	"screennotes/pkg/storage"
	"screennotes/pkg/store"
)

// Stage identifies a pipeline step. One progress event is emitted before each
// stage starts so the messaging surface can update a single status message.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageExtracting  Stage = "extracting"
	StageStructuring Stage = "structuring"
	StageUploading   Stage = "uploading"
	StageSaving      Stage = "saving"
)

// ProgressFunc receives progress events for one run, in stage order.
type ProgressFunc func(Stage)

// NoteStructurer turns extracted text into a note draft.
type NoteStructurer interface {
	Structure(ctx context.Context, text string) (domain.NoteDraft, error)
}

// ImageStructurer produces a complete note draft straight from image bytes,
// collapsing the extract and structure stages into one backend call.
type ImageStructurer interface {
	StructureImage(ctx context.Context, data []byte, kind domain.MediaKind) (domain.NoteDraft, error)
}

// Config holds the capability set for one pipeline. Either Vision, or the
// Extractor+Structurer pair, must be provided; the choice is made once at
// process start, never per run. Provider names the configured backend for
// note metadata.
type Config struct {
	Provider   string
	Extractor  ocr.Extractor
	Structurer NoteStructurer
	Vision     ImageStructurer
	Assets     storage.ObjectStore
	Store      store.Store
}

// App runs the pipeline for inbound attachments. Runs are independent; the
// only shared state is the backing stores.
type App struct {
	provider   string
	extractor  ocr.Extractor
	structurer NoteStructurer
	vision     ImageStructurer
	assets     storage.ObjectStore
	store      store.Store
}

// New validates the capability wiring and constructs the pipeline.
func New(cfg Config) (*App, error) {
	if cfg.Assets == nil {
		return nil, fmt.Errorf("asset store required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("note store required")
	}
	if cfg.Vision == nil && (cfg.Extractor == nil || cfg.Structurer == nil) {
		return nil, fmt.Errorf("either a vision structurer or an extractor+structurer pair is required")
	}
	return &App{
		provider:   cfg.Provider,
		extractor:  cfg.Extractor,
		structurer: cfg.Structurer,
		vision:     cfg.Vision,
		assets:     cfg.Assets,
		store:      cfg.Store,
	}, nil
}

// Run processes one attachment through all stages, strictly in order. Any
// stage failure is terminal for the run; nothing is retried here. A failed
// note save leaves the already-uploaded asset in place (accepted drift, see
// DESIGN.md) rather than attempting a compensating delete.
func (a *App) Run(ctx context.Context, att domain.Attachment, onProgress ProgressFunc) (domain.Note, error) {
	emit := func(s Stage) {
		if onProgress != nil {
			onProgress(s)
		}
	}

	emit(StageValidating)
	if len(att.Data) == 0 {
		return domain.Note{}, fmt.Errorf("%w: empty attachment", ErrUnsupportedMedia)
	}
	if att.Kind != domain.MediaImage && att.Kind != domain.MediaPDF {
		return domain.Note{}, fmt.Errorf("%w: %q", ErrUnsupportedMedia, att.Kind)
	}

	draft, err := a.buildDraft(ctx, att, emit)
	if err != nil {
		return domain.Note{}, err
	}
	if strings.TrimSpace(draft.Content) == "" {
		return domain.Note{}, ErrNoTextFound
	}
	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = notes.DefaultTitle
	}
	draft.Tags = domain.NormalizeTags(draft.Tags)

	emit(StageUploading)
	key := assetKey(att)
	assetURL, err := a.assets.Put(ctx, key, att.Data, contentTypeFor(att.Kind))
	if err != nil {
		return domain.Note{}, fmt.Errorf("%w: %v", ErrAssetUpload, err)
	}

	emit(StageSaving)
	saved, err := a.store.SaveNote(domain.Note{
		OwnerID:   att.OwnerID,
		Title:     draft.Title,
		Tags:      draft.Tags,
		Content:   draft.Content,
		AssetURL:  assetURL,
		Provider:  a.provider,
		CreatedAt: receivedAt(att),
	})
	if err != nil {
		slog.Warn("note save failed, asset left orphaned", "key", key, "owner", att.OwnerID, "err", err)
		return domain.Note{}, fmt.Errorf("%w: %v", ErrNoteSave, err)
	}
	return saved, nil
}

// buildDraft runs the extract and structure stages. Extraction errors keep
// their ocr typing so credential failures stay distinguishable upstream.
func (a *App) buildDraft(ctx context.Context, att domain.Attachment, emit func(Stage)) (domain.NoteDraft, error) {
	if a.vision != nil {
		emit(StageExtracting)
		draft, err := a.vision.StructureImage(ctx, att.Data, att.Kind)
		if err != nil {
			return domain.NoteDraft{}, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
		}
		emit(StageStructuring)
		return draft, nil
	}

	emit(StageExtracting)
	text, err := a.extractor.Extract(ctx, att.Data, att.Kind)
	if err != nil {
		return domain.NoteDraft{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.NoteDraft{}, ErrNoTextFound
	}

	emit(StageStructuring)
	draft, err := a.structurer.Structure(ctx, text)
	if err != nil {
		return domain.NoteDraft{}, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
	}
	return draft, nil
}

// assetKey builds a collision-resistant object key per owner and receive time
// so repeated sends never overwrite an unrelated asset.
func assetKey(att domain.Attachment) string {
	ext := "jpg"
	if att.Kind == domain.MediaPDF {
		ext = "pdf"
	}
	ts := receivedAt(att).Format("20060102_150405")
	return fmt.Sprintf("notes/%s/%s_%s.%s", att.OwnerID, ts, uuid.NewString()[:8], ext)
}

func contentTypeFor(kind domain.MediaKind) string {
	if kind == domain.MediaPDF {
		return "application/pdf"
	}
	return "image/jpeg"
}

func receivedAt(att domain.Attachment) time.Time {
	if att.ReceivedAt.IsZero() {
		return time.Now().UTC()
	}
	return att.ReceivedAt
}
