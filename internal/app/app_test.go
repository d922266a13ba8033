package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"screennotes/pkg/domain"
	"screennotes/pkg/notes"
	"screennotes/pkg/ocr"
	"screennotes/pkg/store"
)

type extractorFunc func(ctx context.Context, data []byte, kind domain.MediaKind) (string, error)

func (f extractorFunc) Extract(ctx context.Context, data []byte, kind domain.MediaKind) (string, error) {
	return f(ctx, data, kind)
}

type visionFunc func(ctx context.Context, data []byte, kind domain.MediaKind) (domain.NoteDraft, error)

func (f visionFunc) StructureImage(ctx context.Context, data []byte, kind domain.MediaKind) (domain.NoteDraft, error) {
	return f(ctx, data, kind)
}

type fakeAssets struct {
	puts     int
	lastKey  string
	lastData []byte
	err      error
}

func (f *fakeAssets) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts++
	f.lastKey = key
	f.lastData = data
	return "https://assets.test/" + key, nil
}

func (f *fakeAssets) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeAssets) Delete(context.Context, string) error { return nil }

type failingStore struct {
	store.Store
}

func (failingStore) SaveNote(domain.Note) (domain.Note, error) {
	return domain.Note{}, errors.New("db down")
}

func newTextApp(t *testing.T, extractor ocr.Extractor, assets *fakeAssets, st store.Store) *App {
	t.Helper()
	a, err := New(Config{
		Provider:   "test-ocr",
		Extractor:  extractor,
		Structurer: notes.NewStructurer(),
		Assets:     assets,
		Store:      st,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestRunInvoiceEndToEnd(t *testing.T) {
	const text = "Invoice #4521\nTotal: $120.00\nDue 2025-01-15"
	imageBytes := []byte("fake jpeg bytes")
	extractor := extractorFunc(func(_ context.Context, data []byte, _ domain.MediaKind) (string, error) {
		if string(data) != string(imageBytes) {
			t.Errorf("extractor saw different bytes than the attachment")
		}
		return text, nil
	})
	assets := &fakeAssets{}
	memStore := store.NewMemoryStore()
	a := newTextApp(t, extractor, assets, memStore)

	var stages []Stage
	note, err := a.Run(context.Background(), domain.Attachment{
		Data:       imageBytes,
		Kind:       domain.MediaImage,
		OwnerID:    "42",
		ReceivedAt: time.Now().UTC(),
	}, func(s Stage) { stages = append(stages, s) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if note.Title != "Invoice #4521" {
		t.Fatalf("title = %q, want %q", note.Title, "Invoice #4521")
	}
	for _, tag := range []string{"finance", "date"} {
		if !hasTag(note.Tags, tag) {
			t.Fatalf("tags = %v, missing %q", note.Tags, tag)
		}
	}
	if note.Content != text {
		t.Fatalf("content = %q, want the full extracted text", note.Content)
	}
	if note.AssetURL == "" {
		t.Fatal("asset URL not set on the saved note")
	}
	if note.ID == "" {
		t.Fatal("note ID not assigned")
	}
	if string(assets.lastData) != string(imageBytes) {
		t.Fatal("stored asset bytes differ from the attachment bytes")
	}

	wantStages := []Stage{StageValidating, StageExtracting, StageStructuring, StageUploading, StageSaving}
	if len(stages) != len(wantStages) {
		t.Fatalf("stages = %v, want %v", stages, wantStages)
	}
	for i := range wantStages {
		if stages[i] != wantStages[i] {
			t.Fatalf("stages = %v, want %v", stages, wantStages)
		}
	}

	// round-trip through the repository
	listed, err := memStore.ListRecentNotes("42", 10)
	if err != nil {
		t.Fatalf("ListRecentNotes: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("len(listed) = %d, want 1", len(listed))
	}
	got := listed[0]
	if got.Title != note.Title || got.Content != note.Content || got.AssetURL != note.AssetURL {
		t.Fatalf("listed note %+v differs from saved note %+v", got, note)
	}
	if len(got.Tags) != len(note.Tags) {
		t.Fatalf("listed tags %v differ from saved tags %v", got.Tags, note.Tags)
	}
}

func TestRunEmptyExtractionShortCircuits(t *testing.T) {
	extractor := extractorFunc(func(context.Context, []byte, domain.MediaKind) (string, error) {
		return "   \n\t ", nil
	})
	assets := &fakeAssets{}
	memStore := store.NewMemoryStore()
	a := newTextApp(t, extractor, assets, memStore)

	_, err := a.Run(context.Background(), domain.Attachment{Data: []byte("x"), Kind: domain.MediaImage, OwnerID: "7"}, nil)
	if !errors.Is(err, ErrNoTextFound) {
		t.Fatalf("err = %v, want ErrNoTextFound", err)
	}
	if assets.puts != 0 {
		t.Fatal("asset store was called after an empty extraction")
	}
	if listed, _ := memStore.ListRecentNotes("7", 10); len(listed) != 0 {
		t.Fatal("a note was persisted after an empty extraction")
	}
}

func TestRunAuthExpired(t *testing.T) {
	extractor := extractorFunc(func(context.Context, []byte, domain.MediaKind) (string, error) {
		return "", &ocr.Error{Kind: ocr.KindAuthExpired, Err: errors.New("token rejected")}
	})
	assets := &fakeAssets{}
	memStore := store.NewMemoryStore()
	a := newTextApp(t, extractor, assets, memStore)

	_, err := a.Run(context.Background(), domain.Attachment{Data: []byte("x"), Kind: domain.MediaImage, OwnerID: "7"}, nil)
	if kind := ocr.KindOf(err); kind != ocr.KindAuthExpired {
		t.Fatalf("error kind = %q, want auth_expired", kind)
	}
	if assets.puts != 0 {
		t.Fatal("asset store was called after an extraction failure")
	}
	if listed, _ := memStore.ListRecentNotes("7", 10); len(listed) != 0 {
		t.Fatal("a note was persisted after an extraction failure")
	}
}

func TestRunValidation(t *testing.T) {
	called := false
	extractor := extractorFunc(func(context.Context, []byte, domain.MediaKind) (string, error) {
		called = true
		return "text", nil
	})
	a := newTextApp(t, extractor, &fakeAssets{}, store.NewMemoryStore())

	cases := []struct {
		name string
		att  domain.Attachment
	}{
		{"empty bytes", domain.Attachment{Kind: domain.MediaImage, OwnerID: "1"}},
		{"unknown kind", domain.Attachment{Data: []byte("x"), Kind: "gif", OwnerID: "1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Run(context.Background(), tc.att, nil)
			if !errors.Is(err, ErrUnsupportedMedia) {
				t.Fatalf("err = %v, want ErrUnsupportedMedia", err)
			}
			if called {
				t.Fatal("extractor was called for an invalid attachment")
			}
		})
	}
}

func TestRunNoteSaveFailureLeavesAssetOrphaned(t *testing.T) {
	extractor := extractorFunc(func(context.Context, []byte, domain.MediaKind) (string, error) {
		return "some text", nil
	})
	assets := &fakeAssets{}
	a := newTextApp(t, extractor, assets, failingStore{store.NewMemoryStore()})

	_, err := a.Run(context.Background(), domain.Attachment{Data: []byte("x"), Kind: domain.MediaImage, OwnerID: "7"}, nil)
	if !errors.Is(err, ErrNoteSave) {
		t.Fatalf("err = %v, want ErrNoteSave", err)
	}
	if assets.puts != 1 {
		t.Fatalf("asset puts = %d, want 1 (orphaned upload)", assets.puts)
	}
}

func TestRunAssetUploadFailure(t *testing.T) {
	extractor := extractorFunc(func(context.Context, []byte, domain.MediaKind) (string, error) {
		return "some text", nil
	})
	memStore := store.NewMemoryStore()
	a := newTextApp(t, extractor, &fakeAssets{err: errors.New("bucket gone")}, memStore)

	_, err := a.Run(context.Background(), domain.Attachment{Data: []byte("x"), Kind: domain.MediaImage, OwnerID: "7"}, nil)
	if !errors.Is(err, ErrAssetUpload) {
		t.Fatalf("err = %v, want ErrAssetUpload", err)
	}
	if listed, _ := memStore.ListRecentNotes("7", 10); len(listed) != 0 {
		t.Fatal("a note was persisted after an asset upload failure")
	}
}

func TestRunAIBackend(t *testing.T) {
	vision := visionFunc(func(context.Context, []byte, domain.MediaKind) (domain.NoteDraft, error) {
		return domain.NoteDraft{Title: "Login page", Tags: []string{"Auth", "auth", ""}, Content: "Sign in to continue"}, nil
	})
	assets := &fakeAssets{}
	memStore := store.NewMemoryStore()
	a, err := New(Config{Provider: "ai-vision", Vision: vision, Assets: assets, Store: memStore})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	note, err := a.Run(context.Background(), domain.Attachment{Data: []byte("x"), Kind: domain.MediaImage, OwnerID: "9"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if note.Provider != "ai-vision" {
		t.Fatalf("provider = %q, want ai-vision", note.Provider)
	}
	if len(note.Tags) != 1 || note.Tags[0] != "auth" {
		t.Fatalf("tags = %v, want normalized [auth]", note.Tags)
	}
}

func TestRunAIEmptyContent(t *testing.T) {
	vision := visionFunc(func(context.Context, []byte, domain.MediaKind) (domain.NoteDraft, error) {
		return domain.NoteDraft{Title: "t", Content: "  "}, nil
	})
	assets := &fakeAssets{}
	a, err := New(Config{Provider: "ai-vision", Vision: vision, Assets: assets, Store: store.NewMemoryStore()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = a.Run(context.Background(), domain.Attachment{Data: []byte("x"), Kind: domain.MediaImage, OwnerID: "9"}, nil)
	if !errors.Is(err, ErrNoTextFound) {
		t.Fatalf("err = %v, want ErrNoTextFound", err)
	}
	if assets.puts != 0 {
		t.Fatal("asset store was called for an empty AI draft")
	}
}

func TestRunDefaultTitle(t *testing.T) {
	vision := visionFunc(func(context.Context, []byte, domain.MediaKind) (domain.NoteDraft, error) {
		return domain.NoteDraft{Content: "body text"}, nil
	})
	a, err := New(Config{Provider: "ai-vision", Vision: vision, Assets: &fakeAssets{}, Store: store.NewMemoryStore()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	note, err := a.Run(context.Background(), domain.Attachment{Data: []byte("x"), Kind: domain.MediaImage, OwnerID: "9"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if note.Title != notes.DefaultTitle {
		t.Fatalf("title = %q, want the default title", note.Title)
	}
}

func TestNewRequiresCapabilities(t *testing.T) {
	_, err := New(Config{Assets: &fakeAssets{}, Store: store.NewMemoryStore()})
	if err == nil {
		t.Fatal("New accepted a config with no extraction backend")
	}
	_, err = New(Config{Extractor: extractorFunc(nil), Structurer: notes.NewStructurer(), Store: store.NewMemoryStore()})
	if err == nil {
		t.Fatal("New accepted a config without an asset store")
	}
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
