package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"screennotes/pkg/domain"
)

func TestParseDraft(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  domain.NoteDraft
	}{
		{
			name:  "bare json",
			reply: `{"title":"Invoice","tags":["finance"],"content":"Total: $120"}`,
			want:  domain.NoteDraft{Title: "Invoice", Tags: []string{"finance"}, Content: "Total: $120"},
		},
		{
			name:  "json fence",
			reply: "```json\n{\"title\":\"Invoice\",\"tags\":[\"finance\"],\"content\":\"Total: $120\"}\n```",
			want:  domain.NoteDraft{Title: "Invoice", Tags: []string{"finance"}, Content: "Total: $120"},
		},
		{
			name:  "plain fence",
			reply: "```\n{\"title\":\"Invoice\",\"tags\":[\"finance\"],\"content\":\"Total: $120\"}\n```",
			want:  domain.NoteDraft{Title: "Invoice", Tags: []string{"finance"}, Content: "Total: $120"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDraft(tc.reply)
			if err != nil {
				t.Fatalf("ParseDraft: %v", err)
			}
			if got.Title != tc.want.Title || got.Content != tc.want.Content {
				t.Fatalf("ParseDraft = %+v, want %+v", got, tc.want)
			}
			if len(got.Tags) != len(tc.want.Tags) || got.Tags[0] != tc.want.Tags[0] {
				t.Fatalf("tags = %v, want %v", got.Tags, tc.want.Tags)
			}
		})
	}
}

func TestParseDraftMalformedJSON(t *testing.T) {
	if _, err := ParseDraft("I could not read the image, sorry"); err == nil {
		t.Fatal("ParseDraft accepted a non-JSON reply")
	}
}

func TestParseDraftTruncatesTags(t *testing.T) {
	got, err := ParseDraft(`{"title":"t","tags":["a","b","c","d","e"],"content":"x"}`)
	if err != nil {
		t.Fatalf("ParseDraft: %v", err)
	}
	if len(got.Tags) != maxTags {
		t.Fatalf("len(tags) = %d, want %d", len(got.Tags), maxTags)
	}
}

func TestStructureImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req visionChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			t.Errorf("unexpected message shape: %+v", req.Messages)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Login page\",\"tags\":[\"auth\"],\"content\":\"Sign in to continue\"}"}}]}`))
	}))
	defer srv.Close()

	s, err := NewVisionStructurer(srv.URL+"/v1", "test-key", "test-model")
	if err != nil {
		t.Fatalf("NewVisionStructurer: %v", err)
	}
	draft, err := s.StructureImage(context.Background(), []byte("img"), domain.MediaImage)
	if err != nil {
		t.Fatalf("StructureImage: %v", err)
	}
	if draft.Title != "Login page" || draft.Content != "Sign in to continue" {
		t.Fatalf("draft = %+v", draft)
	}
}

func TestStructureImageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"image too large","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	s, err := NewVisionStructurer(srv.URL+"/v1", "", "test-model")
	if err != nil {
		t.Fatalf("NewVisionStructurer: %v", err)
	}
	if _, err := s.StructureImage(context.Background(), []byte("img"), domain.MediaImage); err == nil {
		t.Fatal("StructureImage returned nil error")
	}
}

func TestStructureImageEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	s, err := NewVisionStructurer(srv.URL+"/v1", "", "test-model")
	if err != nil {
		t.Fatalf("NewVisionStructurer: %v", err)
	}
	if _, err := s.StructureImage(context.Background(), []byte("img"), domain.MediaImage); err == nil {
		t.Fatal("StructureImage returned nil error for empty choices")
	}
}
