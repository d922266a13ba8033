package domain

import (
	"sort"
	"strings"
	"time"
)

// MediaKind identifies the declared type of an inbound attachment.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaPDF   MediaKind = "pdf"
)

// Language is a user's preferred interface language.
type Language string

const (
	LangRU Language = "ru"
	LangKZ Language = "kz"
	LangEN Language = "en"
)

// DefaultLanguage is used when a user has never picked a language.
const DefaultLanguage = LangRU

// ValidLanguage reports whether l is one of the supported languages.
func ValidLanguage(l Language) bool {
	switch l {
	case LangRU, LangKZ, LangEN:
		return true
	}
	return false
}

// Attachment is one inbound image or document. It lives only for the
// duration of a single pipeline run and is owned by that run.
type Attachment struct {
	Data       []byte
	Kind       MediaKind
	OwnerID    string
	ReceivedAt time.Time
}

// NoteDraft is a structured note candidate before persistence.
type NoteDraft struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
}

// Note is a persisted note record.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Content   string    `json:"content"`
	AssetURL  string    `json:"assetUrl,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeTags lowercases, trims, deduplicates, and sorts a tag set,
// dropping empty entries. Safe to call repeatedly.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		seen[tag] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// UserSetting holds per-user preferences.
type UserSetting struct {
	OwnerID   string    `json:"ownerId"`
	Language  Language  `json:"language"`
	UpdatedAt time.Time `json:"updatedAt"`
}
