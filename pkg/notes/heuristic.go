// Package notes derives a structured note from extracted text using
// deterministic heuristics. No external calls are made here.
package notes

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"screennotes/pkg/domain"
)

// DefaultTitle is used when the source text yields no usable first sentence.
const DefaultTitle = "Untitled Screenshot"

// TitleMaxLen bounds generated titles in runes, truncation marker included.
const TitleMaxLen = 50

const truncationMarker = "..."

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	hashtagRe       = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
)

// tagRule maps a category tag to keywords matched as case-insensitive substrings.
type tagRule struct {
	tag      string
	keywords []string
}

// Rules are ordered so tag derivation is reproducible across runs.
var tagRules = []tagRule{
	{"email", []string{"email", "@", "mail", "inbox"}},
	{"auth", []string{"password", "login", "auth", "signin", "signup"}},
	{"code", []string{"code", "programming", "function", "class", "def ", "var ", "const ", "{", "}"}},
	{"meeting", []string{"meeting", "call", "zoom", "teams", "conference"}},
	{"todo", []string{"todo", "task", "deadline", "☐", "□", "checklist"}},
	{"finance", []string{"invoice", "payment", "bill", "$", "€", "₽", "price", "cost"}},
	{"error", []string{"error", "exception", "bug", "failed", "warning"}},
	{"document", []string{"document", "report", "pdf", "doc", "file"}},
	{"web", []string{"http", "www", "url", "website", "browser"}},
	{"mobile", []string{"phone", "mobile", "app", "android", "ios"}},
	{"social", []string{"facebook", "twitter", "instagram", "telegram", "whatsapp"}},
	{"date", []string{"today", "tomorrow", "yesterday", "2024", "2025", "january", "february"}},
}

// GenerateTitle builds a short title from the first sentence of content.
// The result is never empty and never longer than TitleMaxLen.
func GenerateTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultTitle
	}
	first := sentenceSplitRe.Split(content, 2)[0]
	title := strings.TrimSpace(whitespaceRe.ReplaceAllString(first, " "))
	if title == "" {
		return DefaultTitle
	}
	if runes := []rune(title); len(runes) > TitleMaxLen {
		title = string(runes[:TitleMaxLen-len(truncationMarker)]) + truncationMarker
	}
	return title
}

// ExtractTags derives a deduplicated, lowercase tag set from content:
// keyword-rule categories plus any #hashtag tokens. Output order is sorted
// so repeated runs over identical text are byte-identical.
func ExtractTags(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	seen := make(map[string]struct{})
	lower := strings.ToLower(content)
	for _, rule := range tagRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				seen[rule.tag] = struct{}{}
				break
			}
		}
	}
	for _, hashtag := range hashtagRe.FindAllString(content, -1) {
		tag := strings.ToLower(strings.TrimPrefix(hashtag, "#"))
		if tag != "" {
			seen[tag] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Structurer is the heuristic note-structuring strategy.
type Structurer struct{}

// NewStructurer returns the keyword-heuristic structurer.
func NewStructurer() *Structurer { return &Structurer{} }

// Structure builds a note draft from extracted text.
func (s *Structurer) Structure(_ context.Context, text string) (domain.NoteDraft, error) {
	return domain.NoteDraft{
		Title:   GenerateTitle(text),
		Tags:    ExtractTags(text),
		Content: text,
	}, nil
}
