package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"screennotes/pkg/domain"
)

// maxTags is the contract with the model; responses carrying more are
// truncated rather than rejected.
const maxTags = 3

const structuringPrompt = `Analyze this screenshot and return structured information as strict JSON:

{
  "title": "A descriptive title for the content (max 100 chars)",
  "tags": ["tag1", "tag2", "tag3"],
  "content": "All readable text from the image, organized clearly"
}

Guidelines:
- Title should capture the main topic or purpose
- Tags should be relevant keywords (max 3)
- Content must include ALL readable text, preserving structure
- If text is unclear, mark it with [unclear text]

Return only valid JSON.`

// VisionStructurer analyzes an image with a vision-capable OpenAI-compatible
// chat completions endpoint and returns a complete note draft in one call,
// replacing the separate extract and structure stages.
type VisionStructurer struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewVisionStructurer builds a vision structurer. baseURL should include the
// /v1 prefix, e.g. "https://api.openai.com/v1". apiKey can be empty for local
// models that do not require authentication.
func NewVisionStructurer(baseURL, apiKey, model string) (*VisionStructurer, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("vision api base url required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("vision model required")
	}
	return &VisionStructurer{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Provider names the backend for note metadata.
func (s *VisionStructurer) Provider() string { return "ai-vision" }

// StructureImage sends the image inline and parses the returned JSON draft.
// Fenced code blocks around the payload are stripped before parsing; anything
// that still fails to parse is an error, never a silent empty note.
func (s *VisionStructurer) StructureImage(ctx context.Context, data []byte, _ domain.MediaKind) (domain.NoteDraft, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	reqBody := visionChatRequest{
		Model: s.model,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []visionContentPart{
					{Type: "text", Text: structuringPrompt},
					{Type: "image_url", ImageURL: &visionImageURL{URL: dataURL, Detail: "high"}},
				},
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return domain.NoteDraft{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.NoteDraft{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.NoteDraft{}, fmt.Errorf("vision api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp visionErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return domain.NoteDraft{}, fmt.Errorf("vision api error: %s", errResp.Error.Message)
		}
		return domain.NoteDraft{}, fmt.Errorf("vision api error: %s", resp.Status)
	}

	var chatResp visionChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return domain.NoteDraft{}, fmt.Errorf("vision api decode: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return domain.NoteDraft{}, fmt.Errorf("empty response from vision api")
	}
	return ParseDraft(chatResp.Choices[0].Message.Content)
}

// ParseDraft parses a model reply into a note draft, tolerating markdown
// fences around the JSON payload.
func ParseDraft(reply string) (domain.NoteDraft, error) {
	payload := stripFences(strings.TrimSpace(reply))
	var draft domain.NoteDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return domain.NoteDraft{}, fmt.Errorf("parse note draft: %w", err)
	}
	if len(draft.Tags) > maxTags {
		draft.Tags = draft.Tags[:maxTags]
	}
	return draft, nil
}

func stripFences(payload string) string {
	if !strings.HasPrefix(payload, "```") {
		return payload
	}
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSuffix(strings.TrimSpace(payload), "```")
	return strings.TrimSpace(payload)
}

// OpenAI-compatible vision request/response types.

type visionImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type visionContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string              `json:"role"`
	Content []visionContentPart `json:"content"`
}

type visionChatRequest struct {
	Model    string          `json:"model"`
	Messages []visionMessage `json:"messages"`
}

type visionChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type visionErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
