package ocr

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

const defaultVisionBaseURL = "https://vision.googleapis.com/v1"

// VisionClient calls the Cloud Vision images:annotate API with TEXT_DETECTION.
type VisionClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewVisionClient constructs a client with the provided API key.
func NewVisionClient(apiKey string) (*VisionClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("vision api key required")
	}
	return &VisionClient{
		apiKey:     apiKey,
		baseURL:    defaultVisionBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *VisionClient) WithBaseURL(baseURL string) *VisionClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Provider implements Extractor.
func (c *VisionClient) Provider() string { return "cloud-vision" }

// Extract runs text detection. The consolidated fullTextAnnotation text is
// preferred; the first textAnnotations entry (which aggregates the whole page)
// is the fallback.
func (c *VisionClient) Extract(ctx context.Context, data []byte, _ domain.MediaKind) (string, error) {
	reqBody := visionRequest{
		Requests: []visionAnnotateRequest{
			{
				Image:    visionImage{Content: base64.StdEncoding.EncodeToString(data)},
				Features: []visionFeature{{Type: "TEXT_DETECTION"}},
			},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", newError(KindUnknown, err)
	}
	url := fmt.Sprintf("%s/images:annotate?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", newError(KindUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(KindNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", newError(KindAuthExpired, fmt.Errorf("api key rejected"))
	case resp.StatusCode == http.StatusForbidden:
		return "", newError(KindAccessDenied, fmt.Errorf("api key lacks access"))
	case resp.StatusCode >= 400:
		return "", newError(KindUnknown, fmt.Errorf("vision api error: %s", resp.Status))
	}

	var out visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", newError(KindInvalidResponse, err)
	}
	if len(out.Responses) == 0 {
		return "", newError(KindInvalidResponse, fmt.Errorf("empty annotate response"))
	}
	first := out.Responses[0]
	if first.Error.Message != "" {
		return "", newError(KindUnknown, fmt.Errorf("vision api error: %s", first.Error.Message))
	}
	if full := strings.TrimSpace(first.FullTextAnnotation.Text); full != "" {
		return full, nil
	}
	if len(first.TextAnnotations) > 0 {
		return strings.TrimSpace(first.TextAnnotations[0].Description), nil
	}
	return "", nil
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}
