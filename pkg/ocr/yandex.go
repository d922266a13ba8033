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

const defaultYandexBaseURL = "https://ocr.api.cloud.yandex.net/ocr/v1"

// YandexClient calls the Yandex Vision OCR recognizeText API.
type YandexClient struct {
	iamToken   string
	folderID   string
	baseURL    string
	httpClient *http.Client
}

// NewYandexClient constructs a client with the provided IAM token and folder ID.
func NewYandexClient(iamToken, folderID string) (*YandexClient, error) {
	iamToken = strings.TrimSpace(iamToken)
	folderID = strings.TrimSpace(folderID)
	if iamToken == "" {
		return nil, fmt.Errorf("yandex iam token required")
	}
	if folderID == "" {
		return nil, fmt.Errorf("yandex folder id required")
	}
	return &YandexClient{
		iamToken:   iamToken,
		folderID:   folderID,
		baseURL:    defaultYandexBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *YandexClient) WithBaseURL(baseURL string) *YandexClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Provider implements Extractor.
func (c *YandexClient) Provider() string { return "yandex-ocr" }

// Extract sends the attachment to recognizeText and returns the recognized text.
// The consolidated fullText field is preferred; block/line texts are joined in
// page order only when fullText is absent.
func (c *YandexClient) Extract(ctx context.Context, data []byte, kind domain.MediaKind) (string, error) {
	reqBody := yandexRequest{
		MimeType:      yandexMimeType(kind),
		LanguageCodes: []string{"*"},
		Model:         "page",
		Content:       base64.StdEncoding.EncodeToString(data),
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", newError(KindUnknown, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recognizeText", bytes.NewReader(body))
	if err != nil {
		return "", newError(KindUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.iamToken)
	req.Header.Set("x-folder-id", c.folderID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(KindNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", newError(KindAuthExpired, fmt.Errorf("iam token rejected"))
	case resp.StatusCode == http.StatusForbidden:
		return "", newError(KindAccessDenied, fmt.Errorf("folder access denied"))
	case resp.StatusCode >= 400:
		return "", newError(KindUnknown, fmt.Errorf("ocr api error: %s", resp.Status))
	}

	var out yandexResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", newError(KindInvalidResponse, err)
	}

	ann := out.Result.TextAnnotation
	if full := strings.TrimSpace(ann.FullText); full != "" {
		return full, nil
	}
	var lines []string
	for _, block := range ann.Blocks {
		for _, line := range block.Lines {
			if line.Text != "" {
				lines = append(lines, line.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func yandexMimeType(kind domain.MediaKind) string {
	if kind == domain.MediaPDF {
		return "PDF"
	}
	return "JPEG"
}

type yandexRequest struct {
	MimeType      string   `json:"mimeType"`
	LanguageCodes []string `json:"languageCodes"`
	Model         string   `json:"model"`
	Content       string   `json:"content"`
}

type yandexResponse struct {
	Result struct {
		TextAnnotation struct {
			FullText string `json:"fullText"`
			Blocks   []struct {
				Lines []struct {
					Text string `json:"text"`
				} `json:"lines"`
			} `json:"blocks"`
		} `json:"textAnnotation"`
	} `json:"result"`
}
