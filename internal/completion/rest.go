package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultRESTEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// RESTProvider calls the generativelanguage REST API directly. It serves as
// the secondary provider so a failure in the SDK path does not take the
// whole gateway down with it.
type RESTProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewRESTProvider creates the REST-backed provider for one model.
func NewRESTProvider(apiKey, model string) *RESTProvider {
	return &RESTProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultRESTEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *RESTProvider) Name() string {
	return "gemini-rest/" + p.model
}

type restRequestPart struct {
	Text string `json:"text"`
}

type restRequestContent struct {
	Parts []restRequestPart `json:"parts"`
	Role  string            `json:"role,omitempty"`
}

type restGenerationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type restRequest struct {
	Contents         []restRequestContent  `json:"contents"`
	GenerationConfig *restGenerationConfig `json:"generationConfig,omitempty"`
}

type restResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *RESTProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload := restRequest{
		Contents: []restRequestContent{
			{Parts: []restRequestPart{{Text: prompt}}, Role: "user"},
		},
		GenerationConfig: &restGenerationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("completion: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.endpoint, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("completion: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion: API status %s: %s", resp.Status, string(raw))
	}

	var parsed restResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("completion: decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

var _ Provider = (*RESTProvider)(nil)
