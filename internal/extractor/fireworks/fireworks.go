// Package fireworks implements port.DocumentExtractor against the Fireworks
// AI chat-completions API.
package fireworks

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thehamzam/kyc-idp/internal/config"
	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/extractor"
	"github.com/thehamzam/kyc-idp/internal/port"
)

const apiURL = "https://api.fireworks.ai/inference/v1/chat/completions"

// Extractor calls the Fireworks chat-completions API with a document image
// and recovers the structured field set from the completion text.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a Fireworks-backed document extractor.
func New(cfg *config.ExtractorConfig) *Extractor {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	model := cfg.Model
	if model == "" {
		model = "accounts/fireworks/models/llama4-scout-instruct-basic"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewWithEndpoint(cfg *config.ExtractorConfig, endpoint string) *Extractor {
	e := New(cfg)
	e.endpoint = endpoint
	return e
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.ExtractionResult, error) {
	if e.apiKey == "" {
		return nil, extractor.ErrMissingAPIKey
	}

	prompt := buildPrompt(input.DocumentHint)
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		input.ContentType, base64.StdEncoding.EncodeToString(input.ImageBytes))

	reqBody := map[string]interface{}{
		"model":       e.model,
		"max_tokens":  1024,
		"temperature": 0.1,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]interface{}{"url": dataURL}},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extractor.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to parsing
	case resp.StatusCode == http.StatusTooManyRequests:
		baseErr := fmt.Errorf("fireworks API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
		retryAfter := extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, extractor.NewRateLimitError("fireworks", baseErr, retryAfter)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: fireworks API status %d: %s",
			extractor.ErrInvalidImage, resp.StatusCode, truncate(string(respBody), 200))
	default:
		return nil, fmt.Errorf("%w: fireworks API status %d: %s",
			extractor.ErrServiceUnavailable, resp.StatusCode, truncate(string(respBody), 200))
	}

	return parseResponse(respBody)
}

// Healthy reports whether the gateway is configured to reach the API.
func (e *Extractor) Healthy() (bool, string) {
	if e.apiKey == "" {
		return false, "extraction API key not set"
	}
	if len(e.apiKey) < 10 {
		return false, "extraction API key appears invalid"
	}
	return true, "OK"
}

// apiResponse models the chat-completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func parseResponse(body []byte) (*domain.ExtractionResult, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, extractor.ErrNoData
	}
	// Unreadable completion text yields an empty result, not an error: a
	// document the model could not read is a valid "no data found" outcome.
	return domain.ParseExtractionText(resp.Choices[0].Message.Content), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
