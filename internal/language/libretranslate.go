package language

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

// Client talks to a LibreTranslate-compatible HTTP service. It implements
// both Detector and Translator.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the given base URL. A zero timeout
// defaults to 10 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type detectRequest struct {
	Query  string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type detectCandidate struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Detect returns the most confident language code for the text, or empty
// when the service reports no candidates.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	raw, err := c.postJSON(ctx, "/detect", detectRequest{Query: text, APIKey: c.apiKey})
	if err != nil {
		return "", err
	}

	var candidates []detectCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return "", fmt.Errorf("decode detect response: %w", err)
	}
	if len(candidates) == 0 {
		return "", nil
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Confidence > best.Confidence {
			best = cand
		}
	}
	return best.Language, nil
}

// Translate converts text from one language code to another.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	raw, err := c.postJSON(ctx, "/translate", translateRequest{
		Query:  text,
		Source: from,
		Target: to,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", err
	}

	var payload translateResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	return payload.TranslatedText, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("translate service status %d from %s: %s", res.StatusCode, url, strings.TrimSpace(string(buf)))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return raw, nil
}
