package sentiment

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

// InferenceClient calls a hosted sentiment-analysis endpoint that follows
// the common inference-API shape: POST {"inputs": text} returning scored
// label candidates. It implements ModelClient.
type InferenceClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewInferenceClient creates an InferenceClient. A zero timeout defaults
// to 10 seconds.
func NewInferenceClient(baseURL, apiKey string, timeout time.Duration) *InferenceClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &InferenceClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type scoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the raw top-scoring label for the text.
func (c *InferenceClient) Classify(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("sentiment service status %d: %s", res.StatusCode, strings.TrimSpace(string(buf)))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	// The API nests candidates one level deep per input.
	var nested [][]scoredLabel
	if err := json.Unmarshal(raw, &nested); err != nil {
		var flat []scoredLabel
		if err := json.Unmarshal(raw, &flat); err != nil {
			return "", fmt.Errorf("decode sentiment response: %w", err)
		}
		nested = [][]scoredLabel{flat}
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return "", nil
	}

	best := nested[0][0]
	for _, cand := range nested[0][1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}
	return best.Label, nil
}
