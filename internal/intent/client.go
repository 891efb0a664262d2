package intent

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

// HTTPClient calls the intent classification service. It implements
// ClassifierClient.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient. A zero timeout defaults to 10
// seconds.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	LabelIndex int     `json:"label_index"`
	Confidence float64 `json:"confidence"`
}

// Classify posts the text to /classify and returns the raw prediction.
func (c *HTTPClient) Classify(ctx context.Context, text string) (int, float64, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return 0, 0, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return 0, 0, fmt.Errorf("intent service status %d: %s", res.StatusCode, strings.TrimSpace(string(buf)))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return 0, 0, fmt.Errorf("read response body: %w", err)
	}

	var payload classifyResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, 0, fmt.Errorf("decode classify response: %w", err)
	}
	return payload.LabelIndex, payload.Confidence, nil
}
