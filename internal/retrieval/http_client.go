package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/leadline-ai/leadline/pkg/logging"
)

// HTTPClient queries a remote retrieval service.
type HTTPClient struct {
	baseURL   string
	threshold float64
	client    *http.Client
	logger    *logging.Logger
}

// NewHTTPClient builds a client for the retrieval service at baseURL. A zero
// timeout falls back to 5 seconds; a non-positive threshold to 0.7.
func NewHTTPClient(baseURL string, threshold float64, timeout time.Duration, logger *logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if threshold <= 0 {
		threshold = 0.7
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPClient{
		baseURL:   baseURL,
		threshold: threshold,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type retrieveResponse struct {
	Passages []Passage `json:"passages"`
}

// Retrieve calls GET /v1/merchants/{id}/passages and filters by the
// configured relevance threshold.
func (c *HTTPClient) Retrieve(ctx context.Context, merchantID, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = 3
	}

	endpoint := fmt.Sprintf("%s/v1/merchants/%s/passages?q=%s&top_k=%s",
		c.baseURL,
		url.PathEscape(merchantID),
		url.QueryEscape(query),
		strconv.Itoa(topK),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieval: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval: service returned status %d", resp.StatusCode)
	}

	var decoded retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("retrieval: decode response: %w", err)
	}

	var out []Passage
	for _, p := range decoded.Passages {
		if p.Score < c.threshold {
			continue
		}
		out = append(out, p)
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

var _ Retriever = (*HTTPClient)(nil)
