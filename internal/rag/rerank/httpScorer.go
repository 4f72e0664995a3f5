package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ank-dev/askmydoc/internal/customHttpClient"
)

// HTTPScorer calls a remote cross-encoder service: one POST with the query
// and all passages, one score per passage back.
type HTTPScorer struct {
	url    string
	client *http.Client
}

func NewHTTPScorer(url string) *HTTPScorer {
	return &HTTPScorer{
		url:    url,
		client: customHttpClient.Pooled(),
	}
}

type scoreRequest struct {
	Query    string   `json:"query"`
	Passages []string `json:"passages"`
}

type scoreResponse struct {
	Scores []float64 `json:"scores"`
	Error  string    `json:"error,omitempty"`
}

func (s *HTTPScorer) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	body, err := json.Marshal(scoreRequest{Query: query, Passages: passages})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reranker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reranker returned status %d", resp.StatusCode)
	}

	var parsed scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("reranker response malformed: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("reranker error: %s", parsed.Error)
	}
	return parsed.Scores, nil
}
