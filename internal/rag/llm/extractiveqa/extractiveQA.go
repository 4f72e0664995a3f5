// Package extractiveqa calls a remote extractive question-answering service.
// Extractive models return a literal span from the context, which makes this
// the cheapest backend and the one used when no generative model is reachable.
package extractiveqa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/customHttpClient"
	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/internal/rag/llm"
	"github.com/ank-dev/askmydoc/internal/rag/promptbuild"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
)

type extractiveClient struct {
	url    string
	client *http.Client
	logger *logger_i.Logger
}

func NewExtractiveClient(url string) llm.Provider {
	return &extractiveClient{
		url:    url,
		client: customHttpClient.Pooled(),
		logger: logger_i.NewLogger("llm_extractive"),
	}
}

type qaRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

func (c *extractiveClient) Generate(ctx context.Context, question string, contextChunks []docModel.Chunk) (string, error) {
	log := c.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("generate_extractive", time.Since(start)) }()

	body, err := json.Marshal(qaRequest{
		Question: question,
		Context:  promptbuild.JoinChunks(contextChunks),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("extractive QA request failed", "error", err)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return "", &ragerr.BackendError{Kind: ragerr.BackendTimeout, Message: "extractive QA deadline exceeded", Err: err}
		}
		return "", &ragerr.BackendError{Kind: ragerr.BackendUpstream, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ragerr.BackendError{
			Kind:    ragerr.BackendUpstream,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("extractive QA returned status %d", resp.StatusCode),
		}
	}

	var parsed qaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ragerr.BackendError{Kind: ragerr.BackendUpstream, Message: "extractive QA response malformed", Err: err}
	}
	if parsed.Error != "" {
		return "", &ragerr.BackendError{Kind: ragerr.BackendUpstream, Status: resp.StatusCode, Message: parsed.Error}
	}
	return parsed.Answer, nil
}
