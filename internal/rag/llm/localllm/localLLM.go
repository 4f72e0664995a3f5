// Package localllm drives any OpenAI-compatible completion server, such as
// llama.cpp or Ollama, running on the local network. Small local models are
// noisier than hosted ones, so this backend is the only one that runs the
// answer cleanup pass.
package localllm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/internal/rag/llm"
	"github.com/ank-dev/askmydoc/internal/rag/promptbuild"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type localClient struct {
	client  openai.Client
	model   string
	cleanup promptbuild.CleanupOptions
	logger  *logger_i.Logger
}

// NewLocalClient talks to baseURL with the OpenAI chat-completions protocol.
// Local servers ignore the API key but the client library requires one.
func NewLocalClient(baseURL string, model string, cleanup promptbuild.CleanupOptions) llm.Provider {
	return &localClient{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey("local"),
		),
		model:   model,
		cleanup: cleanup,
		logger:  logger_i.NewLogger("llm_local"),
	}
}

func (c *localClient) Generate(ctx context.Context, question string, contextChunks []docModel.Chunk) (string, error) {
	log := c.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("generate_local", time.Since(start)) }()

	prompt := promptbuild.Render(promptbuild.JoinChunks(contextChunks), question)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.ModelContext),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		log.Error("local model call failed", "error", err)
		return "", classify(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", &ragerr.BackendError{Kind: ragerr.BackendUpstream, Message: "local model returned no choices"}
	}

	return promptbuild.CleanAnswer(resp.Choices[0].Message.Content, c.cleanup), nil
}

func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return &ragerr.BackendError{Kind: ragerr.BackendTimeout, Message: "generation deadline exceeded", Err: err}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ragerr.BackendError{
			Kind:    ragerr.BackendUpstream,
			Status:  apiErr.StatusCode,
			Message: apiErr.Message,
			Err:     err,
		}
	}
	return &ragerr.BackendError{Kind: ragerr.BackendUpstream, Status: http.StatusBadGateway, Message: err.Error(), Err: err}
}
