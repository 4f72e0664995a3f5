package gemini

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/internal/rag/llm"
	"github.com/ank-dev/askmydoc/internal/rag/promptbuild"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Debug("Gemini " + modelName + " client created")
		logger.Info("Gemini client created")
		go closeClient(ctx, geminiClient)
	}
}

func (c *llmClient) Generate(ctx context.Context, question string, contextChunks []docModel.Chunk) (string, error) {
	log := logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("generate_gemini", time.Since(start)) }()

	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: config.ModelContext},
		},
	}
	userPrompt := promptbuild.Render(promptbuild.JoinChunks(contextChunks), question)

	temperature := config.ModelTemperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temperature,
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", classify(ctx, err)
	}
	return result.Text(), nil
}

// classify maps a genai failure onto the backend error taxonomy. A blown
// deadline is the caller's budget, everything else is the upstream's fault.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &ragerr.BackendError{Kind: ragerr.BackendTimeout, Message: "generation deadline exceeded", Err: err}
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.DeadlineExceeded {
		return &ragerr.BackendError{Kind: ragerr.BackendTimeout, Message: s.Message(), Err: err}
	}
	return &ragerr.BackendError{Kind: ragerr.BackendUpstream, Status: http.StatusBadGateway, Message: err.Error(), Err: err}
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
