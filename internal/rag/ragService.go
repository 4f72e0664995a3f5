package rag

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ank-dev/askmydoc/internal/adapter/utils"
	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/domain/jobModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/internal/rag/cache"
	"github.com/ank-dev/askmydoc/internal/rag/embedding"
	"github.com/ank-dev/askmydoc/internal/rag/ingest"
	"github.com/ank-dev/askmydoc/internal/rag/llm"
	"github.com/ank-dev/askmydoc/internal/rag/promptbuild"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
	"github.com/ank-dev/askmydoc/internal/rag/rerank"
	"github.com/ank-dev/askmydoc/internal/rag/retriever"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
)

// Query is a validated-on-entry answer request. FileIDs names the documents
// to search; every one of them must have been ingested.
type Query struct {
	Text    string
	FileIDs []string
	TopK    int
}

// Service is the only thing the handlers and the worker call - they never
// touch the retrievers, backends or cache directly, which keeps them
// swappable in tests.
type Service interface {
	Answer(ctx context.Context, query Query) (docModel.AnswerResult, error)
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	retrievers      *retriever.Factory
	backend         llm.Provider
	embedder        embedding.Embedder
	reranker        *rerank.Reranker //nil disables reranking
	rerankTopN      int
	answerCache     cache.AnswerCache //nil disables the semantic cache
	maxContextTok   int
	fileRecorder    ingest.FileRecorder
	generateTimeout time.Duration
	logger          *logger_i.Logger
}

type Options struct {
	Retrievers      *retriever.Factory
	Backend         llm.Provider
	Embedder        embedding.Embedder
	Reranker        *rerank.Reranker
	RerankTopN      int
	AnswerCache     cache.AnswerCache
	MaxContextTok   int
	FileRecorder    ingest.FileRecorder
	GenerateTimeout time.Duration
}

func NewService(opts Options) Service {
	if opts.MaxContextTok <= 0 {
		opts.MaxContextTok = config.DefaultMaxContextTokens
	}
	if opts.RerankTopN <= 0 {
		opts.RerankTopN = config.DefaultRerankTopN
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = config.GenerateTimeout
	}
	return &service{
		retrievers:      opts.Retrievers,
		backend:         opts.Backend,
		embedder:        opts.Embedder,
		reranker:        opts.Reranker,
		rerankTopN:      opts.RerankTopN,
		answerCache:     opts.AnswerCache,
		maxContextTok:   opts.MaxContextTok,
		fileRecorder:    opts.FileRecorder,
		generateTimeout: opts.GenerateTimeout,
		logger:          logger_i.NewLogger("rag_service"),
	}
}

// Answer runs the full question pipeline: retrieve from every requested
// document, optionally rerank, fit the context under the token budget and
// generate. The returned result always echoes the context the answer was
// grounded on.
func (s *service) Answer(ctx context.Context, query Query) (docModel.AnswerResult, error) {
	log := s.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	query, err := s.validate(query)
	if err != nil {
		return docModel.AnswerResult{}, err
	}

	// Cache check
	queryVector := s.executeCacheEmbedStep(ctx, log, query.Text)
	if answer, found := s.executeCacheCheckStep(ctx, log, queryVector); found {
		return docModel.AnswerResult{Query: query.Text, Answer: answer}, nil
	}

	// Retrieval
	matches, err := s.executeRetrievalStep(ctx, log, query)
	if err != nil {
		return docModel.AnswerResult{}, err
	}
	candidates := docModel.Chunks(matches)

	// Rerank
	candidates, err = s.executeRerankStep(ctx, log, query.Text, candidates)
	if err != nil {
		return docModel.AnswerResult{}, err
	}

	// Context assembly
	included := promptbuild.FitChunks(candidates, query.Text, s.maxContextTok)

	// Generation
	answer, err := s.executeGenerateStep(ctx, log, query.Text, included)
	if err != nil {
		return docModel.AnswerResult{}, err
	}

	if s.answerCache != nil && queryVector != nil {
		go func() {
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.answerCache.SaveToCache(saveCtx, utils.GetNewUUID(), queryVector, answer); err != nil {
				s.logger.Error("Failed to save answer to cache", "error", err)
			}
		}()
	}

	return docModel.AnswerResult{
		Query:   query.Text,
		Context: included,
		Answer:  answer,
	}, nil
}

func (s *service) validate(query Query) (Query, error) {
	query.Text = strings.TrimSpace(query.Text)
	if query.Text == "" {
		return query, ragerr.ErrInvalidInput
	}
	if len(query.FileIDs) == 0 {
		return query, ragerr.ErrInvalidInput
	}
	for _, id := range query.FileIDs {
		if strings.TrimSpace(id) == "" {
			return query, ragerr.ErrInvalidInput
		}
	}
	if query.TopK == 0 {
		query.TopK = config.DefaultTopK
	}
	if query.TopK < 1 || query.TopK > config.MaxTopK {
		return query, ragerr.ErrInvalidInput
	}
	return query, nil
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	j := ingest.ProcessDocumentIngestion(ctx, job, s.embedder, s.fileRecorder)
	if j.Status != jobModel.JobStatusComplete {
		s.logger.Error("INGESTION_FAILURE", "error", errors.New(j.Error.Message), "jobId", j.Id)
	}
	return j
}
