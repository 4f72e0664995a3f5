package rag

import (
	"context"
	"time"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
)

// executeCacheEmbedStep embeds the query once for the semantic cache. A
// failure here only costs us the cache, never the request.
func (s *service) executeCacheEmbedStep(ctx context.Context, log *logger_i.Logger, queryText string) []float32 {
	if s.answerCache == nil {
		return nil
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_embedding", time.Since(start)) }()

	vector, err := s.embedder.GetEmbedding(ctx, queryText)
	if err != nil {
		log.Error("cache embedding failed, skipping cache", "error", err)
		return nil
	}
	return vector
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, queryVector []float32) (string, bool) {
	if s.answerCache == nil || queryVector == nil {
		return "", false
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found, err := s.answerCache.GetCachedAnswer(ctx, queryVector)
	if err != nil {
		log.Error("cache lookup failed, continuing without it", "error", err)
		return "", false
	}
	return answer, found
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, query Query) ([]docModel.Match, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	matches, err := s.retrievers.RetrieveMulti(ctx, query.Text, query.FileIDs, query.TopK)
	if err != nil {
		log.Error("retrieval failed", "error", err)
		return nil, err
	}
	log.Debug("retrieval done", "matches", len(matches))
	return matches, nil
}

func (s *service) executeRerankStep(ctx context.Context, log *logger_i.Logger, queryText string, candidates []docModel.Chunk) ([]docModel.Chunk, error) {
	if s.reranker == nil {
		return candidates, nil
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("rerank", time.Since(start)) }()

	reranked, err := s.reranker.Rerank(ctx, queryText, candidates, s.rerankTopN)
	if err != nil {
		log.Error("rerank failed", "error", err)
		return nil, err
	}
	return reranked, nil
}

func (s *service) executeGenerateStep(ctx context.Context, log *logger_i.Logger, queryText string, included []docModel.Chunk) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("generation", time.Since(start)) }()

	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	answer, err := s.backend.Generate(genCtx, queryText, included)
	if err != nil {
		log.Error("generation failed", "error", err)
		return "", err
	}
	return answer, nil
}
