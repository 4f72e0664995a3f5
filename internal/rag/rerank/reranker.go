package rerank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
)

// Scorer rates how relevant each passage is to the query. Higher is better.
// Implementations score all pairs in one call - remote cross-encoders are
// batched for the same throughput reason embeddings are.
type Scorer interface {
	ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error)
}

// Reranker is a pure re-ordering and truncation filter over an already
// retrieved candidate set. It never alters chunk content.
type Reranker struct {
	scorer Scorer
	logger *logger_i.Logger
}

func New(scorer Scorer) *Reranker {
	return &Reranker{
		scorer: scorer,
		logger: logger_i.NewLogger("Reranker"),
	}
}

// Rerank scores every (query, candidate) pair, sorts descending by score and
// returns the first topN. Empty input yields empty output without invoking
// the scorer.
func (r *Reranker) Rerank(ctx context.Context, queryText string, candidates []docModel.Chunk, topN int) ([]docModel.Chunk, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("rerank", time.Since(start)) }()

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Content
	}

	scores, err := r.scorer.ScorePairs(ctx, queryText, passages)
	if err != nil {
		return nil, fmt.Errorf("rerank scoring failed: %w", err)
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("scorer returned %d scores for %d candidates", len(scores), len(candidates))
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if topN > len(order) {
		topN = len(order)
	}
	reranked := make([]docModel.Chunk, 0, topN)
	for _, idx := range order[:topN] {
		reranked = append(reranked, candidates[idx])
	}

	r.logger.Debug("reranked candidates", "in", len(candidates), "out", len(reranked))
	return reranked, nil
}
