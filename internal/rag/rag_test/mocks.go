package rag_test

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
)

const mockDim = 16

// embedText hashes tokens into a small normalized vector so texts sharing
// words land close together - enough signal for retrieval assertions.
func embedText(text string) []float32 {
	vec := make([]float32, mockDim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%mockDim]++
	}
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(float64(norm)))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return embedText(query), nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHuge)
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = embedText(c)
	}
	return out, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate    func(ctx context.Context, question string, contextChunks []docModel.Chunk) (string, error)
	LastQuestion  string
	LastChunks    []docModel.Chunk
	GenerateCalls int
}

func (m *MockLLM) Generate(ctx context.Context, question string, contextChunks []docModel.Chunk) (string, error) {
	m.GenerateCalls++
	m.LastQuestion = question
	m.LastChunks = contextChunks
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, contextChunks)
	}
	return "mocked llm response", nil
}

// MockCache implements cache.AnswerCache
type MockCache struct {
	OnGetCachedAnswer func(ctx context.Context, queryVector []float32) (string, bool, error)
	OnSaveToCache     func(ctx context.Context, id string, vector []float32, answer string) error
}

func (m *MockCache) GetCachedAnswer(ctx context.Context, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v)
	}
	return "", false, nil
}

func (m *MockCache) SaveToCache(ctx context.Context, id string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, v, a)
	}
	return nil
}

// MockScorer implements rerank.Scorer
type MockScorer struct {
	OnScorePairs func(ctx context.Context, query string, passages []string) ([]float64, error)
}

func (m *MockScorer) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	if m.OnScorePairs != nil {
		return m.OnScorePairs(ctx, query, passages)
	}
	scores := make([]float64, len(passages))
	return scores, nil
}

type MockFileRecorder struct {
	Saved map[string]string
}

func (m *MockFileRecorder) SaveFile(ctx context.Context, fileID string, fileName string) error {
	if m.Saved == nil {
		m.Saved = map[string]string{}
	}
	m.Saved[fileID] = fileName
	return nil
}
