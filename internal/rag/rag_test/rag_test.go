package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/domain/jobModel"
	"github.com/ank-dev/askmydoc/internal/rag"
	"github.com/ank-dev/askmydoc/internal/rag/index"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
	"github.com/ank-dev/askmydoc/internal/rag/rerank"
	"github.com/ank-dev/askmydoc/internal/rag/retriever"
)

func buildTestIndex(t *testing.T, dir string, fileID string, contents []string) {
	t.Helper()
	chunks := make([]docModel.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = docModel.Chunk{
			Content:    c,
			FileID:     fileID,
			FileName:   fileID + ".txt",
			PageNumber: 1,
		}
	}
	indexPath := filepath.Join(dir, fileID+".index")
	metadataPath := filepath.Join(dir, fileID+".meta")
	if err := index.Build(context.Background(), chunks, &MockEmbedder{}, indexPath, metadataPath); err != nil {
		t.Fatalf("Build(%s) failed: %v", fileID, err)
	}
}

func TestAnswer_Scenarios(t *testing.T) {
	dir := t.TempDir()
	buildTestIndex(t, dir, "contract", []string{
		"the notice period is thirty days",
		"payment is due within fourteen days of invoice",
	})
	buildTestIndex(t, dir, "handbook", []string{
		"employees accrue two vacation days per month",
	})

	tests := []struct {
		name           string
		query          rag.Query
		setupMocks     func(l *MockLLM, c *MockCache)
		expectedAnswer string
		expectedErr    error
		wantBackendErr bool
		wantContext    bool
		wantGenerated  bool
	}{
		{
			name:           "Success_Full_Flow",
			query:          rag.Query{Text: "what is the notice period", FileIDs: []string{"contract"}},
			setupMocks:     func(l *MockLLM, c *MockCache) {},
			expectedAnswer: "mocked llm response",
			wantContext:    true,
			wantGenerated:  true,
		},
		{
			name:  "Success_Multiple_Documents",
			query: rag.Query{Text: "notice period and vacation days", FileIDs: []string{"contract", "handbook"}, TopK: 1},
			setupMocks: func(l *MockLLM, c *MockCache) {
				l.OnGenerate = func(ctx context.Context, q string, chunks []docModel.Chunk) (string, error) {
					seen := map[string]bool{}
					for _, ch := range chunks {
						seen[ch.FileID] = true
					}
					if !seen["contract"] || !seen["handbook"] {
						return "", errors.New("expected a chunk from every requested document")
					}
					return "both documents consulted", nil
				}
			},
			expectedAnswer: "both documents consulted",
			wantContext:    true,
			wantGenerated:  true,
		},
		{
			name:  "Success_Cache_Hit",
			query: rag.Query{Text: "what is the notice period", FileIDs: []string{"contract"}},
			setupMocks: func(l *MockLLM, c *MockCache) {
				c.OnGetCachedAnswer = func(ctx context.Context, v []float32) (string, bool, error) {
					return "cached answer", true, nil
				}
			},
			expectedAnswer: "cached answer",
		},
		{
			name:  "Cache_Error_Falls_Through",
			query: rag.Query{Text: "what is the notice period", FileIDs: []string{"contract"}},
			setupMocks: func(l *MockLLM, c *MockCache) {
				c.OnGetCachedAnswer = func(ctx context.Context, v []float32) (string, bool, error) {
					return "", false, errors.New("cache backend down")
				}
			},
			expectedAnswer: "mocked llm response",
			wantContext:    true,
			wantGenerated:  true,
		},
		{
			name:        "Failure_Empty_Query",
			query:       rag.Query{Text: "   ", FileIDs: []string{"contract"}},
			setupMocks:  func(l *MockLLM, c *MockCache) {},
			expectedErr: ragerr.ErrInvalidInput,
		},
		{
			name:        "Failure_No_Documents",
			query:       rag.Query{Text: "what is the notice period"},
			setupMocks:  func(l *MockLLM, c *MockCache) {},
			expectedErr: ragerr.ErrInvalidInput,
		},
		{
			name:        "Failure_Blank_Document_Id",
			query:       rag.Query{Text: "what is the notice period", FileIDs: []string{"contract", " "}},
			setupMocks:  func(l *MockLLM, c *MockCache) {},
			expectedErr: ragerr.ErrInvalidInput,
		},
		{
			name:        "Failure_TopK_Too_Large",
			query:       rag.Query{Text: "what is the notice period", FileIDs: []string{"contract"}, TopK: config.MaxTopK + 1},
			setupMocks:  func(l *MockLLM, c *MockCache) {},
			expectedErr: ragerr.ErrInvalidInput,
		},
		{
			name:        "Failure_Unknown_Document",
			query:       rag.Query{Text: "what is the notice period", FileIDs: []string{"ghost"}},
			setupMocks:  func(l *MockLLM, c *MockCache) {},
			expectedErr: ragerr.ErrNotFound,
		},
		{
			name:  "Failure_Backend",
			query: rag.Query{Text: "what is the notice period", FileIDs: []string{"contract"}},
			setupMocks: func(l *MockLLM, c *MockCache) {
				l.OnGenerate = func(ctx context.Context, q string, chunks []docModel.Chunk) (string, error) {
					return "", &ragerr.BackendError{Kind: ragerr.BackendUpstream, Status: 502, Message: "provider down"}
				}
			},
			wantBackendErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mLLM := &MockLLM{}
			mCache := &MockCache{}
			tt.setupMocks(mLLM, mCache)

			s := rag.NewService(rag.Options{
				Retrievers:  retriever.NewFactory(dir, &MockEmbedder{}, 0),
				Backend:     mLLM,
				Embedder:    &MockEmbedder{},
				AnswerCache: mCache,
			})

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			result, err := s.Answer(ctx, tt.query)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("error got %v, want %v", err, tt.expectedErr)
				}
				return
			}
			if tt.wantBackendErr {
				if _, ok := ragerr.AsBackendError(err); !ok {
					t.Fatalf("error got %v, want a BackendError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Answer failed: %v", err)
			}

			if result.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", result.Answer, tt.expectedAnswer)
			}
			if tt.wantContext && len(result.Context) == 0 {
				t.Errorf("expected supporting context, got none")
			}
			if !tt.wantContext && len(result.Context) != 0 {
				t.Errorf("expected no context, got %d chunks", len(result.Context))
			}
			if tt.wantGenerated != (mLLM.GenerateCalls > 0) {
				t.Errorf("generate calls got %d, wantGenerated=%v", mLLM.GenerateCalls, tt.wantGenerated)
			}
		})
	}
}

func TestAnswer_RerankNarrowsContext(t *testing.T) {
	dir := t.TempDir()
	buildTestIndex(t, dir, "doc", []string{
		"alpha section about deadlines",
		"beta section about payments",
		"gamma section about termination",
	})

	// the scorer prefers whichever passage mentions payments
	scorer := &MockScorer{
		OnScorePairs: func(ctx context.Context, query string, passages []string) ([]float64, error) {
			scores := make([]float64, len(passages))
			for i, p := range passages {
				if len(p) > 0 && p[0] == 'b' {
					scores[i] = 1
				}
			}
			return scores, nil
		},
	}

	mLLM := &MockLLM{}
	s := rag.NewService(rag.Options{
		Retrievers: retriever.NewFactory(dir, &MockEmbedder{}, 0),
		Backend:    mLLM,
		Embedder:   &MockEmbedder{},
		Reranker:   rerank.New(scorer),
		RerankTopN: 1,
	})

	result, err := s.Answer(context.Background(), rag.Query{
		Text:    "when are payments due",
		FileIDs: []string{"doc"},
		TopK:    3,
	})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if len(result.Context) != 1 {
		t.Fatalf("context size got %d, want 1", len(result.Context))
	}
	if result.Context[0].Content != "beta section about payments" {
		t.Errorf("context got %q, want the payments section", result.Context[0].Content)
	}
	if len(mLLM.LastChunks) != 1 || mLLM.LastChunks[0].Content != result.Context[0].Content {
		t.Errorf("backend received different chunks than the echoed context")
	}
}

func TestAnswer_ContextMatchesBackendInput(t *testing.T) {
	dir := t.TempDir()
	buildTestIndex(t, dir, "doc", []string{
		"first relevant passage",
		"second relevant passage",
	})

	mLLM := &MockLLM{}
	s := rag.NewService(rag.Options{
		Retrievers: retriever.NewFactory(dir, &MockEmbedder{}, 0),
		Backend:    mLLM,
		Embedder:   &MockEmbedder{},
	})

	result, err := s.Answer(context.Background(), rag.Query{
		Text:    "relevant passage",
		FileIDs: []string{"doc"},
	})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if mLLM.LastQuestion != "relevant passage" {
		t.Errorf("backend question got %q", mLLM.LastQuestion)
	}
	if len(mLLM.LastChunks) != len(result.Context) {
		t.Fatalf("backend saw %d chunks, response echoed %d", len(mLLM.LastChunks), len(result.Context))
	}
	for i := range result.Context {
		if mLLM.LastChunks[i].Content != result.Context[i].Content {
			t.Errorf("chunk %d differs between backend input and echoed context", i)
		}
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	newJob := func(t *testing.T, content string) jobModel.Job {
		t.Helper()
		path := filepath.Join(t.TempDir(), "upload.txt")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("could not write upload: %v", err)
		}
		return jobModel.Job{
			Id:      "job-1",
			JobType: jobModel.JobTypeIngest,
			Status:  jobModel.JobStatusQueued,
			JobPayload: jobModel.JobPayload{
				IngestFileName: "upload.txt",
				IngestURL:      path,
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		t.Setenv("DATA_ROOT", t.TempDir())

		recorder := &MockFileRecorder{}
		s := rag.NewService(rag.Options{
			Backend:      &MockLLM{},
			Embedder:     &MockEmbedder{},
			FileRecorder: recorder,
		})

		job := newJob(t, "a short but perfectly extractable text document")
		result := s.IngestDocument(context.Background(), job)

		if result.Status != jobModel.JobStatusComplete {
			t.Fatalf("status got %v, want %v (error: %s)", result.Status, jobModel.JobStatusComplete, result.Error.Message)
		}
		if result.JobPayload.FileID != job.Id {
			t.Errorf("file id got %q, want the job id %q", result.JobPayload.FileID, job.Id)
		}
		if result.JobPayload.ChunkCount == 0 {
			t.Errorf("expected at least one chunk")
		}
		if recorder.Saved[job.Id] != "upload.txt" {
			t.Errorf("file name not recorded, got %q", recorder.Saved[job.Id])
		}
	})

	t.Run("Failure_Embedding", func(t *testing.T) {
		t.Setenv("DATA_ROOT", t.TempDir())

		em := &MockEmbedder{
			OnBatchEmbedding: func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
				return nil, errors.New("api limit")
			},
		}
		s := rag.NewService(rag.Options{
			Backend:      &MockLLM{},
			Embedder:     em,
			FileRecorder: &MockFileRecorder{},
		})

		result := s.IngestDocument(context.Background(), newJob(t, "some text to ingest"))

		if result.Status != jobModel.JobStatusError {
			t.Fatalf("status got %v, want %v", result.Status, jobModel.JobStatusError)
		}
		if !result.Error.Retry {
			t.Errorf("an embedding failure should be retryable")
		}
	})
}
