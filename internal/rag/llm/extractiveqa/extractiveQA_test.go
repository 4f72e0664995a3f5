package extractiveqa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
)

func testChunks() []docModel.Chunk {
	return []docModel.Chunk{
		{Content: "Python is a programming language.", FileID: "doc1"},
		{Content: "Go is also a programming language.", FileID: "doc1"},
	}
}

func TestGenerate_SendsQuestionAndContext(t *testing.T) {
	var got qaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(qaResponse{Answer: "Python"})
	}))
	defer srv.Close()

	provider := NewExtractiveClient(srv.URL)
	answer, err := provider.Generate(context.Background(), "What is Python?", testChunks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Python" {
		t.Errorf("got answer %q", answer)
	}
	if got.Question != "What is Python?" {
		t.Errorf("question not forwarded: %q", got.Question)
	}
	if !strings.Contains(got.Context, "Python is a programming language.") {
		t.Errorf("context missing chunk content: %q", got.Context)
	}
}

func TestGenerate_UpstreamStatusBecomesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	provider := NewExtractiveClient(srv.URL)
	_, err := provider.Generate(context.Background(), "q", testChunks())

	be, ok := ragerr.AsBackendError(err)
	if !ok {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Kind != ragerr.BackendUpstream {
		t.Errorf("kind = %s", be.Kind)
	}
	if be.Status != http.StatusServiceUnavailable {
		t.Errorf("status = %d", be.Status)
	}
}

func TestGenerate_ServiceErrorFieldBecomesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(qaResponse{Error: "context too long"})
	}))
	defer srv.Close()

	provider := NewExtractiveClient(srv.URL)
	_, err := provider.Generate(context.Background(), "q", testChunks())

	be, ok := ragerr.AsBackendError(err)
	if !ok {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if !strings.Contains(be.Message, "context too long") {
		t.Errorf("message = %q", be.Message)
	}
}

func TestGenerate_DeadlineBecomesTimeoutKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(qaResponse{Answer: "late"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	provider := NewExtractiveClient(srv.URL)
	_, err := provider.Generate(ctx, "q", testChunks())

	be, ok := ragerr.AsBackendError(err)
	if !ok {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Kind != ragerr.BackendTimeout {
		t.Errorf("kind = %s, want timeout", be.Kind)
	}
}
