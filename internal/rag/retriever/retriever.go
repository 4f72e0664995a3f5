package retriever

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/internal/rag/embedding"
	"github.com/ank-dev/askmydoc/internal/rag/index"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
)

// Retriever is bound to one index/metadata pair at construction and is
// read-only afterwards - concurrent retrievals need no locking.
type Retriever struct {
	flat      *index.Flat
	metadata  []docModel.Chunk
	embedder  embedding.Embedder
	threshold float32 //0 disables filtering
	logger    *logger_i.Logger
}

// New opens the pair at the given paths. Missing files mean the document was
// never ingested: ragerr.ErrNotFound. A build-id mismatch means a rebuild
// raced the open; one re-read picks up the committed pair.
func New(indexPath string, metadataPath string, em embedding.Embedder, threshold float32) (*Retriever, error) {
	for _, path := range []string{indexPath, metadataPath} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ragerr.ErrNotFound, path)
			}
			return nil, err
		}
	}

	flat, metadata, err := loadPair(indexPath, metadataPath)
	if errors.Is(err, index.ErrPairMismatch) {
		flat, metadata, err = loadPair(indexPath, metadataPath)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ragerr.ErrNotFound, indexPath)
		}
		return nil, err
	}

	if flat.Len() != len(metadata) {
		return nil, fmt.Errorf("index %s holds %d vectors but metadata has %d chunks", indexPath, flat.Len(), len(metadata))
	}

	return &Retriever{
		flat:      flat,
		metadata:  metadata,
		embedder:  em,
		threshold: threshold,
		logger:    logger_i.NewLogger("Retriever"),
	}, nil
}

func loadPair(indexPath string, metadataPath string) (*index.Flat, []docModel.Chunk, error) {
	flat, indexBuild, err := index.ReadIndexFile(indexPath)
	if err != nil {
		return nil, nil, err
	}
	metadata, metaBuild, err := index.ReadMetadataFile(metadataPath)
	if err != nil {
		return nil, nil, err
	}
	if indexBuild != metaBuild {
		return nil, nil, index.ErrPairMismatch
	}
	return flat, metadata, nil
}

// Retrieve embeds the query, runs nearest-neighbor search and resolves the
// surviving slots through the metadata store. Results come back nearest
// first. When a threshold is configured, only candidates strictly below it
// survive.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, topK int) ([]docModel.Match, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	queryVector, err := r.embedder.GetEmbedding(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	ids, distances, err := r.flat.Search(queryVector, topK)
	if err != nil {
		return nil, err
	}

	var matches []docModel.Match
	for i, id := range ids {
		if id == index.NoMatch {
			continue
		}
		if r.threshold > 0 && distances[i] >= r.threshold {
			continue
		}
		matches = append(matches, docModel.Match{
			Chunk:    r.metadata[id],
			Distance: distances[i],
		})
	}

	r.logger.Debug("retrieval done", "candidates", len(ids), "matches", len(matches))
	return matches, nil
}

// Len reports how many chunks the bound index holds.
func (r *Retriever) Len() int { return r.flat.Len() }
