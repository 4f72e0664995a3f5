package index

import (
	"context"

	"github.com/google/uuid"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/rag/embedding"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
)

// hugeDataSetCutoff switches the embedder to its batch-job path. Only very
// large documents cross it.
const hugeDataSetCutoff = 1000000

// Build embeds all chunk contents in one batch call and publishes a fresh
// index/metadata pair. Indexes are always rebuilt whole - there is no append
// path. Vector slot i corresponds to chunks[i] in the metadata file.
func Build(ctx context.Context, chunks []docModel.Chunk, em embedding.Embedder, indexPath string, metadataPath string) error {
	if len(chunks) == 0 {
		return &ragerr.BuildError{Stage: "embedding", Err: errZeroVectors}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := em.BatchEmbedding(ctx, texts, len(texts) > hugeDataSetCutoff)
	if err != nil {
		return &ragerr.BuildError{Stage: "embedding", Err: err}
	}
	if len(vectors) == 0 {
		return &ragerr.BuildError{Stage: "embedding", Err: errZeroVectors}
	}
	if len(vectors) != len(chunks) {
		return &ragerr.BuildError{Stage: "embedding", Err: errCountMismatch(len(chunks), len(vectors))}
	}

	dim := len(vectors[0])
	if dim == 0 {
		return &ragerr.BuildError{Stage: "embedding", Err: errZeroVectors}
	}

	lock := writerLock(indexPath)
	lock.Lock()
	defer lock.Unlock()

	// A pre-existing index at this path pins the dimension. A different
	// dimension means the embedding model changed underneath the caller.
	existing, err := existingDimension(indexPath)
	if err != nil {
		return &ragerr.BuildError{Stage: "index", Err: err}
	}
	if existing != 0 && existing != dim {
		return &ragerr.BuildError{Stage: "index", Err: errDimensionChange(existing, dim)}
	}

	flat, err := NewFlat(dim)
	if err != nil {
		return &ragerr.BuildError{Stage: "index", Err: err}
	}
	if err := flat.Add(vectors); err != nil {
		return &ragerr.BuildError{Stage: "index", Err: err}
	}

	if err := writePair(flat, [16]byte(uuid.New()), chunks, indexPath, metadataPath); err != nil {
		return &ragerr.BuildError{Stage: "persist", Err: err}
	}
	return nil
}
