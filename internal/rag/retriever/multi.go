package retriever

import (
	"context"
	"path/filepath"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/rag/embedding"
)

// Factory opens retrievers for document ids under a fixed index directory.
// One factory is shared process-wide; it holds no per-request state.
type Factory struct {
	Dir       string
	Embedder  embedding.Embedder
	Threshold float32
}

func NewFactory(dir string, em embedding.Embedder, threshold float32) *Factory {
	return &Factory{Dir: dir, Embedder: em, Threshold: threshold}
}

func (f *Factory) Open(fileID string) (*Retriever, error) {
	indexPath := filepath.Join(f.Dir, fileID+".index")
	metadataPath := filepath.Join(f.Dir, fileID+".meta")
	return New(indexPath, metadataPath, f.Embedder, f.Threshold)
}

// RetrieveMulti runs an independent retrieval against each document and
// concatenates the results file by file, in the order fileIDs was given.
// There is no global re-sort by distance: every requested document gets to
// contribute up to topK chunks instead of the globally-closest chunks
// crowding out a less-similar but still relevant document.
//
// A document with no index aborts the whole query - silently omitting a
// requested source would misrepresent answer provenance.
func (f *Factory) RetrieveMulti(ctx context.Context, queryText string, fileIDs []string, topK int) ([]docModel.Match, error) {
	var all []docModel.Match
	for _, fileID := range fileIDs {
		r, err := f.Open(fileID)
		if err != nil {
			return nil, err
		}
		matches, err := r.Retrieve(ctx, queryText, topK)
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}
	return all, nil
}
