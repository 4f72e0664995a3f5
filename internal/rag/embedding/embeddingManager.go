package embedding

import "context"

// Embedder is injected into the index builder and the retriever. Build time
// and query time must use the same implementation for a given index -
// mixing embedding models produces meaningless distances.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error)
}
