package llm

import (
	"context"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
)

// Provider turns a question plus the assembled context chunks into an answer.
// Implementations wrap one generation backend each and report failures as
// *ragerr.BackendError so the boundary can map them uniformly.
type Provider interface {
	Generate(ctx context.Context, question string, contextChunks []docModel.Chunk) (string, error)
}
