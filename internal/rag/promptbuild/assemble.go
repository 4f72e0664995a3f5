package promptbuild

import (
	"strings"
	"time"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
)

// FitChunks returns the longest prefix of chunks whose rendered prompt stays
// at or below maxTokens. The first chunk that would exceed the budget stops
// assembly entirely - later chunks are dropped even if they would fit
// individually. A strict prefix keeps the included context aligned with
// retrieval priority; best-fit packing would not.
//
// If the very first chunk already exceeds the budget the prefix is empty.
func FitChunks(chunks []docModel.Chunk, queryText string, maxTokens int) []docModel.Chunk {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("context_assembly", time.Since(start)) }()

	var assembled strings.Builder
	included := make([]docModel.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		candidate := assembled.String() + chunk.Content + "\n"
		if CountTokens(Render(candidate, queryText)) > maxTokens {
			break
		}
		assembled.WriteString(chunk.Content)
		assembled.WriteString("\n")
		included = append(included, chunk)
	}
	return included
}

// AssembleContext renders the fitted prefix as the context block of the
// prompt: chunk contents in order, each followed by a newline.
func AssembleContext(chunks []docModel.Chunk, queryText string, maxTokens int) string {
	return JoinChunks(FitChunks(chunks, queryText, maxTokens))
}

// JoinChunks formats already-fitted chunks the same way AssembleContext does.
// Backends use it so the prompt they send matches the one the budget was
// measured against.
func JoinChunks(chunks []docModel.Chunk) string {
	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(chunk.Content)
		b.WriteString("\n")
	}
	return b.String()
}
