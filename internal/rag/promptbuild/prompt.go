// Package promptbuild renders the generation prompt and packs retrieved
// chunks into it under a token budget.
package promptbuild

import (
	"fmt"
	"strings"
)

const template = "You are an assistant answering based on the provided documents. " +
	"Answer only from the given context. If the context does not contain the answer, say you don't know.\n" +
	"Context:\n%s\n\n" +
	"Question:\n%s\n\n" +
	"Answer:"

// Render is a pure function of (context, query) - no hidden state.
func Render(contextText string, queryText string) string {
	return fmt.Sprintf(template, contextText, queryText)
}

// CountTokens approximates tokenization as whitespace-separated fields.
// The budget only needs a deterministic, monotonic measure - the boundary
// layer sizes max_tokens with the approximation in mind.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
