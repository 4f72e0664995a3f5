package promptbuild

import (
	"strings"
	"testing"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
)

func chunksOf(contents ...string) []docModel.Chunk {
	out := make([]docModel.Chunk, len(contents))
	for i, c := range contents {
		out[i] = docModel.Chunk{Content: c}
	}
	return out
}

func TestRender_ContainsContextAndQuestion(t *testing.T) {
	prompt := Render("some context text", "what is this?")

	if !strings.Contains(prompt, "Context:\nsome context text") {
		t.Error("prompt missing context section")
	}
	if !strings.Contains(prompt, "Question:\nwhat is this?") {
		t.Error("prompt missing question section")
	}
	if !strings.HasSuffix(prompt, "Answer:") {
		t.Error("prompt missing answer cue")
	}
}

func TestRender_IsPure(t *testing.T) {
	if Render("c", "q") != Render("c", "q") {
		t.Error("Render must be a pure function of (context, query)")
	}
}

func TestAssembleContext_RespectsBudget(t *testing.T) {
	chunks := chunksOf(
		"one two three four five",
		"six seven eight nine ten",
		"eleven twelve",
	)
	query := "short query"

	templateOverhead := CountTokens(Render("", query))
	budget := templateOverhead + 10 // room for the first two chunks only

	assembled := AssembleContext(chunks, query, budget)

	if CountTokens(Render(assembled, query)) > budget {
		t.Error("assembled prompt exceeds the token budget")
	}
	if !strings.Contains(assembled, "one two three") {
		t.Error("first chunk should be included")
	}
	if strings.Contains(assembled, "eleven") {
		t.Error("third chunk should not fit the budget")
	}
}

func TestAssembleContext_StrictPrefixNotBestFit(t *testing.T) {
	chunks := chunksOf(
		"a b",
		strings.Repeat("word ", 50), // blows the budget
		"c",                         // would fit individually, must still be dropped
	)
	query := "q"

	budget := CountTokens(Render("", query)) + 5
	assembled := AssembleContext(chunks, query, budget)

	if !strings.Contains(assembled, "a b") {
		t.Error("first chunk should be included")
	}
	if strings.Contains(assembled, "c\n") {
		t.Error("chunks after the first over-budget chunk must be dropped")
	}
}

func TestAssembleContext_HugeFirstChunkYieldsEmpty(t *testing.T) {
	huge := chunksOf(strings.Repeat("word ", 100))

	assembled := AssembleContext(huge, "query", 10)
	if assembled != "" {
		t.Errorf("expected empty context, got %d bytes", len(assembled))
	}
}

func TestAssembleContext_MonotonicInBudget(t *testing.T) {
	chunks := chunksOf("one two", "three four", "five six", "seven eight")
	query := "the query"

	prev := -1
	for budget := 5; budget <= 60; budget += 5 {
		assembled := AssembleContext(chunks, query, budget)
		included := 0
		for _, c := range chunks {
			if strings.Contains(assembled, c.Content) {
				included++
			}
		}
		if included < prev {
			t.Errorf("budget %d includes %d chunks, smaller budget included %d", budget, included, prev)
		}
		prev = included
	}
}

func TestCleanAnswer_StripsTrailingDisclaimer(t *testing.T) {
	opts := CleanupOptions{StripUnknownSuffix: true}

	got := CleanAnswer("Paris is the capital of France. I don't know.", opts)
	if got != "Paris is the capital of France." {
		t.Errorf("got %q", got)
	}
}

func TestCleanAnswer_PureDisclaimerKept(t *testing.T) {
	opts := CleanupOptions{StripUnknownSuffix: true}

	got := CleanAnswer("I don't know.", opts)
	if got != "I don't know." {
		t.Errorf("a lone disclaimer is the honest answer, got %q", got)
	}
}

func TestCleanAnswer_RelabelsUnhelpfulSection(t *testing.T) {
	opts := CleanupOptions{RelabelUnhelpful: true}

	got := CleanAnswer("The answer is 42.\nUnhelpful answers:\nsomething else", opts)
	if !strings.Contains(got, "Additional information:") {
		t.Errorf("section not relabelled: %q", got)
	}
	if strings.Contains(got, "Unhelpful answers:") {
		t.Errorf("old label still present: %q", got)
	}
}

func TestCleanAnswer_DisabledOptionsLeaveAnswerAlone(t *testing.T) {
	in := "Something. I don't know.\nUnhelpful answers: x"

	if got := CleanAnswer(in, CleanupOptions{}); got != in {
		t.Errorf("cleanup ran while disabled: %q", got)
	}
}
