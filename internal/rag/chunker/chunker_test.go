package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
)

func TestSplit_ReassemblesExactly(t *testing.T) {
	text := strings.Repeat("abcdefghij", 123) //1230 chars, not a multiple of 500
	pages := []docModel.Page{{Number: 1, Content: text}}

	chunks, err := Split(pages, "file-1", "doc.pdf", 500, 0)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	var rebuilt strings.Builder
	total := 0
	for _, c := range chunks {
		rebuilt.WriteString(c.Content)
		total += len(c.Content)
	}

	if rebuilt.String() != text {
		t.Error("chunks do not concatenate back to the original text")
	}
	if total != len(text) {
		t.Errorf("character count mismatch: got %d, want %d", total, len(text))
	}
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks of (500,500,230), got %d", len(chunks))
	}
	if len(chunks[2].Content) != 230 {
		t.Errorf("final slice should be short: got %d chars", len(chunks[2].Content))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	pages := []docModel.Page{
		{Number: 1, Content: "Python is a programming language."},
		{Number: 2, Content: "FastAPI is a web framework."},
	}

	first, err := Split(pages, "f", "n", 10, 0)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	second, _ := Split(pages, "f", "n", 10, 0)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_PageOrderStable(t *testing.T) {
	pages := []docModel.Page{
		{Number: 1, Content: strings.Repeat("a", 12)},
		{Number: 2, Content: strings.Repeat("b", 5)},
	}

	chunks, err := Split(pages, "f", "n", 10, 0)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	wantPages := []int{1, 1, 2}
	if len(chunks) != len(wantPages) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantPages))
	}
	for i, c := range chunks {
		if c.PageNumber != wantPages[i] {
			t.Errorf("chunk %d: page %d, want %d", i, c.PageNumber, wantPages[i])
		}
	}
}

func TestSplit_AllWhitespaceFailsLoudly(t *testing.T) {
	pages := []docModel.Page{
		{Number: 1, Content: "   \n\t "},
		{Number: 2, Content: ""},
	}

	_, err := Split(pages, "f", "n", 500, 0)
	if !errors.Is(err, ragerr.ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestSplit_Provenance(t *testing.T) {
	pages := []docModel.Page{{Number: 4, Content: "some page text"}}

	chunks, err := Split(pages, "file-id-9", "report.pdf", 500, 0)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if chunks[0].FileID != "file-id-9" || chunks[0].FileName != "report.pdf" || chunks[0].PageNumber != 4 {
		t.Errorf("provenance mismatch: %+v", chunks[0])
	}
}

func TestSplit_Overlap(t *testing.T) {
	pages := []docModel.Page{{Number: 1, Content: "abcdefghij"}}

	chunks, err := Split(pages, "f", "n", 4, 2)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	want := []string{"abcd", "cdef", "efgh", "ghij"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i, w := range want {
		if chunks[i].Content != w {
			t.Errorf("chunk %d: got %q, want %q", i, chunks[i].Content, w)
		}
	}
}

func TestSplit_BadArguments(t *testing.T) {
	pages := []docModel.Page{{Number: 1, Content: "text"}}

	if _, err := Split(pages, "f", "n", 0, 0); !errors.Is(err, ragerr.ErrInvalidInput) {
		t.Errorf("chunkSize 0: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Split(pages, "f", "n", 10, 10); !errors.Is(err, ragerr.ErrInvalidInput) {
		t.Errorf("overlap == size: expected ErrInvalidInput, got %v", err)
	}
}
