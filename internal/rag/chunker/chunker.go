package chunker

import (
	"strings"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
)

// Split cuts each page's text into fixed-size slices of chunkSize runes.
// The final slice of a page may be shorter. With overlap 0 the chunks of a
// page concatenate back to the page text exactly; overlap > 0 makes each
// slice start overlap runes before the end of the previous one.
//
// Output order is stable: pages in input order, slices left to right within
// a page. If every page is empty or whitespace-only the whole ingestion is
// rejected with ragerr.ErrEmptyContent instead of silently producing an
// empty index.
func Split(pages []docModel.Page, fileID string, fileName string, chunkSize int, overlap int) ([]docModel.Chunk, error) {
	if chunkSize <= 0 {
		return nil, ragerr.ErrInvalidInput
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, ragerr.ErrInvalidInput
	}

	hasText := false
	for _, page := range pages {
		if strings.TrimSpace(page.Content) != "" {
			hasText = true
			break
		}
	}
	if !hasText {
		return nil, ragerr.ErrEmptyContent
	}

	var chunks []docModel.Chunk
	for _, page := range pages {
		if page.Content == "" {
			continue
		}
		for _, slice := range sliceText(page.Content, chunkSize, overlap) {
			chunks = append(chunks, docModel.Chunk{
				Content:    slice,
				FileID:     fileID,
				FileName:   fileName,
				PageNumber: page.Number,
			})
		}
	}
	return chunks, nil
}

func sliceText(text string, size int, overlap int) []string {
	runes := []rune(text)
	step := size - overlap

	var slices []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		slices = append(slices, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return slices
}
