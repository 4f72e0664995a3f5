package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
)

func getDocType(docPath string) docModel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return docModel.PDF
	case ".docx", ".txt", ".rtf", ".odt":
		return docModel.DOCX
	default:
		return docModel.ERR
	}
}

func extractText(path string, contentType docModel.DocType) ([]docModel.Page, error) {
	switch contentType {
	case docModel.PDF:
		return extractPDF(path)
	case docModel.DOCX:
		return extractDocxTxtRtf(path)

	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}
