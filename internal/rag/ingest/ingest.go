// Package ingest turns an uploaded document into a searchable index pair:
// extract pages, chunk them, embed the chunks, persist index and metadata.
package ingest

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/domain/jobModel"
	"github.com/ank-dev/askmydoc/internal/rag/embedding"
	"github.com/ank-dev/askmydoc/internal/rag/index"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
	"github.com/ank-dev/askmydoc/pkg/logger_i"

	"github.com/ank-dev/askmydoc/internal/rag/chunker"
)

var logger *logger_i.Logger

// FileRecorder remembers which file id maps to which original file name,
// so listings and query responses can show human names.
type FileRecorder interface {
	SaveFile(ctx context.Context, fileID string, fileName string) error
}

// ProcessDocumentIngestion runs the whole ingestion for one job. The job id
// doubles as the document's file id. Failures are recorded on the job rather
// than returned - the worker persists whatever comes back.
func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, em embedding.Embedder, files FileRecorder) jobModel.Job {
	logger = logger_i.NewLogger("document_ingestion")
	log := logger.With(config.TRACE_ID_KEY, job.TraceId)

	docName := job.JobPayload.IngestFileName
	docPath := job.JobPayload.IngestURL
	fileID := job.Id

	log.Debug("Processing document", "filename", docName, "path", docPath)

	job.CurrentStep = jobModel.IngestExtracting
	docType := getDocType(docName)
	if docType == docModel.ERR {
		log.Error("Unsupported document type", "filename", docName)
		return failJob(job, "unsupported document type", false)
	}

	pages, err := extractText(docPath, docType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return failJob(job, "error extracting document content", false)
	}

	job.CurrentStep = jobModel.IngestChunking
	chunks, err := chunker.Split(pages, fileID, docName, config.DefaultChunkSize, config.DefaultChunkOverlap)
	if err != nil {
		log.Error("Error chunking document", "error", err)
		if errors.Is(err, ragerr.ErrEmptyContent) {
			return failJob(job, "document contains no extractable text", false)
		}
		return failJob(job, "error chunking document", false)
	}
	log.Debug("Processing document", "pages", len(pages), "chunks", len(chunks))

	job.CurrentStep = jobModel.IngestIndexing
	if err := config.EnsureDataDirs(); err != nil {
		log.Error("Error creating data directories", "error", err)
		return failJob(job, "error preparing storage", true)
	}
	indexPath, metadataPath := config.IndexPaths(fileID)
	if err := index.Build(ctx, chunks, em, indexPath, metadataPath); err != nil {
		log.Error("Error building index", "error", err)
		return failJob(job, "error building index", true)
	}

	if err := files.SaveFile(ctx, fileID, docName); err != nil {
		log.Error("Error recording file mapping", "error", err)
		return failJob(job, "error recording file mapping", true)
	}

	//the upload served its purpose, only the index pair is kept
	if err := os.Remove(docPath); err != nil {
		log.Error("Error removing uploaded file", "error", err)
	}

	job.JobPayload.FileID = fileID
	job.JobPayload.PageCount = len(pages)
	job.JobPayload.ChunkCount = len(chunks)
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	job.EndTime = time.Now()
	return job
}

func failJob(job jobModel.Job, message string, retry bool) jobModel.Job {
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	job.Error = jobModel.JobError{Message: message, Retry: retry}
	job.EndTime = time.Now()
	return job
}
