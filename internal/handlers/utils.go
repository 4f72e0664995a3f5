package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ank-dev/askmydoc/internal/adapter"
	"github.com/ank-dev/askmydoc/internal/domain/jobModel"
	"github.com/ank-dev/askmydoc/internal/rag/ragerr"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// too late for a clean status code
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, message, httpCode))
}

// mapPipelineError translates the pipeline error taxonomy into transport
// status codes. Only the boundary knows about HTTP; the pipeline never does.
func mapPipelineError(err error) (int, string) {
	switch {
	case errors.Is(err, ragerr.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid query, top_k or file_ids"
	case errors.Is(err, ragerr.ErrNotFound):
		return http.StatusNotFound, "One or more documents have not been ingested"
	case errors.Is(err, ragerr.ErrEmptyContent):
		return http.StatusUnprocessableEntity, "Document contains no extractable text"
	}

	if be, ok := ragerr.AsBackendError(err); ok {
		if be.Kind == ragerr.BackendTimeout {
			return http.StatusGatewayTimeout, "Generation backend timed out"
		}
		return http.StatusBadGateway, "Generation backend failed"
	}
	if _, ok := ragerr.AsBuildError(err); ok {
		return http.StatusInternalServerError, "Index build failed"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}
