package adapter

import (
	"fmt"
	"time"

	"github.com/ank-dev/askmydoc/internal/api"
	"github.com/ank-dev/askmydoc/internal/domain/docModel"
	"github.com/ank-dev/askmydoc/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		FileID:    id, //the job id doubles as the document's file id
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Ingest: toIngestResult(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toIngestResult(payload jobModel.JobPayload) *api.IngestResult {
	if payload.FileID == "" {
		return nil
	}

	return &api.IngestResult{
		FileID:   payload.FileID,
		FileName: payload.IngestFileName,
		Pages:    payload.PageCount,
		Chunks:   payload.ChunkCount,
	}
}

func ToQueryResponse(result docModel.AnswerResult) api.QueryResponse {
	context := make([]api.ContextChunk, 0, len(result.Context))
	for _, c := range result.Context {
		context = append(context, api.ContextChunk{
			Content:    c.Content,
			FileID:     c.FileID,
			FileName:   c.FileName,
			PageNumber: c.PageNumber,
		})
	}
	return api.QueryResponse{
		Query:   result.Query,
		Context: context,
		Answer:  result.Answer,
	}
}

func BadRequest(id string, message string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: message,
			Retry:   false,
		},
	}
}
