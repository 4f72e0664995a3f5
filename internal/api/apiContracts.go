package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

// requests---------------------

type QueryRequest struct {
	Query   string   `json:"query" validate:"required" example:"What is the notice period?"`
	FileIDs []string `json:"file_ids" validate:"required"`
	TopK    int      `json:"top_k,omitempty" example:"3"`
}

// responses--------------------

type ContextChunk struct {
	Content    string `json:"content"`
	FileID     string `json:"file_id"`
	FileName   string `json:"file_name"`
	PageNumber int    `json:"page_number,omitempty"`
}

type QueryResponse struct {
	Query   string         `json:"query"`
	Context []ContextChunk `json:"context"`
	Answer  string         `json:"answer"`
}

type JobResponse struct {
	Id        string            `json:"id" example:"8cbb63c5-4e4f-4b61-bd9d-0a91b85fbaa1"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type IngestResult struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	Pages    int    `json:"pages,omitempty"`
	Chunks   int    `json:"chunks,omitempty"`
}

type Result struct {
	Status string        `json:"status"`
	Ingest *IngestResult `json:"ingest,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	FileID    string `json:"file_id"`
	StatusURL string `json:"status_url"`
}

type FileInfo struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
}

type FileListResponse struct {
	Files []FileInfo `json:"files"`
}
