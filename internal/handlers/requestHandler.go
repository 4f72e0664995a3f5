package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ank-dev/askmydoc/internal/adapter"
	"github.com/ank-dev/askmydoc/internal/adapter/utils"
	"github.com/ank-dev/askmydoc/internal/api"
	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/rag"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id             string
	traceId        string
	documentName   string
	documentSource string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// QueryHandler godoc
// @Summary      Ask a question against ingested documents
// @Description  Runs retrieval over the requested documents and generates an answer grounded in the retrieved context.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest   true  "Question, document ids and optional top_k"
// @Success      200      {object}  api.QueryResponse  "Answer with its supporting context"
// @Failure      400      {object}  api.JobResponse    "Invalid query, top_k or file_ids"
// @Failure      404      {object}  api.JobResponse    "One of the documents has no index"
// @Failure      502      {object}  api.JobResponse    "Generation backend failure"
// @Router       /documents/query [post]
func QueryHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the query handler reader", "error", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad Query Request", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	result, err := handlerInstance.ragService.Answer(request.Context(), rag.Query{
		Text:    requestData.Query,
		FileIDs: requestData.FileIDs,
		TopK:    requestData.TopK,
	})
	if err != nil {
		code, message := mapPipelineError(err)
		WriteErrorResponse(w, code, "", message)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(result))
}

// GetStatusHandler godoc
// @Summary      Get ingestion job status
// @Description  Retrieves the current status of an ingestion job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Description  Returns every ingested document's file id and original filename.
// @Tags         Ingestion
// @Produce      json
// @Success      200  {object}  api.FileListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	entries, err := handlerInstance.fileStore.ListFiles(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	files := make([]api.FileInfo, 0, len(entries))
	for _, e := range entries {
		files = append(files, api.FileInfo{FileID: e.FileID, FileName: e.FileName})
	}
	writeJsonResponse(w, http.StatusOK, api.FileListResponse{Files: files})
}

// PostIngestHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to the upload directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "The PDF, DOCX, TXT or RTF file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted - returns the job/file id"
// @Failure      400  {object}  api.JobResponse  "Bad Request - missing file or file too large"
// @Failure      415  {object}  api.JobResponse  "Unsupported document type"
// @Failure      500  {object}  api.JobResponse  "Storage or write error"
// @Router       /documents/upload [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	if err := config.EnsureDataDirs(); err != nil {
		logRH.Error("Couldn't prepare upload directory", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	docName := fileMetadata.Filename
	if !supportedUpload(docName) {
		WriteErrorResponse(w, http.StatusUnsupportedMediaType, docName, "Unsupported document type")
		return
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(docName))
	tempFilePath := filepath.Join(config.UploadDir(), filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}

	newJob := newJobData{
		id:             utils.GetNewUUID(),
		traceId:        r.Context().Value(config.TRACE_ID_KEY).(string),
		documentName:   docName,
		documentSource: tempFilePath,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

func supportedUpload(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx", ".txt", ".rtf", ".odt":
		return true
	default:
		return false
	}
}
