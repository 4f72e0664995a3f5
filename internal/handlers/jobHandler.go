package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/data/store"
	"github.com/ank-dev/askmydoc/internal/domain/jobModel"
	"github.com/ank-dev/askmydoc/internal/job"
	"github.com/ank-dev/askmydoc/internal/metrics"
	"github.com/ank-dev/askmydoc/internal/rag"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
	fileStore  *store.FileMapStore
}

func InitJobHandler(jobService *job.Service, ragService rag.Service, fileStore *store.FileMapStore) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service:    jobService,
			ragService: ragService,
			fileStore:  fileStore,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	log := logJH.With(config.TRACE_ID_KEY, newJob.traceId, "jobId", newJob.id)
	log.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {
	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.IngestInit
	_job.JobType = jobModel.JobTypeIngest
	_job.JobPayload.IngestFileName = newJob.documentName
	_job.JobPayload.IngestURL = newJob.documentSource

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send keeps the system from being overwhelmed
	logJH.Info("Created new job")

	//ingestion runs batch embedding calls that can take a while, so every
	//ingest job asks the dispatcher for another worker; idle workers retire
	//on their own, keeping the pool small most of the time
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount()
		logJH.Debug("Request count", "count", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
