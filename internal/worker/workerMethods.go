package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ank-dev/askmydoc/internal/config"
	jobmodel "github.com/ank-dev/askmydoc/internal/domain/jobModel"
	"github.com/ank-dev/askmydoc/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureAnswerMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 10*time.Minute)
	defer cancel()
	log := logger.With(config.TRACE_ID_KEY, job.TraceId)
	log.Debug("Processing job", "jobId", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	job = _ragService.IngestDocument(ctx, job)

	if job.EndTime.IsZero() {
		job.EndTime = time.Now()
	}
	//IngestDocument already set a terminal status, persist it as-is
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to persist finished job", "err", err)
	}
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
