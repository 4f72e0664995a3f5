// @title           Ask My Document API
// @version         1.0
// @description     Upload documents, then ask questions answered from their content.
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ank-dev/askmydoc/internal/config"
	"github.com/ank-dev/askmydoc/internal/data/store"
	jobmodel "github.com/ank-dev/askmydoc/internal/domain/jobModel"
	"github.com/ank-dev/askmydoc/internal/handlers"
	"github.com/ank-dev/askmydoc/internal/job"
	"github.com/ank-dev/askmydoc/internal/rag"
	"github.com/ank-dev/askmydoc/internal/rag/cache"
	"github.com/ank-dev/askmydoc/internal/rag/embedding/googleEmbedding"
	"github.com/ank-dev/askmydoc/internal/rag/llm"
	"github.com/ank-dev/askmydoc/internal/rag/llm/extractiveqa"
	"github.com/ank-dev/askmydoc/internal/rag/llm/gemini"
	"github.com/ank-dev/askmydoc/internal/rag/llm/localllm"
	"github.com/ank-dev/askmydoc/internal/rag/promptbuild"
	"github.com/ank-dev/askmydoc/internal/rag/rerank"
	"github.com/ank-dev/askmydoc/internal/rag/retriever"
	"github.com/ank-dev/askmydoc/internal/server"
	"github.com/ank-dev/askmydoc/internal/worker"
	"github.com/ank-dev/askmydoc/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	listenAddr        string
	configPath        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	//missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&configPath, "config", "config.yaml", "pipeline config file")
	flag.Parse()

	pipeline, err := config.LoadPipelineConfig(configPath)
	if err != nil {
		logger.Error("Could not load pipeline config", "error", err)
		return
	}

	if err := config.EnsureDataDirs(); err != nil {
		logger.Error("Could not create data directories", "error", err)
		return
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		serviceConfig.JobStore = redisJobStore
	} else {
		logger.Error("Redis store is offline, using in-memory job store")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	fileStore, err := store.OpenFileMapStore(config.FileMapPath())
	if err != nil {
		logger.Error("Could not open file map store", "error", err)
		return
	}
	defer fileStore.Close()

	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	if embeddingService == nil {
		logger.Error("Embedding service failed to initialize. Shutting down.")
		return
	}

	backend := buildBackend(serviceContext, pipeline, logger)
	if backend == nil {
		return
	}

	var reranker *rerank.Reranker
	if pipeline.Rerank.Enabled {
		reranker = rerank.New(rerank.NewHTTPScorer(pipeline.Rerank.URL))
	}

	var answerCache cache.AnswerCache
	if pipeline.Cache.Enabled {
		answerCache = cache.GetQdrantCache(serviceContext)
		if answerCache == nil {
			logger.Warn("Semantic cache unavailable, continuing without it")
		}
	}

	ragService := rag.NewService(rag.Options{
		Retrievers:    retriever.NewFactory(config.IndexDir(), embeddingService, pipeline.Retrieval.DistanceThreshold),
		Backend:       backend,
		Embedder:      embeddingService,
		Reranker:      reranker,
		RerankTopN:    pipeline.Rerank.TopN,
		AnswerCache:   answerCache,
		MaxContextTok: pipeline.Context.MaxTokens,
		FileRecorder:  fileStore,
	})

	handlers.InitJobHandler(service, ragService, fileStore)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildBackend(ctx context.Context, pipeline *config.PipelineConfig, logger *logger_i.Logger) llm.Provider {
	switch pipeline.Backend.Type {
	case "gemini":
		provider := gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GoogleAPIKey())
		if provider == nil {
			logger.Error("Gemini backend failed to initialize. Shutting down.")
		}
		return provider

	case "local":
		return localllm.NewLocalClient(
			pipeline.Backend.LocalBaseURL,
			pipeline.Backend.LocalModel,
			promptbuild.CleanupOptions{
				StripUnknownSuffix: pipeline.Cleanup.StripUnknownSuffix,
				RelabelUnhelpful:   pipeline.Cleanup.RelabelUnhelpful,
			},
		)

	case "extractive":
		if pipeline.Backend.ExtractiveURL == "" {
			logger.Error("Extractive backend requires extractive_url")
			return nil
		}
		return extractiveqa.NewExtractiveClient(pipeline.Backend.ExtractiveURL)

	default:
		logger.Error("Unknown backend type", "type", pipeline.Backend.Type)
		return nil
	}
}
