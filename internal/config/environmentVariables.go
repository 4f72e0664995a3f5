package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//auth
	NoAuthBypass = true //local dev only, flip for deployments
	AuthToken    = ""

	//chunking
	DefaultChunkSize    = 500 //characters per chunk - must match what the index was built with
	DefaultChunkOverlap = 0

	//retrieval
	DefaultTopK              = 3
	MaxTopK                  = 10
	DefaultDistanceThreshold = 0 //0 disables threshold filtering, squared L2 distance

	//context assembly
	DefaultMaxContextTokens = 512

	//reranking
	DefaultRerankTopN = 3

	//semantic answer cache
	CacheSimilarityCutoff = 0.97

	//embeddings
	EmbeddingOutputDimensionality int32 = 768
	GoogleEmbeddingModel                = "gemini-embedding-001"

	//llm
	GeminiModelName          = "gemini-2.5-flash-lite-preview-09-2025"
	ModelTemperature float32 = 0.7
	ModelContext             = "You are an assistant answering questions strictly from the supplied document excerpts. " +
		"If the excerpts do not contain the answer, say you don't know."

	//generation backend call budget - the worker/handler wraps Generate with this deadline
	GenerateTimeout = 30 * time.Second

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//upload handling
	MaxUploadSize = 32 << 20 //32mb

	//qdrant is only used for the semantic answer cache -
	//document retrieval runs on local per-document index files
	QdrantHost     = ""
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore = 0

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)

// GoogleAPIKey is read from the environment, never stored in code.
func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}
