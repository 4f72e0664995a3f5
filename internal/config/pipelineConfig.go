package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig selects the generation backend and toggles the optional
// retrieval stages. Loaded once at startup from config.yaml when present,
// otherwise defaults apply. Reranking and threshold filtering are independent
// switches, not separate retriever implementations.
type PipelineConfig struct {
	Backend   BackendConfig `yaml:"backend"`
	Retrieval struct {
		TopK              int     `yaml:"top_k"`
		DistanceThreshold float32 `yaml:"distance_threshold"`
	} `yaml:"retrieval"`
	Rerank struct {
		Enabled bool   `yaml:"enabled"`
		TopN    int    `yaml:"top_n"`
		URL     string `yaml:"url"`
	} `yaml:"rerank"`
	Context struct {
		MaxTokens int `yaml:"max_tokens"`
	} `yaml:"context"`
	Cleanup struct {
		StripUnknownSuffix bool `yaml:"strip_unknown_suffix"`
		RelabelUnhelpful   bool `yaml:"relabel_unhelpful"`
	} `yaml:"cleanup"`
	Cache struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"cache"`
}

type BackendConfig struct {
	Type string `yaml:"type"` //gemini | local | extractive

	//local backend: OpenAI-compatible server (llama.cpp, ollama, ...)
	LocalBaseURL string `yaml:"local_base_url"`
	LocalModel   string `yaml:"local_model"`

	//extractive backend: remote QA endpoint taking {question, context}
	ExtractiveURL string `yaml:"extractive_url"`
}

func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultPipelineConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyPipelineDefaults(&cfg)
	return &cfg, nil
}

func defaultPipelineConfig() *PipelineConfig {
	cfg := &PipelineConfig{}
	cfg.Backend.Type = "gemini"
	applyPipelineDefaults(cfg)
	return cfg
}

func applyPipelineDefaults(cfg *PipelineConfig) {
	if cfg.Backend.Type == "" {
		cfg.Backend.Type = "gemini"
	}
	if cfg.Backend.LocalBaseURL == "" {
		cfg.Backend.LocalBaseURL = "http://localhost:11434/v1"
	}
	if cfg.Backend.LocalModel == "" {
		cfg.Backend.LocalModel = "llama3"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = DefaultTopK
	}
	if cfg.Rerank.TopN == 0 {
		cfg.Rerank.TopN = DefaultRerankTopN
	}
	if cfg.Context.MaxTokens == 0 {
		cfg.Context.MaxTokens = DefaultMaxContextTokens
	}
}
