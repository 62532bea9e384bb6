package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the medrag pipeline configuration.
type Config struct {
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Search    SearchConfig    `yaml:"search"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// QdrantConfig holds vector index connection settings. The index service is
// expected to be already running; medrag never manages its lifecycle.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings. The same model is used
// at ingestion and query time.
type EmbeddingConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
	BatchSize  int    `yaml:"batch_size"`
}

// LLMConfig holds chat completion service settings.
type LLMConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	EvalModel  string `yaml:"eval_model"` // defaults to Model
	TimeoutSec int    `yaml:"timeout_sec"`
}

// PricingConfig holds per-thousand-token rates for cost estimation.
type PricingConfig struct {
	PromptPer1K     float64 `yaml:"prompt_per_1k"`
	CompletionPer1K float64 `yaml:"completion_per_1k"`
}

// IngestConfig holds corpus ingestion settings. MaxDocuments caps the working
// set to bound indexing cost; rows beyond the cap are excluded and the count
// is logged.
type IngestConfig struct {
	CorpusPath   string `yaml:"corpus_path"`
	Collection   string `yaml:"collection"`
	MaxDocuments int    `yaml:"max_documents"`
}

// SearchConfig holds retrieval settings.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// MetricsConfig holds Prometheus listener settings. Port 0 disables the
// listener.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Qdrant.TimeoutSec <= 0 {
		c.Qdrant.TimeoutSec = 15
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "jinaai/jina-embeddings-v2-small-en"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 512
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 32
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-oss-120b"
	}
	if c.LLM.EvalModel == "" {
		c.LLM.EvalModel = c.LLM.Model
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.Pricing.PromptPer1K <= 0 {
		c.Pricing.PromptPer1K = 0.00015
	}
	if c.Pricing.CompletionPer1K <= 0 {
		c.Pricing.CompletionPer1K = 0.0006
	}
	if c.Ingest.Collection == "" {
		c.Ingest.Collection = "medicalQA-rag"
	}
	if c.Ingest.MaxDocuments <= 0 {
		c.Ingest.MaxDocuments = 500
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Qdrant.URL == "" {
		return fmt.Errorf("qdrant.url is required")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required")
	}
	if c.Ingest.CorpusPath == "" {
		return fmt.Errorf("ingest.corpus_path is required")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
