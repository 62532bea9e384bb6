package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/config"
	"github.com/kailas-cloud/medrag/internal/corpus"
	"github.com/kailas-cloud/medrag/internal/domain"
	logpkg "github.com/kailas-cloud/medrag/internal/logger"
	"github.com/kailas-cloud/medrag/internal/metrics"
	"github.com/kailas-cloud/medrag/internal/repository/qdrant"
	openaiTransport "github.com/kailas-cloud/medrag/internal/transport/openai"
	ingestuc "github.com/kailas-cloud/medrag/internal/usecase/ingest"
	raguc "github.com/kailas-cloud/medrag/internal/usecase/rag"
	searchuc "github.com/kailas-cloud/medrag/internal/usecase/search"
	"github.com/kailas-cloud/medrag/internal/version"
)

func main() {
	_ = godotenv.Load()

	var (
		query      string
		collection string
		corpusPath string
		topK       int
	)
	flag.StringVar(&query, "query", "", "The query string to answer")
	flag.StringVar(&collection, "collection", "", "Collection name (overrides config)")
	flag.StringVar(&corpusPath, "corpus", "", "Corpus file path (overrides config)")
	flag.IntVar(&topK, "top-k", 0, "Number of documents to retrieve (overrides config)")
	flag.Parse()

	if query == "" {
		fmt.Fprintln(os.Stderr, "Usage: medrag --query \"<question>\"")
		os.Exit(1)
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if collection != "" {
		cfg.Ingest.Collection = collection
	}
	if corpusPath != "" {
		cfg.Ingest.CorpusPath = corpusPath
	}
	if topK > 0 {
		cfg.Search.TopK = topK
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting medrag pipeline",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("collection", cfg.Ingest.Collection),
		zap.String("model", cfg.LLM.Model),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	metrics.Register()
	if cfg.Metrics.Port > 0 {
		go serveMetrics(cfg.Metrics.Port, logger)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	record, err := run(ctx, cfg, query, logger)
	if err != nil {
		logger.Fatal("Pipeline failed", zap.Error(err))
	}

	fmt.Println(record.Render())
}

func run(ctx context.Context, cfg config.Config, query string, logger *zap.Logger) (domain.AnswerRecord, error) {
	repo := qdrant.New(qdrant.Config{
		BaseURL: cfg.Qdrant.URL,
		APIKey:  cfg.Qdrant.APIKey,
		Timeout: time.Duration(cfg.Qdrant.TimeoutSec) * time.Second,
	}, logger)

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:   cfg.Embedding.APIKey,
		BaseURL:  cfg.Embedding.BaseURL,
		Model:    cfg.Embedding.Model,
		Timeout:  time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Provider: "embedding",
		Logger:   logger,
	})

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Provider: "llm",
		Logger:   logger,
	})

	// Fail fast before touching the index: every later stage needs the
	// embedding service.
	if err := embedder.HealthCheck(ctx); err != nil {
		return domain.AnswerRecord{}, fmt.Errorf("embedding service health check: %w", err)
	}

	indexer := ingestuc.New(
		corpus.NewReader(logger),
		repo,
		embedder,
		ingestuc.Options{
			CorpusPath:   cfg.Ingest.CorpusPath,
			Collection:   cfg.Ingest.Collection,
			VectorSize:   cfg.Embedding.Dimensions,
			MaxDocuments: cfg.Ingest.MaxDocuments,
			BatchSize:    cfg.Embedding.BatchSize,
		},
		logger,
	)

	if _, err := indexer.EnsureIndex(ctx); err != nil {
		return domain.AnswerRecord{}, fmt.Errorf("ensure index: %w", err)
	}

	retriever := searchuc.New(repo, embedder, cfg.Ingest.Collection, logger)

	pipeline := raguc.New(retriever, completer, raguc.Options{
		Model:     cfg.LLM.Model,
		EvalModel: cfg.LLM.EvalModel,
		TopK:      cfg.Search.TopK,
		Pricing: domain.Pricing{
			PromptPer1K:     cfg.Pricing.PromptPer1K,
			CompletionPer1K: cfg.Pricing.CompletionPer1K,
		},
	}, logger)

	return pipeline.Run(ctx, query)
}

func serveMetrics(port int, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info("Serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("Metrics listener stopped", zap.Error(err))
	}
}
