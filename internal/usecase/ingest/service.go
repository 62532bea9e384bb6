// Package ingest builds the semantic vector index from the reference corpus.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Options configures one ingestion run.
type Options struct {
	CorpusPath   string
	Collection   string
	VectorSize   int
	MaxDocuments int // cap on the working set; rows beyond it are excluded
	BatchSize    int // texts per embedding API call
}

// Service is the corpus indexer.
type Service struct {
	corpus   Corpus
	index    Index
	embedder Embedder
	opts     Options
	logger   *zap.Logger
}

// New creates an ingestion service.
func New(corpus Corpus, index Index, embedder Embedder, opts Options, logger *zap.Logger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	return &Service{corpus: corpus, index: index, embedder: embedder, opts: opts, logger: logger}
}

// EnsureIndex makes the collection ready for retrieval. If the collection
// already exists nothing is re-indexed, even if the corpus changed: delete
// and recreate the collection to refresh data. Returns whether ingestion
// actually ran.
func (s *Service) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := s.index.CollectionExists(ctx, s.opts.Collection)
	if err != nil {
		return false, fmt.Errorf("check collection: %w", err)
	}
	if exists {
		s.logger.Info("collection exists, skipping ingestion",
			zap.String("collection", s.opts.Collection))
		return false, nil
	}

	docs, err := s.corpus.Load(s.opts.CorpusPath)
	if err != nil {
		return false, fmt.Errorf("load corpus: %w", err)
	}

	if len(docs) > s.opts.MaxDocuments {
		s.logger.Warn("corpus capped to bound indexing cost",
			zap.Int("max_documents", s.opts.MaxDocuments),
			zap.Int("excluded", len(docs)-s.opts.MaxDocuments))
		docs = docs[:s.opts.MaxDocuments]
	}

	// Sequential ids in corpus order, starting at 0.
	for i := range docs {
		docs[i].ID = uint64(i)
	}

	if err := s.index.CreateCollection(ctx, s.opts.Collection, s.opts.VectorSize); err != nil {
		return false, fmt.Errorf("create collection: %w", err)
	}

	vectors, err := s.embedDocuments(ctx, docs)
	if err != nil {
		return false, err
	}

	if err := s.index.UpsertPoints(ctx, s.opts.Collection, docs, vectors); err != nil {
		return false, fmt.Errorf("upsert documents: %w", err)
	}

	s.logger.Info("corpus indexed",
		zap.String("collection", s.opts.Collection),
		zap.Int("documents", len(docs)))
	return true, nil
}

func (s *Service) embedDocuments(ctx context.Context, docs []domain.Document) ([][]float32, error) {
	vectors := make([][]float32, 0, len(docs))
	batcher, hasBatch := s.embedder.(domain.BatchEmbedder)

	for start := 0; start < len(docs); start += s.opts.BatchSize {
		end := start + s.opts.BatchSize
		if end > len(docs) {
			end = len(docs)
		}

		texts := make([]string, 0, end-start)
		for _, doc := range docs[start:end] {
			texts = append(texts, doc.Text)
		}

		var (
			res domain.BatchEmbeddingResult
			err error
		)
		if hasBatch {
			res, err = batcher.BatchEmbed(ctx, texts)
		} else {
			res, err = domain.BatchFallback(ctx, s.embedder, texts)
		}
		if err != nil {
			return nil, fmt.Errorf("embed documents [%d:%d]: %w", start, end, err)
		}
		vectors = append(vectors, res.Embeddings...)
	}

	return vectors, nil
}
