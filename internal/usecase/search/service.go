// Package search retrieves the documents most similar to a query.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Service is the retriever: it embeds the query text and runs one KNN round
// trip against the collection. No retries, no pagination.
type Service struct {
	index      Index
	embedder   Embedder
	collection string
	logger     *zap.Logger
}

// New creates a search service bound to one collection.
func New(index Index, embedder Embedder, collection string, logger *zap.Logger) *Service {
	return &Service{index: index, embedder: embedder, collection: collection, logger: logger}
}

// Search returns up to topK matches ranked by descending similarity, each
// with its stored payload.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.index.Query(ctx, s.collection, emb.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("knn query: %w", err)
	}

	s.logger.Debug("retrieved documents",
		zap.String("collection", s.collection),
		zap.Int("hits", len(results)))
	return results, nil
}
