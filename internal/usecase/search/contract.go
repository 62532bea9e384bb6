package search

import (
	"context"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Index is the query side of the vector index contract.
type Index interface {
	Query(ctx context.Context, name string, vector []float32, limit int) ([]domain.SearchResult, error)
}

// Embedder vectorizes the query text. Must be the same model used at
// ingestion or scores are meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
