package ingest

import (
	"context"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Corpus loads the document corpus, already stripped of incomplete rows.
type Corpus interface {
	Load(path string) ([]domain.Document, error)
}

// Index is the collection side of the vector index contract.
type Index interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string, vectorSize int) error
	UpsertPoints(ctx context.Context, name string, docs []domain.Document, vectors [][]float32) error
}

// Embedder vectorizes document texts. Providers that also implement
// domain.BatchEmbedder are used one API call per batch; otherwise the
// service falls back to one call per text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
