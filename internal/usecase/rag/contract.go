package rag

import (
	"context"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Retriever returns the documents most similar to the query.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

// Completer is the language model service: one synchronous request, first
// completion returned verbatim with token usage.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, domain.TokenStats, error)
}
