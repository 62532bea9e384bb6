package ingest

import (
	"context"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// mockCorpus implements the Corpus contract for tests.
type mockCorpus struct {
	docs   []domain.Document
	err    error
	loaded bool
}

func (m *mockCorpus) Load(_ string) ([]domain.Document, error) {
	m.loaded = true
	return m.docs, m.err
}

// mockIndex implements the Index contract for tests.
type mockIndex struct {
	exists    bool
	existsErr error
	createErr error
	upsertErr error

	createCalled bool
	createdSize  int
	upsertCalled int
	upsertDocs   []domain.Document
	upsertVecs   [][]float32
}

func (m *mockIndex) CollectionExists(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockIndex) CreateCollection(_ context.Context, _ string, vectorSize int) error {
	m.createCalled = true
	m.createdSize = vectorSize
	return m.createErr
}

func (m *mockIndex) UpsertPoints(_ context.Context, _ string, docs []domain.Document, vectors [][]float32) error {
	m.upsertCalled++
	m.upsertDocs = docs
	m.upsertVecs = vectors
	return m.upsertErr
}

// mockEmbedder implements both the single and batch embedding contracts, so
// the service takes the batch path.
type mockEmbedder struct {
	err     error
	batches [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{float32(len(text))}, PromptTokens: 1, TotalTokens: 1}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	m.batches = append(m.batches, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return domain.BatchEmbeddingResult{Embeddings: vectors, PromptTokens: len(texts), TotalTokens: len(texts)}, nil
}

// singleEmbedder implements only the single-text contract, forcing the
// per-text fallback.
type singleEmbedder struct {
	err   error
	calls int
}

func (s *singleEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	s.calls++
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: []float32{float32(len(text))}, PromptTokens: 1, TotalTokens: 1}, nil
}

func makeDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.Document{
			Text:      "answer",
			Source:    "source",
			FocusArea: "area",
		}
	}
	return docs
}
