package ingest

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
)

func newTestService(corpus *mockCorpus, index *mockIndex, embedder Embedder, opts Options) *Service {
	if opts.Collection == "" {
		opts.Collection = "medicalQA-rag"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 512
	}
	if opts.MaxDocuments == 0 {
		opts.MaxDocuments = 500
	}
	return New(corpus, index, embedder, opts, zap.NewNop())
}

func TestEnsureIndex_SkipsWhenCollectionExists(t *testing.T) {
	corpus := &mockCorpus{docs: makeDocs(3)}
	index := &mockIndex{exists: true}
	embedder := &mockEmbedder{}

	ran, err := newTestService(corpus, index, embedder, Options{}).EnsureIndex(context.Background())
	if err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if ran {
		t.Error("expected no ingestion when collection exists")
	}
	if corpus.loaded {
		t.Error("corpus must not be loaded when collection exists")
	}
	if index.createCalled || index.upsertCalled != 0 {
		t.Error("no index writes expected when collection exists")
	}
}

func TestEnsureIndex_IndexesCorpus(t *testing.T) {
	corpus := &mockCorpus{docs: makeDocs(5)}
	index := &mockIndex{}
	embedder := &mockEmbedder{}

	ran, err := newTestService(corpus, index, embedder, Options{BatchSize: 2}).EnsureIndex(context.Background())
	if err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if !ran {
		t.Error("expected ingestion to run")
	}

	if !index.createCalled || index.createdSize != 512 {
		t.Errorf("create: called=%v size=%d", index.createCalled, index.createdSize)
	}
	if index.upsertCalled != 1 {
		t.Errorf("upsert called %d times, want a single call", index.upsertCalled)
	}
	if len(index.upsertDocs) != 5 || len(index.upsertVecs) != 5 {
		t.Fatalf("upserted %d docs / %d vectors, want 5/5", len(index.upsertDocs), len(index.upsertVecs))
	}
	for i, doc := range index.upsertDocs {
		if doc.ID != uint64(i) {
			t.Errorf("doc[%d].ID = %d, want sequential ids from 0", i, doc.ID)
		}
	}
	// 5 docs at batch size 2 -> 2+2+1
	if len(embedder.batches) != 3 {
		t.Errorf("embedded in %d batches, want 3", len(embedder.batches))
	}
}

func TestEnsureIndex_SingleEmbedFallback(t *testing.T) {
	corpus := &mockCorpus{docs: makeDocs(5)}
	index := &mockIndex{}
	embedder := &singleEmbedder{}

	ran, err := newTestService(corpus, index, embedder, Options{BatchSize: 2}).
		EnsureIndex(context.Background())
	if err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if !ran {
		t.Error("expected ingestion to run")
	}
	if embedder.calls != 5 {
		t.Errorf("made %d embed calls, want one per document", embedder.calls)
	}
	if len(index.upsertVecs) != 5 {
		t.Errorf("upserted %d vectors, want 5", len(index.upsertVecs))
	}
}

func TestEnsureIndex_SingleEmbedFallbackError(t *testing.T) {
	corpus := &mockCorpus{docs: makeDocs(2)}
	index := &mockIndex{}
	embedder := &singleEmbedder{err: domain.ErrEmbeddingProvider}

	_, err := newTestService(corpus, index, embedder, Options{}).EnsureIndex(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
	if index.upsertCalled != 0 {
		t.Error("no upsert expected after embedding failure")
	}
}

func TestEnsureIndex_CapsCorpus(t *testing.T) {
	corpus := &mockCorpus{docs: makeDocs(12)}
	index := &mockIndex{}

	_, err := newTestService(corpus, index, &mockEmbedder{}, Options{MaxDocuments: 10}).
		EnsureIndex(context.Background())
	if err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if len(index.upsertDocs) != 10 {
		t.Errorf("upserted %d docs, want cap of 10", len(index.upsertDocs))
	}
}

func TestEnsureIndex_ExistsCheckError(t *testing.T) {
	index := &mockIndex{existsErr: domain.ErrIndexUnavailable}

	_, err := newTestService(&mockCorpus{}, index, &mockEmbedder{}, Options{}).
		EnsureIndex(context.Background())
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestEnsureIndex_CorpusError(t *testing.T) {
	corpus := &mockCorpus{err: domain.ErrCorpusRead}

	_, err := newTestService(corpus, &mockIndex{}, &mockEmbedder{}, Options{}).
		EnsureIndex(context.Background())
	if !errors.Is(err, domain.ErrCorpusRead) {
		t.Fatalf("expected ErrCorpusRead, got %v", err)
	}
}

func TestEnsureIndex_EmbedError(t *testing.T) {
	corpus := &mockCorpus{docs: makeDocs(2)}
	index := &mockIndex{}
	embedder := &mockEmbedder{err: domain.ErrEmbeddingProvider}

	_, err := newTestService(corpus, index, embedder, Options{}).EnsureIndex(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
	if index.upsertCalled != 0 {
		t.Error("no upsert expected after embedding failure")
	}
}
