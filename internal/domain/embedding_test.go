package domain

import (
	"context"
	"errors"
	"testing"
)

type singleEmbedder struct {
	failAt int // index that returns an error; -1 for never
	calls  int
}

func (s *singleEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	i := s.calls
	s.calls++
	if i == s.failAt {
		return EmbeddingResult{}, errors.New("provider down")
	}
	return EmbeddingResult{
		Embedding:    []float32{float32(len(text))},
		PromptTokens: 2,
		TotalTokens:  2,
	}, nil
}

func TestBatchFallback(t *testing.T) {
	emb := &singleEmbedder{failAt: -1}

	res, err := BatchFallback(context.Background(), emb, []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("BatchFallback failed: %v", err)
	}

	if emb.calls != 3 {
		t.Errorf("made %d calls, want one per text", emb.calls)
	}
	if len(res.Embeddings) != 3 || res.Embeddings[2][0] != 3 {
		t.Errorf("embeddings = %v, want input order preserved", res.Embeddings)
	}
	if res.PromptTokens != 6 || res.TotalTokens != 6 {
		t.Errorf("usage = %d/%d, want summed across calls", res.PromptTokens, res.TotalTokens)
	}
}

func TestBatchFallback_StopsOnError(t *testing.T) {
	emb := &singleEmbedder{failAt: 1}

	_, err := BatchFallback(context.Background(), emb, []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("expected error from failing embed call")
	}
	if emb.calls != 2 {
		t.Errorf("made %d calls, want stop at first failure", emb.calls)
	}
}
