package domain

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	result EmbeddingResult
	err    error
	got    []string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.got = append(s.got, text)
	return s.result, s.err
}

func TestBatchFallback_Success(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{
		Embedding:    []float32{0.1, 0.2},
		PromptTokens: 5,
		TotalTokens:  5,
	}}
	res, err := BatchFallback(context.Background(), inner, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.TotalTokens != 15 {
		t.Errorf("expected TotalTokens=15, got %d", res.TotalTokens)
	}
	if res.PromptTokens != 15 {
		t.Errorf("expected PromptTokens=15, got %d", res.PromptTokens)
	}
	if len(inner.got) != 3 || inner.got[2] != "c" {
		t.Errorf("expected per-text calls, got %v", inner.got)
	}
}

func TestBatchFallback_Error(t *testing.T) {
	innerErr := errors.New("fail")
	inner := &stubEmbedder{err: innerErr}
	_, err := BatchFallback(context.Background(), inner, []string{"a"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}

func TestBatchFallback_Empty(t *testing.T) {
	inner := &stubEmbedder{}
	res, err := BatchFallback(context.Background(), inner, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 0 {
		t.Errorf("expected 0 embeddings, got %d", len(res.Embeddings))
	}
}

func TestUsage_ContextRoundTrip(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())

	got := UsageFromContext(ctx)
	if got != u {
		t.Fatal("expected the same collector from context")
	}

	got.AddEmbeddingTokens(7)
	got.AddEmbeddingTokens(3)
	got.AddGenerationTokens(40)

	if u.EmbeddingTokens != 10 {
		t.Errorf("expected EmbeddingTokens=10, got %d", u.EmbeddingTokens)
	}
	if u.EmbeddingCalls != 2 {
		t.Errorf("expected EmbeddingCalls=2, got %d", u.EmbeddingCalls)
	}
	if u.GenerationTokens != 40 {
		t.Errorf("expected GenerationTokens=40, got %d", u.GenerationTokens)
	}
	if u.GenerationCalls != 1 {
		t.Errorf("expected GenerationCalls=1, got %d", u.GenerationCalls)
	}
}

func TestUsage_MissingFromContext(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatalf("expected nil collector, got %+v", u)
	}
	// Writes through a nil collector are no-ops.
	u.AddEmbeddingTokens(5)
	u.AddGenerationTokens(5)
}
