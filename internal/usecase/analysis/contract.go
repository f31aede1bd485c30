package analysis

import (
	"context"

	"github.com/gurram-lahari/SmartDoc-AI/internal/domain"
)

// Fetcher retrieves a document from a URL and parses it into pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.Document, error)
}

// Embedder turns text into a vector. Implementations that also satisfy
// domain.BatchEmbedder get their batch API used for document chunks.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces chat completions.
type Generator interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
	Model() string
}

// TokenCounter counts tokens for context budgeting.
type TokenCounter interface {
	Count(text string) int
}
