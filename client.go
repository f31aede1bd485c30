// Package smartdoc embeds the document question-answering pipeline in a Go
// program: fetch a document by URL, index it in memory, and answer questions
// against it with hosted models. The HTTP service under cmd/smartdoc wraps
// this same pipeline.
package smartdoc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gurram-lahari/SmartDoc-AI/internal/chunker"
	"github.com/gurram-lahari/SmartDoc-AI/internal/domain"
	"github.com/gurram-lahari/SmartDoc-AI/internal/loader"
	"github.com/gurram-lahari/SmartDoc-AI/internal/tokenizer"
	openaiTransport "github.com/gurram-lahari/SmartDoc-AI/internal/transport/openai"
	analysisuc "github.com/gurram-lahari/SmartDoc-AI/internal/usecase/analysis"
	healthuc "github.com/gurram-lahari/SmartDoc-AI/internal/usecase/health"
)

// Client is the smartdoc SDK entry point.
type Client struct {
	analysis *analysisuc.Service
	health   *healthuc.Service
	model    string
}

// New creates a smartdoc Client.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.apiKey == "" {
		return nil, errors.New("smartdoc: api key required (use WithAPIKey or set GEMINI_API_KEY)")
	}

	counter, err := tokenizer.New()
	if err != nil {
		// Offline builds still work, with estimated token counts.
		counter = tokenizer.Estimator()
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	providerCfg := &openaiTransport.Config{
		APIKey:  cfg.apiKey,
		BaseURL: cfg.baseURL,
		Timeout: cfg.requestTimeout,
		Logger:  logger,
	}
	chat := openaiTransport.NewChat(providerCfg, cfg.chatModel)

	var embedder analysisuc.Embedder = openaiTransport.NewEmbedder(providerCfg, cfg.embeddingModel, cfg.embeddingDims)
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}

	docs := loader.New(cfg.fetchTimeout, cfg.maxDocumentMB)
	splitter := chunker.New(cfg.chunkSize, cfg.chunkOverlap, cfg.chunkSeparator)

	svc := analysisuc.New(docs, splitter, embedder, chat, counter, analysisuc.Options{
		TopK:               cfg.topK,
		ContextTokenBudget: cfg.contextTokenBudget,
		Temperature:        cfg.temperature,
	})

	return &Client{
		analysis: svc,
		health:   healthuc.New(embeddingChecker(embedder, cfg.embedder), chat),
		model:    cfg.chatModel,
	}, nil
}

// embeddingChecker finds a probeable face of the active embedder. Custom
// embedders join the health report only when they implement HealthCheck.
func embeddingChecker(active analysisuc.Embedder, custom Embedder) healthuc.Checker {
	if custom != nil {
		if hc, ok := custom.(healthuc.Checker); ok {
			return hc
		}
		return nil
	}
	hc, _ := active.(healthuc.Checker)
	return hc
}

// AnalysisResult carries the answers and document metadata for one run.
type AnalysisResult struct {
	Answers   []string
	Document  DocumentInfo
	ModelUsed string
	Timing    Timing
}

// DocumentInfo describes the processed document.
type DocumentInfo struct {
	Source     string
	Pages      int
	Chunks     int
	Characters int
}

// Timing breaks down where a run spent its time.
type Timing struct {
	Total     time.Duration
	Document  time.Duration
	Questions time.Duration
}

// Analyze fetches the document at documentURL and answers every question
// against it. Answers line up with questions by position.
func (c *Client) Analyze(ctx context.Context, documentURL string, questions []string) (*AnalysisResult, error) {
	res, err := c.analysis.Analyze(ctx, documentURL, questions)
	if err != nil {
		return nil, fmt.Errorf("smartdoc: analyze: %w", err)
	}
	return &AnalysisResult{
		Answers: res.Answers,
		Document: DocumentInfo{
			Source:     res.Document.Source,
			Pages:      res.Document.Pages,
			Chunks:     res.Document.Chunks,
			Characters: res.Document.Characters,
		},
		ModelUsed: res.ModelUsed,
		Timing: Timing{
			Total:     res.Timing.Total,
			Document:  res.Timing.Document,
			Questions: res.Timing.Questions,
		},
	}, nil
}

// QuickSummary answers a fixed comprehensive-summary question about the
// document and returns the single answer.
func (c *Client) QuickSummary(ctx context.Context, documentURL string) (string, error) {
	summary, err := c.analysis.Summarize(ctx, documentURL)
	if err != nil {
		return "", fmt.Errorf("smartdoc: summarize: %w", err)
	}
	return summary, nil
}

// HealthReport aggregates provider probe results.
type HealthReport struct {
	Status string
	Checks map[string]string
}

// Health probes the configured model providers.
func (c *Client) Health(ctx context.Context) HealthReport {
	report := c.health.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthReport{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Embedder supplies embeddings from a custom source in place of the hosted
// model, for example a local model server.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries an embedding vector and its token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// embedderAdapter wraps the public Embedder to satisfy the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
