package smartdoc

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gurram-lahari/SmartDoc-AI/internal/config"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	apiKey             string
	baseURL            string
	chatModel          string
	embeddingModel     string
	embeddingDims      int
	temperature        float32
	requestTimeout     time.Duration
	chunkSize          int
	chunkOverlap       int
	chunkSeparator     string
	topK               int
	contextTokenBudget int
	fetchTimeout       time.Duration
	maxDocumentMB      int
	logger             *zap.Logger
	embedder           Embedder
}

// defaultClientConfig mirrors the server's configuration defaults.
func defaultClientConfig() clientConfig {
	var c config.Config
	c.ApplyDefaults()
	return clientConfig{
		apiKey:             os.Getenv("GEMINI_API_KEY"),
		baseURL:            c.LLM.BaseURL,
		chatModel:          c.LLM.ChatModel,
		embeddingModel:     c.LLM.EmbeddingModel,
		embeddingDims:      c.LLM.EmbeddingDimensions,
		temperature:        c.LLM.Temperature,
		requestTimeout:     time.Duration(c.LLM.RequestTimeoutSec) * time.Second,
		chunkSize:          c.Pipeline.ChunkSize,
		chunkOverlap:       c.Pipeline.ChunkOverlap,
		chunkSeparator:     c.Pipeline.ChunkSeparator,
		topK:               c.Pipeline.TopK,
		contextTokenBudget: c.Pipeline.ContextTokenBudget,
		fetchTimeout:       time.Duration(c.Document.FetchTimeoutSec) * time.Second,
		maxDocumentMB:      c.Document.MaxSizeMB,
	}
}

// WithAPIKey sets the model provider API key. Defaults to GEMINI_API_KEY.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithBaseURL points the client at a different OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithChatModel sets the completion model.
func WithChatModel(model string) Option {
	return func(c *clientConfig) {
		c.chatModel = model
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) Option {
	return func(c *clientConfig) {
		c.embeddingModel = model
	}
}

// WithEmbeddingDimensions requests reduced-dimension embeddings.
// Zero keeps the provider default.
func WithEmbeddingDimensions(dims int) Option {
	return func(c *clientConfig) {
		c.embeddingDims = dims
	}
}

// WithTemperature sets the sampling temperature for all completions.
func WithTemperature(t float32) Option {
	return func(c *clientConfig) {
		c.temperature = t
	}
}

// WithRequestTimeout bounds each model provider call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.requestTimeout = d
	}
}

// WithChunking sets the document split size and overlap, in characters.
func WithChunking(size, overlap int) Option {
	return func(c *clientConfig) {
		c.chunkSize = size
		c.chunkOverlap = overlap
	}
}

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) Option {
	return func(c *clientConfig) {
		c.topK = k
	}
}

// WithContextTokenBudget caps the token size of the prompt context.
func WithContextTokenBudget(n int) Option {
	return func(c *clientConfig) {
		c.contextTokenBudget = n
	}
}

// WithDocumentLimits bounds the document download.
func WithDocumentLimits(fetchTimeout time.Duration, maxMB int) Option {
	return func(c *clientConfig) {
		c.fetchTimeout = fetchTimeout
		c.maxDocumentMB = maxMB
	}
}

// WithLogger attaches a logger to the pipeline. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithEmbedder replaces the hosted embedding model with a custom source.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}
