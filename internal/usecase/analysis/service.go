// Package analysis runs the document question-answering pipeline: fetch a
// document, chunk and embed it into a request-scoped index, then answer each
// question through retrieval-augmented generation.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gurram-lahari/SmartDoc-AI/internal/chunker"
	"github.com/gurram-lahari/SmartDoc-AI/internal/domain"
	"github.com/gurram-lahari/SmartDoc-AI/internal/index"
	"github.com/gurram-lahari/SmartDoc-AI/internal/logger"
	"github.com/gurram-lahari/SmartDoc-AI/internal/metrics"
)

// Fixed answers for per-question degradation. These are part of the public
// API contract, clients match on them.
const (
	// NoRelevantInfo is returned when retrieval finds nothing for a question.
	NoRelevantInfo = "Could not find any relevant information for this query in the document."
	// GenerationFallback is returned when the model call for a question fails.
	GenerationFallback = "Failed to process the document query request."
)

// summaryQuestion drives Summarize through the regular answer pipeline.
const summaryQuestion = "Provide a comprehensive summary of this document including key points, main topics, and important details."

// contextSeparator joins retrieved chunks inside the answer prompt.
const contextSeparator = "\n\n---\n\n"

// Options tunes retrieval and generation.
type Options struct {
	// TopK is the number of chunks retrieved per question.
	TopK int
	// ContextTokenBudget caps the token size of the prompt context.
	ContextTokenBudget int
	// Temperature is passed through to every completion.
	Temperature float32
}

// Result is the outcome of analyzing one document against a set of questions.
type Result struct {
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

// Timing breaks down where a request spent its time.
type Timing struct {
	Total     time.Duration
	Document  time.Duration
	Questions time.Duration
}

// Service orchestrates the fetch, index and answer steps. All state is scoped
// to a single Analyze call; nothing from one document leaks into the next.
type Service struct {
	fetcher  Fetcher
	splitter chunker.Splitter
	embedder Embedder
	gen      Generator
	tokens   TokenCounter
	opts     Options
}

// New creates the analysis service.
func New(fetcher Fetcher, splitter chunker.Splitter, embedder Embedder, gen Generator, tokens TokenCounter, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.ContextTokenBudget <= 0 {
		opts.ContextTokenBudget = 6000
	}
	return &Service{
		fetcher:  fetcher,
		splitter: splitter,
		embedder: embedder,
		gen:      gen,
		tokens:   tokens,
		opts:     opts,
	}
}

// Analyze fetches the document at docURL and answers every question against
// it. Answers line up with questions by position. Document and embedding
// failures abort the whole request; a generation failure degrades only the
// affected question to GenerationFallback.
func (s *Service) Analyze(ctx context.Context, docURL string, questions []string) (Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	doc, chunks, ix, err := s.prepare(ctx, docURL)
	if err != nil {
		metrics.DocumentsProcessedTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}
	metrics.DocumentsProcessedTotal.WithLabelValues("ok").Inc()
	docReady := time.Now()

	log.Info("document indexed",
		zap.String("source", doc.Source),
		zap.Int("pages", doc.PageCount()),
		zap.Int("chunks", len(chunks)),
		zap.Int("characters", doc.CharCount()),
		zap.Duration("took", docReady.Sub(start)),
	)

	answers := make([]string, 0, len(questions))
	for _, q := range questions {
		a, err := s.answer(ctx, ix, q)
		if err != nil {
			return Result{}, err
		}
		answers = append(answers, a)
	}

	end := time.Now()
	return Result{
		Answers: answers,
		Document: DocumentInfo{
			Source:     doc.Source,
			Pages:      doc.PageCount(),
			Chunks:     len(chunks),
			Characters: doc.CharCount(),
		},
		ModelUsed: s.gen.Model(),
		Timing: Timing{
			Total:     end.Sub(start),
			Document:  docReady.Sub(start),
			Questions: end.Sub(docReady),
		},
	}, nil
}

// Summarize answers a fixed summary question about the document.
func (s *Service) Summarize(ctx context.Context, docURL string) (string, error) {
	res, err := s.Analyze(ctx, docURL, []string{summaryQuestion})
	if err != nil {
		return "", err
	}
	return res.Answers[0], nil
}

// prepare builds the per-request index from the document at docURL.
func (s *Service) prepare(ctx context.Context, docURL string) (domain.Document, []domain.Chunk, *index.Index, error) {
	doc, err := s.fetcher.Fetch(ctx, docURL)
	if err != nil {
		return domain.Document{}, nil, nil, fmt.Errorf("fetch document: %w", err)
	}

	chunks := s.splitter.SplitDocument(doc)
	if len(chunks) == 0 {
		return domain.Document{}, nil, nil, fmt.Errorf("%w: document produced no chunks", domain.ErrParse)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	batch, err := s.batchEmbed(ctx, texts)
	if err != nil {
		return domain.Document{}, nil, nil, fmt.Errorf("embed document: %w", err)
	}

	ix, err := index.Build(chunks, batch.Embeddings)
	if err != nil {
		return domain.Document{}, nil, nil, fmt.Errorf("build index: %w", err)
	}
	return doc, chunks, ix, nil
}

// batchEmbed uses the embedder's native batch API when it has one.
func (s *Service) batchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return res, nil
	}
	res, err := domain.BatchFallback(ctx, s.embedder, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	return res, nil
}

// answer runs retrieval and generation for one question. Embedding and index
// errors abort the request; generation errors degrade to a fixed answer.
func (s *Service) answer(ctx context.Context, ix *index.Index, question string) (string, error) {
	log := logger.FromContext(ctx)

	topic := s.extractTopic(ctx, question)

	emb, err := s.embedder.Embed(ctx, topic)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	matches, err := ix.Search(emb.Embedding, s.opts.TopK)
	if err != nil {
		return "", fmt.Errorf("search index: %w", err)
	}
	if len(matches) == 0 {
		metrics.QuestionsAnsweredTotal.WithLabelValues("no_context").Inc()
		return NoRelevantInfo, nil
	}

	res, err := s.gen.Complete(ctx, domain.CompletionRequest{
		System:      analystRole,
		Prompt:      answerPrompt(s.buildContext(matches), question),
		Temperature: s.opts.Temperature,
	})
	if err != nil || res.Text == "" {
		log.Warn("answer generation failed",
			zap.String("question", question),
			zap.Error(err),
		)
		metrics.QuestionsAnsweredTotal.WithLabelValues("fallback").Inc()
		return GenerationFallback, nil
	}

	metrics.QuestionsAnsweredTotal.WithLabelValues("answered").Inc()
	return res.Text, nil
}

// extractTopic asks the model for the core retrieval topic of the question.
// Any failure falls back to the raw question text.
func (s *Service) extractTopic(ctx context.Context, question string) string {
	res, err := s.gen.Complete(ctx, domain.CompletionRequest{
		Prompt:      topicPrompt(question),
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		logger.FromContext(ctx).Debug("topic extraction failed", zap.Error(err))
		return question
	}
	topic, ok := topicFromJSON(res.Text)
	if !ok {
		return question
	}
	return topic
}

// buildContext joins match texts under the token budget. The best match is
// always included even when it alone exceeds the budget.
func (s *Service) buildContext(matches []index.Match) string {
	parts := make([]string, 0, len(matches))
	used := 0
	for _, m := range matches {
		cost := s.tokens.Count(m.Chunk.Text)
		if len(parts) > 0 && used+cost > s.opts.ContextTokenBudget {
			break
		}
		parts = append(parts, m.Chunk.Text)
		used += cost
	}
	return strings.Join(parts, contextSeparator)
}
