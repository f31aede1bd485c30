// Package chi exposes the document analysis pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gurram-lahari/SmartDoc-AI/internal/domain"
	analysisuc "github.com/gurram-lahari/SmartDoc-AI/internal/usecase/analysis"
	healthuc "github.com/gurram-lahari/SmartDoc-AI/internal/usecase/health"
	"github.com/gurram-lahari/SmartDoc-AI/internal/version"
)

// Client-facing failure messages. The document ones predate this service
// and are matched on by existing clients.
const (
	msgDocumentFailed    = "Failed to retrieve or read the document."
	msgVectorStoreFailed = "Failed to create the vector store for document analysis."
	msgEmbeddingFailed   = "The embedding service request failed."
	msgGenerationFailed  = "The language model request failed."
)

// serviceName labels the informational endpoints.
const serviceName = "SmartDoc AI - Intelligent Document Assistant"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Info describes the running deployment for the informational endpoints.
type Info struct {
	ChatModel        string
	EmbeddingModel   string
	MaxDocumentMB    int
	APIKeyConfigured bool
}

// Server holds the HTTP handlers for the analysis API.
type Server struct {
	analysis      *analysisuc.Service
	health        *healthuc.Service
	info          Info
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(analysis *analysisuc.Service, health *healthuc.Service, info Info, logger *zap.Logger) *Server {
	s := &Server{
		analysis: analysis,
		health:   health,
		info:     info,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrFetch, http.StatusBadRequest, msgDocumentFailed),
		sentinelHandler(domain.ErrUnsupportedContent, http.StatusBadRequest, msgDocumentFailed),
		sentinelHandler(domain.ErrParse, http.StatusBadRequest, msgDocumentFailed),
		sentinelHandler(domain.ErrRetrieval, http.StatusBadRequest, msgVectorStoreFailed),
		sentinelHandler(domain.ErrEmbedding, http.StatusBadGateway, msgEmbeddingFailed),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, msgGenerationFailed),
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/hackrx/run", s.AnalyzeDocument)
	r.Post("/api/quick-summary", s.QuickSummary)
	r.Get("/", s.Root)
	r.Get("/api/health", s.HealthCheck)
	r.Get("/api/supported-formats", s.SupportedFormats)
	r.Get("/metrics", s.Metrics)
}

type analyzeRequest struct {
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}

type analyzeResponse struct {
	Success      bool         `json:"success"`
	Answers      []string     `json:"answers"`
	DocumentInfo documentInfo `json:"document_info"`
	ModelUsed    string       `json:"model_used"`
	Timing       timingInfo   `json:"timing"`
}

type documentInfo struct {
	Source     string `json:"source"`
	Pages      int    `json:"pages"`
	Chunks     int    `json:"chunks"`
	Characters int    `json:"characters"`
}

type timingInfo struct {
	TotalMS     int64 `json:"total_ms"`
	DocumentMS  int64 `json:"document_ms"`
	QuestionsMS int64 `json:"questions_ms"`
}

// AnalyzeDocument handles POST /hackrx/run.
func (s *Server) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Documents) == "" {
		writeError(w, http.StatusBadRequest, "The documents field is required.")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.analysis.Analyze(ctx, req.Documents, req.Questions)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Success: true,
		Answers: res.Answers,
		DocumentInfo: documentInfo{
			Source:     res.Document.Source,
			Pages:      res.Document.Pages,
			Chunks:     res.Document.Chunks,
			Characters: res.Document.Characters,
		},
		ModelUsed: res.ModelUsed,
		Timing: timingInfo{
			TotalMS:     res.Timing.Total.Milliseconds(),
			DocumentMS:  res.Timing.Document.Milliseconds(),
			QuestionsMS: res.Timing.Questions.Milliseconds(),
		},
	})
}

type summaryRequest struct {
	Documents string `json:"documents"`
}

type summaryResponse struct {
	Success     bool   `json:"success"`
	Summary     string `json:"summary"`
	DocumentURL string `json:"document_url"`
}

// QuickSummary handles POST /api/quick-summary.
func (s *Server) QuickSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Documents) == "" {
		writeError(w, http.StatusBadRequest, "The documents field is required.")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	summary, err := s.analysis.Summarize(ctx, req.Documents)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, summaryResponse{
		Success:     true,
		Summary:     summary,
		DocumentURL: req.Documents,
	})
}

type rootResponse struct {
	Service      string   `json:"service"`
	Status       string   `json:"status"`
	Version      string   `json:"version"`
	AIModel      string   `json:"ai_model"`
	Features     []string `json:"features"`
	MainEndpoint string   `json:"main_endpoint"`
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Service:      serviceName,
		Status:       "online",
		Version:      version.Version,
		AIModel:      s.info.ChatModel,
		Features:     []string{"PDF Analysis", "AI Q&A", "Vector Search", "Batch Questions"},
		MainEndpoint: "/hackrx/run",
	})
}

type healthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Checks       map[string]string `json:"checks"`
	Capabilities map[string]bool   `json:"capabilities"`
	AIModels     map[string]string `json:"ai_models"`
	Environment  map[string]bool   `json:"environment"`
}

// HealthCheck handles GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Service: "SmartDoc AI",
		Checks:  checks,
		Capabilities: map[string]bool{
			"pdf_processing":  true,
			"ai_analysis":     true,
			"vector_search":   true,
			"batch_questions": true,
		},
		AIModels: map[string]string{
			"language_model": s.info.ChatModel,
			"embeddings":     s.info.EmbeddingModel,
			"vector_store":   "in-memory exact nearest neighbor",
		},
		Environment: map[string]bool{
			"api_key_configured": s.info.APIKeyConfigured,
		},
	})
}

type formatsResponse struct {
	SupportedFormats       []string          `json:"supported_formats"`
	ProcessingCapabilities map[string]string `json:"processing_capabilities"`
	Limitations            map[string]string `json:"limitations"`
}

// SupportedFormats handles GET /api/supported-formats.
func (s *Server) SupportedFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, formatsResponse{
		SupportedFormats: []string{"PDF", "plain text"},
		ProcessingCapabilities: map[string]string{
			"text_extraction": "page-by-page text extraction",
			"large_documents": "bounded only by the configured size limit",
			"multilingual":    "any language the models support",
		},
		Limitations: map[string]string{
			"image_only_pdfs":    "scanned PDFs without a text layer are not supported",
			"password_protected": "password-protected PDFs are not supported",
			"max_size":           strconv.Itoa(s.info.MaxDocumentMB) + " MB",
		},
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	if usage == nil {
		return
	}
	if usage.EmbeddingCalls > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.EmbeddingTokens))
	}
	if usage.GenerationCalls > 0 {
		w.Header().Set("X-Generation-Tokens", strconv.Itoa(usage.GenerationTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   message,
	})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error.")
}
