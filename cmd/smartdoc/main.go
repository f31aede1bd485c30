package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gurram-lahari/SmartDoc-AI/internal/chunker"
	"github.com/gurram-lahari/SmartDoc-AI/internal/config"
	"github.com/gurram-lahari/SmartDoc-AI/internal/loader"
	logpkg "github.com/gurram-lahari/SmartDoc-AI/internal/logger"
	"github.com/gurram-lahari/SmartDoc-AI/internal/metrics"
	"github.com/gurram-lahari/SmartDoc-AI/internal/tokenizer"
	chiTransport "github.com/gurram-lahari/SmartDoc-AI/internal/transport/chi"
	openaiTransport "github.com/gurram-lahari/SmartDoc-AI/internal/transport/openai"
	analysisuc "github.com/gurram-lahari/SmartDoc-AI/internal/usecase/analysis"
	healthuc "github.com/gurram-lahari/SmartDoc-AI/internal/usecase/health"
	"github.com/gurram-lahari/SmartDoc-AI/internal/version"
)

func main() {
	// .env is optional; deployments inject environment variables directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting SmartDoc AI server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("chat_model", cfg.LLM.ChatModel),
		zap.String("embedding_model", cfg.LLM.EmbeddingModel),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// The token counter downloads the cl100k_base table on first use; fall
	// back to character estimates when that is not possible.
	counter, err := tokenizer.New()
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using character estimates", zap.Error(err))
		counter = tokenizer.Estimator()
	}

	docs := loader.New(
		time.Duration(cfg.Document.FetchTimeoutSec)*time.Second,
		cfg.Document.MaxSizeMB,
	)
	splitter := chunker.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap, cfg.Pipeline.ChunkSeparator)

	// Both model clients share one provider config — composition root
	providerCfg := &openaiTransport.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: time.Duration(cfg.LLM.RequestTimeoutSec) * time.Second,
		Logger:  logger,
	}
	embedder := openaiTransport.NewEmbedder(providerCfg, cfg.LLM.EmbeddingModel, cfg.LLM.EmbeddingDimensions)
	chat := openaiTransport.NewChat(providerCfg, cfg.LLM.ChatModel)
	logger.Info("Model clients created",
		zap.String("base_url", cfg.LLM.BaseURL),
		zap.String("chat_model", chat.Model()),
		zap.String("embedding_model", embedder.Model()),
	)

	analysisSvc := analysisuc.New(docs, splitter, embedder, chat, counter, analysisuc.Options{
		TopK:               cfg.Pipeline.TopK,
		ContextTokenBudget: cfg.Pipeline.ContextTokenBudget,
		Temperature:        cfg.LLM.Temperature,
	})
	healthSvc := healthuc.New(embedder, chat)

	server := chiTransport.NewServer(analysisSvc, healthSvc, chiTransport.Info{
		ChatModel:        cfg.LLM.ChatModel,
		EmbeddingModel:   cfg.LLM.EmbeddingModel,
		MaxDocumentMB:    cfg.Document.MaxSizeMB,
		APIKeyConfigured: cfg.LLM.APIKey != "",
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"error":   "Internal server error.",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
