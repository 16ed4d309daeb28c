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
	"go.uber.org/zap"

	"github.com/kailas-cloud/marketlens/internal/config"
	dbRedis "github.com/kailas-cloud/marketlens/internal/db/redis"
	"github.com/kailas-cloud/marketlens/internal/domain"
	logpkg "github.com/kailas-cloud/marketlens/internal/logger"
	"github.com/kailas-cloud/marketlens/internal/metrics"
	"github.com/kailas-cloud/marketlens/internal/repository/embcache"
	leadrepo "github.com/kailas-cloud/marketlens/internal/repository/lead"
	lockrepo "github.com/kailas-cloud/marketlens/internal/repository/lock"
	snapshotrepo "github.com/kailas-cloud/marketlens/internal/repository/snapshot"
	chiTransport "github.com/kailas-cloud/marketlens/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/marketlens/internal/transport/openai"
	analysisuc "github.com/kailas-cloud/marketlens/internal/usecase/analysis"
	clusteringuc "github.com/kailas-cloud/marketlens/internal/usecase/clustering"
	compareuc "github.com/kailas-cloud/marketlens/internal/usecase/compare"
	healthuc "github.com/kailas-cloud/marketlens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/marketlens/internal/usecase/search"
	statusuc "github.com/kailas-cloud/marketlens/internal/usecase/status"
	"github.com/kailas-cloud/marketlens/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting marketlens API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterAnalysisMetrics()

	// Query embedder chain: OpenAI -> Cached. Lead embeddings come from an
	// external batch job, so only market names are vectorized here.
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(
		base, store, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Query embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	leadRepo := leadrepo.New(store)
	snapRepo := snapshotrepo.New(store)
	locker := lockrepo.New(store,
		time.Duration(cfg.Analysis.LockTTLSec)*time.Second,
		time.Duration(cfg.Analysis.LockWaitSec)*time.Second,
	)

	// Use case services
	searchSvc := searchuc.New(leadRepo, int64(cfg.Search.ChunkSize), cfg.Search.Workers)
	clusterer := clusteringuc.New(clusteringuc.Config{
		MinClusters:   cfg.Clustering.MinClusters,
		MaxClusters:   cfg.Clustering.MaxClusters,
		Seed:          cfg.Clustering.Seed,
		MaxIterations: cfg.Clustering.MaxIterations,
	})
	statusSvc := statusuc.New(leadRepo)
	analysisSvc := analysisuc.New(
		snapRepo, leadRepo, searchSvc, clusterer, locker, embedder, statusSvc,
		time.Duration(cfg.Analysis.CoverageTimeoutSec)*time.Second,
	)
	compareSvc := compareuc.New(snapRepo)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	defaults := domain.AnalysisParams{
		MinSimilarity: cfg.Analysis.MinSimilarity,
		MinLeads:      cfg.Analysis.MinLeads,
		MaxResults:    cfg.Analysis.MaxResults,
	}
	server := chiTransport.NewServer(analysisSvc, compareSvc, statusSvc, healthSvc, defaults, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.HTTP.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

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

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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
