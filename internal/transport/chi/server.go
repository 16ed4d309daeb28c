package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/usecase/health"
	"github.com/kailas-cloud/marketlens/internal/version"
)

const defaultHistoryLimit = 10

// engineName identifies the clustering engine behind this API on /health.
const engineName = "semantic-clustering"

// AnalysisService is the market analysis surface the HTTP layer exposes.
type AnalysisService interface {
	Analyze(ctx context.Context, marketName string, params domain.AnalysisParams) (domain.AnalysisVersion, error)
	Reanalyze(ctx context.Context, slug string, params domain.AnalysisParams) (domain.AnalysisVersion, error)
	Latest(ctx context.Context, slug string) (domain.AnalysisVersion, error)
	History(ctx context.Context, slug string, limit int) (domain.MarketHistory, error)
	Version(ctx context.Context, versionID string) (domain.AnalysisVersion, error)
	DeleteMarket(ctx context.Context, slug string) error
	ListMarkets(ctx context.Context) ([]domain.RegistryEntry, error)
}

// CompareService diffs two committed versions.
type CompareService interface {
	Compare(ctx context.Context, v1ID, v2ID string) (domain.VersionDiff, error)
}

// StatusService reports embedding coverage.
type StatusService interface {
	Report(ctx context.Context) (domain.EmbeddingStatusReport, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) health.Report
}

// Server is the HTTP API. All market-intel routes answer JSON with a success
// flag; error statuses are derived from domain sentinels.
type Server struct {
	analysis      AnalysisService
	compare       CompareService
	status        StatusService
	health        HealthService
	defaults      domain.AnalysisParams
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. defaults fill analysis parameters a
// request leaves out.
func NewServer(
	analysis AnalysisService,
	compare CompareService,
	status StatusService,
	healthSvc HealthService,
	defaults domain.AnalysisParams,
	logger *zap.Logger,
) *Server {
	s := &Server{
		analysis: analysis,
		compare:  compare,
		status:   status,
		health:   healthSvc,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		analysisFailedHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrMarketNotFound, http.StatusNotFound, codeMarketNotFound),
		sentinelHandler(domain.ErrVersionNotFound, http.StatusNotFound, codeVersionNotFound),
		sentinelHandler(domain.ErrLockNotAcquired, http.StatusConflict, codeMarketBusy),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrDependencyUnavailable, http.StatusBadGateway, codeDependencyUnavailable),
	}
	return s
}

// Routes builds the route tree. Middleware is attached by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/market-intel", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/markets", s.handleListMarkets)
		r.Get("/market/{slug}", s.handleLatest)
		r.Get("/market/{slug}/history", s.handleHistory)
		r.Post("/market/{slug}/reanalyze", s.handleReanalyze)
		r.Delete("/market/{slug}", s.handleDeleteMarket)
		r.Get("/version/{id}", s.handleVersion)
		r.Get("/compare", s.handleCompare)
		r.Get("/embedding-status", s.handleEmbeddingStatus)
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Success bodies carry the payload under an endpoint-specific key next to the
// success flag, not a generic data envelope.
type analysisResponse struct {
	Success  bool                   `json:"success"`
	Analysis domain.AnalysisVersion `json:"analysis"`
}

type marketsResponse struct {
	Success bool                   `json:"success"`
	Count   int                    `json:"count"`
	Markets []domain.RegistryEntry `json:"markets"`
}

type historyResponse struct {
	Success       bool                     `json:"success"`
	MarketSlug    string                   `json:"market_slug"`
	TotalVersions int                      `json:"total_versions"`
	History       []domain.AnalysisVersion `json:"history"`
}

type compareResponse struct {
	Success    bool               `json:"success"`
	Comparison domain.VersionDiff `json:"comparison"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type analyzeRequest struct {
	MarketName    string   `json:"market_name"`
	MinSimilarity *float64 `json:"min_similarity"`
	MinLeads      *int     `json:"min_leads"`
	MaxResults    *int     `json:"max_results"`
}

// params merges request overrides onto the configured defaults.
func (req *analyzeRequest) params(defaults domain.AnalysisParams) domain.AnalysisParams {
	p := defaults
	if req.MinSimilarity != nil {
		p.MinSimilarity = *req.MinSimilarity
	}
	if req.MinLeads != nil {
		p.MinLeads = *req.MinLeads
	}
	if req.MaxResults != nil {
		p.MaxResults = *req.MaxResults
	}
	return p
}

// handleAnalyze handles POST /api/market-intel/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.MarketName == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "market_name is required")
		return
	}

	v, err := s.analysis.Analyze(r.Context(), req.MarketName, req.params(s.defaults))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, analysisResponse{Success: true, Analysis: v})
}

// handleReanalyze handles POST /api/market-intel/market/{slug}/reanalyze.
// The body is optional; an empty one reruns with the configured defaults.
func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	v, err := s.analysis.Reanalyze(r.Context(), chi.URLParam(r, "slug"), req.params(s.defaults))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, analysisResponse{Success: true, Analysis: v})
}

// handleListMarkets handles GET /api/market-intel/markets.
func (s *Server) handleListMarkets(w http.ResponseWriter, r *http.Request) {
	entries, err := s.analysis.ListMarkets(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.RegistryEntry{}
	}
	writeJSON(w, http.StatusOK, marketsResponse{Success: true, Count: len(entries), Markets: entries})
}

// handleLatest handles GET /api/market-intel/market/{slug}.
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	v, err := s.analysis.Latest(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{Success: true, Analysis: v})
}

// handleHistory handles GET /api/market-intel/market/{slug}/history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	h, err := s.analysis.History(r.Context(), chi.URLParam(r, "slug"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Success:       true,
		MarketSlug:    h.MarketSlug,
		TotalVersions: h.TotalVersions,
		History:       h.Versions,
	})
}

// handleVersion handles GET /api/market-intel/version/{id}.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.analysis.Version(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{Success: true, Analysis: v})
}

// handleCompare handles GET /api/market-intel/compare?v1=&v2=.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	v1 := r.URL.Query().Get("v1")
	v2 := r.URL.Query().Get("v2")
	if v1 == "" || v2 == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query params v1 and v2 are required")
		return
	}

	diff, err := s.compare.Compare(r.Context(), v1, v2)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{Success: true, Comparison: diff})
}

// handleDeleteMarket handles DELETE /api/market-intel/market/{slug}.
func (s *Server) handleDeleteMarket(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := s.analysis.DeleteMarket(r.Context(), slug); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "market " + slug + " deleted"})
}

type embeddingStatusResponse struct {
	Success         bool    `json:"success"`
	TotalCandidates int     `json:"total_candidates"`
	ReadyCount      int     `json:"ready_count"`
	PendingCount    int     `json:"pending_count"`
	ErrorCount      int     `json:"error_count"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// handleEmbeddingStatus handles GET /api/market-intel/embedding-status.
func (s *Server) handleEmbeddingStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.status.Report(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, embeddingStatusResponse{
		Success:         true,
		TotalCandidates: report.TotalCandidates,
		ReadyCount:      report.ReadyCount,
		PendingCount:    report.PendingCount,
		ErrorCount:      report.ErrorCount,
		CoveragePercent: report.CoveragePercent,
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == health.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	writeJSON(w, status, map[string]any{
		"success":   report.Status != health.Unhealthy,
		"service":   "marketlens",
		"version":   version.Version,
		"engine":    engineName,
		"status":    report.Status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
