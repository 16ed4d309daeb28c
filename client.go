package marketlens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/marketlens/internal/db"
	dbRedis "github.com/kailas-cloud/marketlens/internal/db/redis"
	"github.com/kailas-cloud/marketlens/internal/domain"
	leadrepo "github.com/kailas-cloud/marketlens/internal/repository/lead"
	lockrepo "github.com/kailas-cloud/marketlens/internal/repository/lock"
	snapshotrepo "github.com/kailas-cloud/marketlens/internal/repository/snapshot"
	analysisuc "github.com/kailas-cloud/marketlens/internal/usecase/analysis"
	clusteringuc "github.com/kailas-cloud/marketlens/internal/usecase/clustering"
	compareuc "github.com/kailas-cloud/marketlens/internal/usecase/compare"
	healthuc "github.com/kailas-cloud/marketlens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/marketlens/internal/usecase/search"
	statusuc "github.com/kailas-cloud/marketlens/internal/usecase/status"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can swap the wired services.
type analysisUseCase interface {
	Analyze(ctx context.Context, marketName string, params domain.AnalysisParams) (domain.AnalysisVersion, error)
	Reanalyze(ctx context.Context, slug string, params domain.AnalysisParams) (domain.AnalysisVersion, error)
	Latest(ctx context.Context, slug string) (domain.AnalysisVersion, error)
	History(ctx context.Context, slug string, limit int) (domain.MarketHistory, error)
	Version(ctx context.Context, versionID string) (domain.AnalysisVersion, error)
	DeleteMarket(ctx context.Context, slug string) error
	ListMarkets(ctx context.Context) ([]domain.RegistryEntry, error)
}

type compareUseCase interface {
	Compare(ctx context.Context, v1ID, v2ID string) (domain.VersionDiff, error)
}

type statusUseCase interface {
	Report(ctx context.Context) (domain.EmbeddingStatusReport, error)
}

// Client is the marketlens SDK entry point.
type Client struct {
	store       db.Store
	analysisSvc analysisUseCase
	compareSvc  compareUseCase
	statusSvc   statusUseCase
	healthSvc   healthUseCase
	defaults    domain.AnalysisParams
	obs         *observer
}

// New creates a marketlens Client and connects to Redis.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("marketlens: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("marketlens: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("marketlens: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	leadRepo := leadrepo.New(store)
	snapRepo := snapshotrepo.New(store)
	locker := lockrepo.New(store, cfg.lockTTL, cfg.lockWait)

	// Embedder: noop when not configured. Read operations still work;
	// Analyze and Reanalyze return an error.
	var domEmb analysisuc.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	searchSvc := searchuc.New(leadRepo, cfg.chunkSize, cfg.workers)
	clusterer := clusteringuc.New(clusteringuc.Config{
		MinClusters:   cfg.minClusters,
		MaxClusters:   cfg.maxClusters,
		Seed:          cfg.seed,
		MaxIterations: cfg.maxIterations,
	})
	statusSvc := statusuc.New(leadRepo)
	analysisSvc := analysisuc.New(
		snapRepo, leadRepo, searchSvc, clusterer, locker, domEmb, statusSvc,
		cfg.coverageTimeout,
	)
	compareSvc := compareuc.New(snapRepo)

	// Typed-nil gotcha: only hand the checker over when the embedder
	// really implements it.
	var embCheck healthuc.EmbeddingChecker
	if hc, ok := cfg.embedder.(HealthChecker); ok {
		embCheck = hc
	}
	healthSvc := healthuc.New(store, embCheck)

	defaults := domain.DefaultAnalysisParams()
	if cfg.defaults.minSimilarity > 0 {
		defaults.MinSimilarity = cfg.defaults.minSimilarity
	}
	if cfg.defaults.minLeads > 0 {
		defaults.MinLeads = cfg.defaults.minLeads
	}
	if cfg.defaults.maxResults > 0 {
		defaults.MaxResults = cfg.defaults.maxResults
	}

	return &Client{
		store:       store,
		analysisSvc: analysisSvc,
		compareSvc:  compareSvc,
		statusSvc:   statusSvc,
		healthSvc:   healthSvc,
		defaults:    defaults,
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// resolveParams fills zero request fields with client-level defaults.
func (c *Client) resolveParams(p AnalysisParams) domain.AnalysisParams {
	out := c.defaults
	if p.MinSimilarity > 0 {
		out.MinSimilarity = p.MinSimilarity
	}
	if p.MinLeads > 0 {
		out.MinLeads = p.MinLeads
	}
	if p.MaxResults > 0 {
		out.MaxResults = p.MaxResults
	}
	return out
}

// embedderAdapter wraps the public Embedder to satisfy the internal one.
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

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"marketlens: embedder not configured (use WithEmbedder to run analyses)",
	)
}
