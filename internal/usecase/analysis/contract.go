package analysis

import (
	"context"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/repository/lock"
	"github.com/kailas-cloud/marketlens/internal/usecase/clustering"
	"github.com/kailas-cloud/marketlens/internal/usecase/search"
)

// Searcher scans the lead corpus for vectors similar to a query embedding.
type Searcher interface {
	FindSimilar(ctx context.Context, query []float32, params domain.AnalysisParams) (search.Result, error)
}

// Clusterer partitions matched lead vectors.
type Clusterer interface {
	Cluster(vectors [][]float32) clustering.Assignment
}

// LeadReader loads full lead rows for matched ids.
type LeadReader interface {
	GetBatch(ctx context.Context, ids []string) ([]domain.LeadEmbedding, error)
}

// SnapshotStore persists and serves immutable analysis versions.
type SnapshotStore interface {
	Commit(ctx context.Context, v domain.AnalysisVersion) error
	GetByVersionID(ctx context.Context, versionID string) (domain.AnalysisVersion, error)
	GetLatest(ctx context.Context, slug string) (domain.AnalysisVersion, error)
	GetHistory(ctx context.Context, slug string, limit int) ([]domain.AnalysisVersion, error)
	TotalVersions(ctx context.Context, slug string) (int, error)
	MarketName(ctx context.Context, slug string) (string, error)
	DeleteMarket(ctx context.Context, slug string) error
	ListMarkets(ctx context.Context) ([]domain.RegistryEntry, error)
}

// Locker serializes analysis runs per market slug.
type Locker interface {
	Acquire(ctx context.Context, slug string) (*lock.Lock, error)
	Release(ctx context.Context, lk *lock.Lock)
}

// Embedder vectorizes the market-name query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CoverageReporter probes embedding coverage of the lead corpus.
type CoverageReporter interface {
	Report(ctx context.Context) (domain.EmbeddingStatusReport, error)
}
