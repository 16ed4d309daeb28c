package marketlens

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder Embedder

	defaults struct {
		minSimilarity float64
		minLeads      int
		maxResults    int
	}

	minClusters   int
	maxClusters   int
	seed          int64
	maxIterations int

	chunkSize int64
	workers   int

	lockTTL         time.Duration
	lockWait        time.Duration
	coverageTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisCluster configures the client to connect to a Redis cluster.
func WithRedisCluster(addrs []string, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	})
}

// WithEmbedder sets the provider that vectorizes market-name queries.
// Required for Analyze and Reanalyze; read operations work without it.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithAnalysisDefaults sets the parameters used when Analyze or Reanalyze
// receives a zero AnalysisParams field. Defaults: 0.65, 100, uncapped.
func WithAnalysisDefaults(minSimilarity float64, minLeads, maxResults int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaults.minSimilarity = minSimilarity
		c.defaults.minLeads = minLeads
		c.defaults.maxResults = maxResults
	})
}

// WithClustering bounds automatic cluster-count selection.
// Defaults: min 2, max 8, seed 42.
func WithClustering(minClusters, maxClusters int, seed int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minClusters = minClusters
		c.maxClusters = maxClusters
		c.seed = seed
	})
}

// WithScanConcurrency tunes the similarity scan: keys fetched per SCAN page
// and the number of scoring workers. Defaults: 500, 4.
func WithScanConcurrency(chunkSize int64, workers int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = chunkSize
		c.workers = workers
	})
}

// WithLockTimeouts sets the per-market analysis lock TTL and how long a
// caller waits for a busy market before giving up. Defaults: 120s, 30s.
func WithLockTimeouts(ttl, wait time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lockTTL = ttl
		c.lockWait = wait
	})
}

// WithCoverageTimeout bounds the best-effort embedding coverage probe that
// runs at the start of each analysis. Default: 5s.
func WithCoverageTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.coverageTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
