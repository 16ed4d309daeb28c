package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/logger"
	"github.com/kailas-cloud/marketlens/internal/metrics"
	"github.com/kailas-cloud/marketlens/internal/usecase/scoring"
)

// Service orchestrates the analysis pipeline: lock the market, embed the
// query, scan for similar leads, cluster and score them, then commit the run
// as a new immutable version. A failed run commits nothing; history only ever
// grows by whole versions.
type Service struct {
	snapshots SnapshotStore
	leads     LeadReader
	searcher  Searcher
	clusterer Clusterer
	locker    Locker
	embedder  Embedder
	coverage  CoverageReporter

	coverageTimeout time.Duration
	now             func() time.Time
	newID           func() string
}

// New creates the analysis service.
func New(
	snapshots SnapshotStore,
	leads LeadReader,
	searcher Searcher,
	clusterer Clusterer,
	locker Locker,
	embedder Embedder,
	coverage CoverageReporter,
	coverageTimeout time.Duration,
) *Service {
	if coverageTimeout <= 0 {
		coverageTimeout = 5 * time.Second
	}
	return &Service{
		snapshots:       snapshots,
		leads:           leads,
		searcher:        searcher,
		clusterer:       clusterer,
		locker:          locker,
		embedder:        embedder,
		coverage:        coverage,
		coverageTimeout: coverageTimeout,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Analyze runs the full pipeline for a market given by display name and
// returns the committed version.
func (s *Service) Analyze(ctx context.Context, marketName string, params domain.AnalysisParams) (domain.AnalysisVersion, error) {
	slug := domain.Slugify(marketName)
	if slug == "" {
		return domain.AnalysisVersion{}, fmt.Errorf("%w: market name has no usable characters", domain.ErrInvalidInput)
	}
	return s.run(ctx, slug, marketName, params)
}

// Reanalyze reruns the pipeline for an already registered slug, producing a
// fresh version with the market's stored display name as the query.
func (s *Service) Reanalyze(ctx context.Context, slug string, params domain.AnalysisParams) (domain.AnalysisVersion, error) {
	name, err := s.snapshots.MarketName(ctx, slug)
	if err != nil {
		return domain.AnalysisVersion{}, err
	}
	return s.run(ctx, slug, name, params)
}

func (s *Service) run(ctx context.Context, slug, marketName string, params domain.AnalysisParams) (domain.AnalysisVersion, error) {
	if err := params.Validate(); err != nil {
		return domain.AnalysisVersion{}, err
	}

	lk, err := s.locker.Acquire(ctx, slug)
	if err != nil {
		return domain.AnalysisVersion{}, err
	}
	defer s.locker.Release(ctx, lk)

	start := s.now()
	version, err := s.pipeline(ctx, slug, marketName, params)
	metrics.AnalysisDuration.WithLabelValues("total").Observe(s.now().Sub(start).Seconds())
	metrics.AnalysesTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return domain.AnalysisVersion{}, err
	}
	return version, nil
}

func (s *Service) pipeline(ctx context.Context, slug, marketName string, params domain.AnalysisParams) (domain.AnalysisVersion, error) {
	log := logger.FromContext(ctx).With(zap.String("market_slug", slug))

	coverage := s.probeCoverage(ctx, log)

	emb, err := s.embedder.Embed(ctx, marketName)
	if err != nil {
		return domain.AnalysisVersion{}, fmt.Errorf("embed market query: %w", err)
	}

	searchStart := s.now()
	found, err := s.searcher.FindSimilar(ctx, emb.Embedding, params)
	metrics.AnalysisDuration.WithLabelValues("search").Observe(s.now().Sub(searchStart).Seconds())
	if err != nil {
		return domain.AnalysisVersion{}, fmt.Errorf("%w: similarity scan: %w", domain.ErrDependencyUnavailable, err)
	}
	metrics.LeadsScannedTotal.Add(float64(found.Scanned))

	if len(found.Matches) < params.MinLeads {
		log.Info("analysis aborted, not enough matches",
			zap.Int("matched", len(found.Matches)),
			zap.Int("required", params.MinLeads))
		return domain.AnalysisVersion{}, domain.NewInsufficientMatches(len(found.Matches), params.MinLeads)
	}

	members, vectors, err := s.loadMembers(ctx, found.Matches)
	if err != nil {
		return domain.AnalysisVersion{}, err
	}

	// Leads deleted between scan and load shrink the member set; the version
	// records what actually got clustered so cluster sizes always sum to it.
	if len(members) < params.MinLeads {
		log.Info("analysis aborted, matches vanished during load",
			zap.Int("matched", len(members)),
			zap.Int("required", params.MinLeads))
		return domain.AnalysisVersion{}, domain.NewInsufficientMatches(len(members), params.MinLeads)
	}

	clusterStart := s.now()
	assignment := s.clusterer.Cluster(vectors)
	metrics.AnalysisDuration.WithLabelValues("clustering").Observe(s.now().Sub(clusterStart).Seconds())

	version := domain.AnalysisVersion{
		VersionID:       s.newID(),
		MarketSlug:      slug,
		MarketName:      marketName,
		CreatedAt:       s.now().UTC(),
		Parameters:      params,
		MatchedLeads:    len(members),
		CoveragePercent: coverage,
		Clusters:        scoring.Build(assignment, members),
	}

	if err := s.snapshots.Commit(ctx, version); err != nil {
		return domain.AnalysisVersion{}, fmt.Errorf("%w: commit version: %w", domain.ErrDependencyUnavailable, err)
	}

	log.Info("analysis committed",
		zap.String("version_id", version.VersionID),
		zap.Int("matched_leads", version.MatchedLeads),
		zap.Int("clusters", len(version.Clusters)))
	return version, nil
}

// probeCoverage is best effort: it runs under its own timeout and a failure
// only degrades the version's coverage field to nil, never the run itself.
func (s *Service) probeCoverage(ctx context.Context, log *zap.Logger) *float64 {
	probeCtx, cancel := context.WithTimeout(ctx, s.coverageTimeout)
	defer cancel()

	report, err := s.coverage.Report(probeCtx)
	if err != nil {
		log.Warn("coverage probe failed, committing without coverage", zap.Error(err))
		return nil
	}
	pct := report.CoveragePercent
	return &pct
}

// loadMembers resolves matched ids to full lead rows. Leads deleted between
// scan and load are dropped; the match similarity rides along for scoring.
func (s *Service) loadMembers(ctx context.Context, matches []domain.Match) ([]scoring.Member, [][]float32, error) {
	ids := make([]string, len(matches))
	simByID := make(map[string]float64, len(matches))
	for i, m := range matches {
		ids[i] = m.LeadID
		simByID[m.LeadID] = m.Similarity
	}

	rows, err := s.leads.GetBatch(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load matched leads: %w", domain.ErrDependencyUnavailable, err)
	}

	members := make([]scoring.Member, 0, len(rows))
	vectors := make([][]float32, 0, len(rows))
	for _, row := range rows {
		members = append(members, scoring.Member{
			LeadID:   row.ID,
			Bio:      row.Bio,
			Hashtags: row.Hashtags,
			Vector:   row.Vector,
			QuerySim: simByID[row.ID],
		})
		vectors = append(vectors, row.Vector)
	}
	return members, vectors, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "committed"
	case isInsufficientMatches(err):
		return "insufficient_matches"
	default:
		return "error"
	}
}

func isInsufficientMatches(err error) bool {
	var afe *domain.AnalysisFailedError
	return errors.As(err, &afe)
}
