package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/repository/lock"
	"github.com/kailas-cloud/marketlens/internal/usecase/clustering"
	"github.com/kailas-cloud/marketlens/internal/usecase/search"
)

type mockSnapshots struct {
	committed []domain.AnalysisVersion
	commitErr error
	names     map[string]string
	versions  map[string]domain.AnalysisVersion
	deleted   []string
}

func (m *mockSnapshots) Commit(_ context.Context, v domain.AnalysisVersion) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = append(m.committed, v)
	return nil
}

func (m *mockSnapshots) GetByVersionID(_ context.Context, id string) (domain.AnalysisVersion, error) {
	v, ok := m.versions[id]
	if !ok {
		return domain.AnalysisVersion{}, domain.ErrVersionNotFound
	}
	return v, nil
}

func (m *mockSnapshots) GetLatest(_ context.Context, slug string) (domain.AnalysisVersion, error) {
	for i := len(m.committed) - 1; i >= 0; i-- {
		if m.committed[i].MarketSlug == slug {
			return m.committed[i], nil
		}
	}
	return domain.AnalysisVersion{}, domain.ErrMarketNotFound
}

func (m *mockSnapshots) GetHistory(_ context.Context, slug string, _ int) ([]domain.AnalysisVersion, error) {
	var out []domain.AnalysisVersion
	for i := len(m.committed) - 1; i >= 0; i-- {
		if m.committed[i].MarketSlug == slug {
			out = append(out, m.committed[i])
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrMarketNotFound
	}
	return out, nil
}

func (m *mockSnapshots) TotalVersions(_ context.Context, slug string) (int, error) {
	var n int
	for _, v := range m.committed {
		if v.MarketSlug == slug {
			n++
		}
	}
	return n, nil
}

func (m *mockSnapshots) MarketName(_ context.Context, slug string) (string, error) {
	name, ok := m.names[slug]
	if !ok {
		return "", domain.ErrMarketNotFound
	}
	return name, nil
}

func (m *mockSnapshots) DeleteMarket(_ context.Context, slug string) error {
	m.deleted = append(m.deleted, slug)
	return nil
}

func (m *mockSnapshots) ListMarkets(_ context.Context) ([]domain.RegistryEntry, error) {
	return nil, nil
}

type mockLeads struct {
	rows map[string]domain.LeadEmbedding
	err  error
}

func (m *mockLeads) GetBatch(_ context.Context, ids []string) ([]domain.LeadEmbedding, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.LeadEmbedding
	for _, id := range ids {
		if row, ok := m.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

type mockSearcher struct {
	result     search.Result
	err        error
	lastQuery  []float32
	lastParams domain.AnalysisParams
}

func (m *mockSearcher) FindSimilar(_ context.Context, query []float32, params domain.AnalysisParams) (search.Result, error) {
	m.lastQuery = query
	m.lastParams = params
	return m.result, m.err
}

type mockClusterer struct{}

func (m *mockClusterer) Cluster(vectors [][]float32) clustering.Assignment {
	// Everything into one cluster keeps fixture setup small.
	labels := make([]int, len(vectors))
	members := make([]int, len(vectors))
	for i := range members {
		members[i] = i
	}
	centroid := []float32{1, 0}
	return clustering.Assignment{
		K:         1,
		Labels:    labels,
		Centroids: [][]float32{centroid},
		Members:   [][]int{members},
	}
}

type mockLocker struct {
	acquireErr error
	acquired   []string
	released   int
}

func (m *mockLocker) Acquire(_ context.Context, slug string) (*lock.Lock, error) {
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.acquired = append(m.acquired, slug)
	return &lock.Lock{}, nil
}

func (m *mockLocker) Release(_ context.Context, _ *lock.Lock) {
	m.released++
}

type mockQueryEmbedder struct {
	vector   []float32
	err      error
	lastText string
}

func (m *mockQueryEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector, TotalTokens: 5}, nil
}

type mockCoverage struct {
	report domain.EmbeddingStatusReport
	err    error
}

func (m *mockCoverage) Report(_ context.Context) (domain.EmbeddingStatusReport, error) {
	return m.report, m.err
}

type fixture struct {
	svc       *Service
	snapshots *mockSnapshots
	leads     *mockLeads
	searcher  *mockSearcher
	locker    *mockLocker
	embedder  *mockQueryEmbedder
	coverage  *mockCoverage
}

// newFixture wires a service over a corpus of n matched leads.
func newFixture(n int) *fixture {
	f := &fixture{
		snapshots: &mockSnapshots{names: map[string]string{}},
		leads:     &mockLeads{rows: map[string]domain.LeadEmbedding{}},
		searcher:  &mockSearcher{},
		locker:    &mockLocker{},
		embedder:  &mockQueryEmbedder{vector: []float32{1, 0}},
		coverage:  &mockCoverage{report: domain.EmbeddingStatusReport{TotalCandidates: 100, ReadyCount: 80, CoveragePercent: 80}},
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("lead-%03d", i)
		f.leads.rows[id] = domain.LeadEmbedding{
			ID:     id,
			Bio:    "estudio de pilates",
			Status: domain.EmbeddingReady,
			Vector: []float32{1, 0},
		}
		f.searcher.result.Matches = append(f.searcher.result.Matches, domain.Match{LeadID: id, Similarity: 0.9})
	}
	f.searcher.result.Scanned = n * 2

	f.svc = New(f.snapshots, f.leads, f.searcher, &mockClusterer{}, f.locker, f.embedder, f.coverage, time.Second)
	ids := 0
	f.svc.newID = func() string { ids++; return fmt.Sprintf("v-%d", ids) }
	return f
}

func lowParams(minLeads int) domain.AnalysisParams {
	p := domain.DefaultAnalysisParams()
	p.MinLeads = minLeads
	return p
}
