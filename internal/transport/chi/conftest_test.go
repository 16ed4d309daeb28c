package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/usecase/health"
)

type mockAnalysis struct {
	version    domain.AnalysisVersion
	versions   []domain.AnalysisVersion
	entries    []domain.RegistryEntry
	err        error
	lastName   string
	lastSlug   string
	lastParams domain.AnalysisParams
	deleted    []string
}

func (m *mockAnalysis) Analyze(_ context.Context, name string, p domain.AnalysisParams) (domain.AnalysisVersion, error) {
	m.lastName = name
	m.lastParams = p
	return m.version, m.err
}

func (m *mockAnalysis) Reanalyze(_ context.Context, slug string, p domain.AnalysisParams) (domain.AnalysisVersion, error) {
	m.lastSlug = slug
	m.lastParams = p
	return m.version, m.err
}

func (m *mockAnalysis) Latest(_ context.Context, slug string) (domain.AnalysisVersion, error) {
	m.lastSlug = slug
	return m.version, m.err
}

func (m *mockAnalysis) History(_ context.Context, slug string, limit int) (domain.MarketHistory, error) {
	m.lastSlug = slug
	if m.err != nil {
		return domain.MarketHistory{}, m.err
	}
	page := m.versions
	if limit < len(page) {
		page = page[:limit]
	}
	return domain.MarketHistory{
		MarketSlug:    slug,
		TotalVersions: len(m.versions),
		Versions:      page,
	}, nil
}

func (m *mockAnalysis) Version(_ context.Context, id string) (domain.AnalysisVersion, error) {
	return m.version, m.err
}

func (m *mockAnalysis) DeleteMarket(_ context.Context, slug string) error {
	m.deleted = append(m.deleted, slug)
	return m.err
}

func (m *mockAnalysis) ListMarkets(_ context.Context) ([]domain.RegistryEntry, error) {
	return m.entries, m.err
}

type mockCompare struct {
	diff domain.VersionDiff
	err  error
}

func (m *mockCompare) Compare(_ context.Context, v1, v2 string) (domain.VersionDiff, error) {
	if m.err != nil {
		return domain.VersionDiff{}, m.err
	}
	d := m.diff
	d.V1VersionID = v1
	d.V2VersionID = v2
	return d, nil
}

type mockStatus struct {
	report domain.EmbeddingStatusReport
	err    error
}

func (m *mockStatus) Report(_ context.Context) (domain.EmbeddingStatusReport, error) {
	return m.report, m.err
}

type mockHealth struct {
	report health.Report
}

func (m *mockHealth) Check(_ context.Context) health.Report {
	return m.report
}

type testServer struct {
	srv      *httptest.Server
	analysis *mockAnalysis
	compare  *mockCompare
	status   *mockStatus
	health   *mockHealth
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		analysis: &mockAnalysis{},
		compare:  &mockCompare{},
		status:   &mockStatus{},
		health:   &mockHealth{report: health.Report{Status: health.Healthy, Checks: map[string]health.CheckResult{"database": health.CheckOK}}},
	}
	s := NewServer(ts.analysis, ts.compare, ts.status, ts.health, domain.DefaultAnalysisParams(), zap.NewNop())
	ts.srv = httptest.NewServer(s.Routes())
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, ts.srv.URL+path, nil)
	} else {
		req, err = http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
