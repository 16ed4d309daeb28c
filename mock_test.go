package marketlens

import (
	"context"

	"github.com/kailas-cloud/marketlens/internal/domain"
	healthuc "github.com/kailas-cloud/marketlens/internal/usecase/health"
)

// --- analysisUseCase mock ---

type mockAnalysisUC struct {
	analyzeFn     func(ctx context.Context, marketName string, params domain.AnalysisParams) (domain.AnalysisVersion, error)
	reanalyzeFn   func(ctx context.Context, slug string, params domain.AnalysisParams) (domain.AnalysisVersion, error)
	latestFn      func(ctx context.Context, slug string) (domain.AnalysisVersion, error)
	historyFn     func(ctx context.Context, slug string, limit int) (domain.MarketHistory, error)
	versionFn     func(ctx context.Context, versionID string) (domain.AnalysisVersion, error)
	deleteFn      func(ctx context.Context, slug string) error
	listMarketsFn func(ctx context.Context) ([]domain.RegistryEntry, error)
}

func (m *mockAnalysisUC) Analyze(ctx context.Context, marketName string, params domain.AnalysisParams) (domain.AnalysisVersion, error) {
	return m.analyzeFn(ctx, marketName, params)
}

func (m *mockAnalysisUC) Reanalyze(ctx context.Context, slug string, params domain.AnalysisParams) (domain.AnalysisVersion, error) {
	return m.reanalyzeFn(ctx, slug, params)
}

func (m *mockAnalysisUC) Latest(ctx context.Context, slug string) (domain.AnalysisVersion, error) {
	return m.latestFn(ctx, slug)
}

func (m *mockAnalysisUC) History(ctx context.Context, slug string, limit int) (domain.MarketHistory, error) {
	return m.historyFn(ctx, slug, limit)
}

func (m *mockAnalysisUC) Version(ctx context.Context, versionID string) (domain.AnalysisVersion, error) {
	return m.versionFn(ctx, versionID)
}

func (m *mockAnalysisUC) DeleteMarket(ctx context.Context, slug string) error {
	return m.deleteFn(ctx, slug)
}

func (m *mockAnalysisUC) ListMarkets(ctx context.Context) ([]domain.RegistryEntry, error) {
	return m.listMarketsFn(ctx)
}

// --- compareUseCase mock ---

type mockCompareUC struct {
	compareFn func(ctx context.Context, v1ID, v2ID string) (domain.VersionDiff, error)
}

func (m *mockCompareUC) Compare(ctx context.Context, v1ID, v2ID string) (domain.VersionDiff, error) {
	return m.compareFn(ctx, v1ID, v2ID)
}

// --- statusUseCase mock ---

type mockStatusUC struct {
	reportFn func(ctx context.Context) (domain.EmbeddingStatusReport, error)
}

func (m *mockStatusUC) Report(ctx context.Context) (domain.EmbeddingStatusReport, error) {
	return m.reportFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// testClient builds a Client with mocked services and stock defaults.
func testClient() *Client {
	return &Client{
		defaults: domain.DefaultAnalysisParams(),
		obs:      &observer{},
	}
}
