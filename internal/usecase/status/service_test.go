package status

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

type mockCounter struct {
	report domain.EmbeddingStatusReport
	err    error
}

func (m *mockCounter) CountByStatus(_ context.Context) (domain.EmbeddingStatusReport, error) {
	return m.report, m.err
}

func TestReportFillsCoverage(t *testing.T) {
	svc := New(&mockCounter{report: domain.EmbeddingStatusReport{
		TotalCandidates: 200,
		ReadyCount:      150,
		PendingCount:    40,
		ErrorCount:      10,
	}})

	got, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got.CoveragePercent != 75 {
		t.Errorf("coverage = %f, want 75", got.CoveragePercent)
	}
}

func TestReportEmptyCorpus(t *testing.T) {
	svc := New(&mockCounter{})
	got, err := svc.Report(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.CoveragePercent != 0 {
		t.Errorf("coverage = %f, want 0", got.CoveragePercent)
	}
}

func TestReportStoreError(t *testing.T) {
	svc := New(&mockCounter{err: errors.New("timeout")})
	_, err := svc.Report(context.Background())
	if !errors.Is(err, domain.ErrDependencyUnavailable) {
		t.Errorf("err = %v, want ErrDependencyUnavailable", err)
	}
}
