package status

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// LeadCounter tallies leads by embedding status.
type LeadCounter interface {
	CountByStatus(ctx context.Context) (domain.EmbeddingStatusReport, error)
}

// Service reports embedding coverage of the lead corpus. Coverage is advisory
// context for analysis results, so callers decide whether a failure here is
// fatal or just degrades the report.
type Service struct {
	leads LeadCounter
}

// New creates a status service.
func New(leads LeadCounter) *Service {
	return &Service{leads: leads}
}

// Report walks the corpus and returns the status tally with coverage filled in.
func (s *Service) Report(ctx context.Context) (domain.EmbeddingStatusReport, error) {
	report, err := s.leads.CountByStatus(ctx)
	if err != nil {
		return domain.EmbeddingStatusReport{}, fmt.Errorf("%w: count lead status: %w", domain.ErrDependencyUnavailable, err)
	}
	report.CoveragePercent = report.Coverage()
	return report, nil
}
