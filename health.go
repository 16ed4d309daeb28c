package marketlens

import (
	"context"

	healthuc "github.com/kailas-cloud/marketlens/internal/usecase/health"
)

// HealthChecker is optionally implemented by an Embedder that can probe
// its provider. When the configured embedder implements it, Health
// includes an "embedding" check.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Health checks the backing store and, when available, the embedding
// provider. A failing store yields "error"; a failing embedder only
// degrades, since committed versions stay readable.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
