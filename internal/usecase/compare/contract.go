package compare

import (
	"context"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// VersionReader loads committed analysis versions by id.
type VersionReader interface {
	GetByVersionID(ctx context.Context, versionID string) (domain.AnalysisVersion, error)
}
