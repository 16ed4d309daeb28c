package marketlens

import "github.com/kailas-cloud/marketlens/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrMarketNotFound         = domain.ErrMarketNotFound
	ErrVersionNotFound        = domain.ErrVersionNotFound
	ErrLockNotAcquired        = domain.ErrLockNotAcquired
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrDependencyUnavailable  = domain.ErrDependencyUnavailable
)

// AnalysisFailedError reports an analysis aborted before committing a
// version, e.g. too few matched leads. Use errors.As() to extract it.
type AnalysisFailedError = domain.AnalysisFailedError
