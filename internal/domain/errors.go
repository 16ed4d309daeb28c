package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMarketNotFound signals an unknown market slug.
	ErrMarketNotFound = errors.New("market not found")
	// ErrVersionNotFound signals an unknown analysis version.
	ErrVersionNotFound = errors.New("version not found")
	// ErrAnalysisFailed signals a pipeline run that matched fewer leads than required.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrDependencyUnavailable signals an unreachable embedding store or vector index.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLockNotAcquired signals that the per-market lock could not be taken in time.
	ErrLockNotAcquired = errors.New("market lock not acquired")
)

// AnalysisFailedError wraps ErrAnalysisFailed with matched/required lead counts.
// It is returned before anything is written, so history length is unaffected.
type AnalysisFailedError struct {
	Reason   string
	Matched  int
	Required int
}

func (e *AnalysisFailedError) Error() string {
	return fmt.Sprintf("%s: %s: matched %d leads, required %d",
		ErrAnalysisFailed.Error(), e.Reason, e.Matched, e.Required)
}

func (e *AnalysisFailedError) Unwrap() error { return ErrAnalysisFailed }

// NewInsufficientMatches creates an AnalysisFailedError for a below-threshold match count.
func NewInsufficientMatches(matched, required int) error {
	return &AnalysisFailedError{Reason: "insufficient_matches", Matched: matched, Required: required}
}
