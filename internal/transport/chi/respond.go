package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// Error codes returned in the body alongside the HTTP status.
const (
	codeBadRequest            = "bad_request"
	codeValidationFailed      = "validation_failed"
	codeMarketNotFound        = "market_not_found"
	codeVersionNotFound       = "version_not_found"
	codeAnalysisFailed        = "analysis_failed"
	codeMarketBusy            = "market_busy"
	codeEmbeddingProvider     = "embedding_provider_error"
	codeDependencyUnavailable = "dependency_unavailable"
	codeInternalError         = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   errorBody{Code: code, Message: message},
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrMarketNotFound,
		domain.ErrVersionNotFound,
		domain.ErrAnalysisFailed,
		domain.ErrLockNotAcquired,
		domain.ErrEmbeddingProviderError,
		domain.ErrDependencyUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// analysisFailedHandler renders a failed run as 422 with the match counts the
// caller needs to decide whether to retry with looser parameters.
func analysisFailedHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrAnalysisFailed) {
		return false
	}
	var afe *domain.AnalysisFailedError
	if errors.As(err, &afe) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"error": map[string]any{
				"code":           codeAnalysisFailed,
				"message":        msg,
				"reason":         afe.Reason,
				"matched_leads":  afe.Matched,
				"required_leads": afe.Required,
			},
		})
		return true
	}
	writeError(w, http.StatusUnprocessableEntity, codeAnalysisFailed, msg)
	return true
}
