package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCredentialMissing means no API key was configured before an
	// embedding call was attempted.
	ErrCredentialMissing = errors.New("embedding API key not configured")

	// ErrEmptyStore means a search or save was attempted against a store
	// with no entries.
	ErrEmptyStore = errors.New("embedding store is empty")

	// ErrDimensionMismatch means vectors of inconsistent length were
	// presented to the store or the search engine.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorruptState means persisted embedding data is missing required
	// fields or is internally inconsistent.
	ErrCorruptState = errors.New("corrupt persisted embeddings")

	// ErrUnsupportedFormat means the persistence format is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported persistence format")

	// ErrUnsupportedModel means the embedding model is not in the
	// recognized registry.
	ErrUnsupportedModel = errors.New("unsupported embedding model")
)

// ProviderError wraps a failure from the remote embedding provider.
// StatusCode is the HTTP status when the provider answered, 0 for
// transport-level failures.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("embedding provider returned status %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("embedding provider request failed: %v", e.Err)
	}
	return "embedding provider request failed: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is rate-limit-class: worth an
// exponential-backoff retry rather than an immediate abort.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
