package inference

import (
	"context"
	"encoding/json"
	"errors"
)

// SummarizeInput captures the inputs for one summarization request.
type SummarizeInput struct {
	Text       string
	Level      string
	DocumentID string
}

// Client abstracts the external AI inference service. Summarize returns the
// raw response body untouched; callers normalize its shape.
type Client interface {
	Summarize(ctx context.Context, input SummarizeInput) (json.RawMessage, error)
	Ask(ctx context.Context, question string) (string, error)
}

var (
	// ErrTimeout indicates the inference call exceeded its deadline. Safe to retry.
	ErrTimeout = errors.New("inference timeout")
	// ErrUnavailable indicates the inference service could not be reached
	// or answered with a server error. Safe to retry.
	ErrUnavailable = errors.New("inference service unavailable")
	// ErrInvalidResponse indicates the service answered but the response
	// could not be used.
	ErrInvalidResponse = errors.New("invalid inference response")
)

// IsTransient reports whether the error is a retryable service failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
}
