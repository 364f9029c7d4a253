package sources

import (
	"context"
	"net/http"
	"time"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

const (
	// One initial attempt plus up to two retries for retryable failures.
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// classifyStatus maps an HTTP status to a ProviderError. 401/403 means bad
// credentials and is fatal for the run; 429 and 5xx are worth retrying.
func classifyStatus(provider string, code int, body []byte) error {
	pe := &domain.ProviderError{
		Provider: provider,
		Err:      statusError{code: code, snippet: responseSnippet(body)},
	}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		pe.Retryable = false
	case code == http.StatusTooManyRequests:
		pe.Retryable = true
		pe.RateLimited = true
	case code >= 500:
		pe.Retryable = true
	default:
		pe.Retryable = false
	}
	return pe
}

type statusError struct {
	code    int
	snippet string
}

func (e statusError) Error() string {
	return "status " + http.StatusText(e.code) + ": " + e.snippet
}

// classifyTransport wraps a transport-level error. Timeouts are retryable.
func classifyTransport(provider string, err error) error {
	return &domain.ProviderError{
		Provider:  provider,
		Retryable: httpclient.IsTimeout(err),
		Err:       err,
	}
}

// withRetry runs fn with bounded retries and backoff. Non-retryable errors
// and context cancellation stop immediately.
func withRetry(ctx context.Context, fn func() ([]domain.Article, error)) ([]domain.Article, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		articles, err := fn()
		if err == nil {
			return articles, nil
		}
		lastErr = err
		if !domain.IsRetryable(err) {
			break
		}
	}
	return nil, lastErr
}
