package domain

import (
	"errors"
	"fmt"
)

// ProviderError reports a failure from an external provider, either a news
// source fetch or an AI summarization call. Retryable errors (timeouts, 5xx)
// may be retried within the run; fatal ones (bad credentials) skip the
// provider for this run only.
type ProviderError struct {
	Provider    string
	Retryable   bool
	RateLimited bool
	Err         error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ConfigError reports a missing or invalid profile field. It is fatal and
// aborts the run before any fetch.
type ConfigError struct {
	Profile string
	Field   string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("config: profile %q: %s: %s", e.Profile, e.Field, e.Reason)
}

// HistoryError reports an unreadable or unwritable history store. It is
// fatal: the run aborts rather than risk silent re-sends or data loss.
type HistoryError struct {
	Store string
	Op    string
	Err   error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("history store %s: %s: %v", e.Store, e.Op, e.Err)
}

func (e *HistoryError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a provider error worth retrying.
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}

// IsRateLimited reports whether err signals an exhausted provider quota.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.RateLimited
}
