package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderErrorClassification(t *testing.T) {
	retryable := &ProviderError{Provider: "newsapi", Retryable: true, Err: errors.New("timeout")}
	assert.True(t, IsRetryable(retryable))
	assert.False(t, IsRateLimited(retryable))

	limited := &ProviderError{Provider: "openai", Retryable: true, RateLimited: true, Err: errors.New("429")}
	assert.True(t, IsRateLimited(limited))

	fatal := &ProviderError{Provider: "guardian", Err: errors.New("bad key")}
	assert.False(t, IsRetryable(fatal))
}

func TestProviderErrorClassificationThroughWrapping(t *testing.T) {
	inner := &ProviderError{Provider: "gemini", Retryable: true, RateLimited: true, Err: errors.New("quota")}
	wrapped := fmt.Errorf("summarize: %w", inner)

	assert.True(t, IsRetryable(wrapped))
	assert.True(t, IsRateLimited(wrapped))
}

func TestClassificationOfPlainErrors(t *testing.T) {
	err := errors.New("something else")
	assert.False(t, IsRetryable(err))
	assert.False(t, IsRateLimited(err))
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("root cause")
	pe := &ProviderError{Provider: "newsapi", Err: inner}
	assert.ErrorIs(t, pe, inner)
}

func TestErrorMessages(t *testing.T) {
	pe := &ProviderError{Provider: "newsapi", Err: errors.New("boom")}
	assert.Contains(t, pe.Error(), "newsapi")

	ce := &ConfigError{Profile: "tech", Field: "topics", Reason: "required"}
	assert.Contains(t, ce.Error(), "tech")
	assert.Contains(t, ce.Error(), "topics")

	he := &HistoryError{Store: "data/history.db", Op: "append", Err: errors.New("disk full")}
	assert.Contains(t, he.Error(), "append")
}
