// Package summarizer produces per-article summaries through an ordered
// chain of AI providers, degrading to a local extractive summary when
// every provider fails. AI availability never blocks a run.
package summarizer

import (
	"context"
	"sync"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/internal/logger"
)

// Provider turns an article into a summary, or fails with a ProviderError.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, art domain.Article, length domain.SummaryLength) (domain.Summary, error)
}

// Chain tries providers in configured order per article. A provider that
// reports a rate limit is skipped for the remainder of the run instead of
// being retried per article against a known-exhausted quota.
type Chain struct {
	providers     []Provider
	fallback      Provider
	log           logger.Logger
	maxConcurrent int

	mu        sync.Mutex
	exhausted map[string]struct{}
}

// NewChain builds a summarize chain over the ordered provider list.
func NewChain(providers []Provider, log logger.Logger, maxConcurrent int) *Chain {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Chain{
		providers:     providers,
		fallback:      NewExtractive(),
		log:           logger.Ensure(log),
		maxConcurrent: maxConcurrent,
		exhausted:     make(map[string]struct{}),
	}
}

// SummarizeAll summarizes every article concurrently under a bounded
// semaphore, preserving the input (score-determined) order in the output.
// It returns the number of articles that fell back to extractive
// summaries. The only error returned is context cancellation.
func (c *Chain) SummarizeAll(ctx context.Context, articles []domain.Article, length domain.SummaryLength) ([]domain.Article, int, error) {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	sem := make(chan struct{}, c.maxConcurrent)
	var (
		wg        sync.WaitGroup
		countMu   sync.Mutex
		fallbacks int
	)

	for i := range out {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			summary := c.summarizeOne(ctx, out[i], length)
			out[i].Summary = &summary
			if summary.Method == domain.SummaryMethodExtractive {
				countMu.Lock()
				fallbacks++
				countMu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return out, fallbacks, nil
}

// summarizeOne walks the provider chain and falls back to the extractive
// summary on total failure. It never fails.
func (c *Chain) summarizeOne(ctx context.Context, art domain.Article, length domain.SummaryLength) domain.Summary {
	for _, provider := range c.providers {
		if provider == nil || c.isExhausted(provider.Name()) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		summary, err := provider.Summarize(ctx, art, length)
		if err == nil {
			return summary
		}

		if domain.IsRateLimited(err) {
			c.markExhausted(provider.Name())
			c.log.WarnObj("provider rate limited, skipping for the rest of the run", "summarize_rate_limited", map[string]any{
				"provider": provider.Name(),
			})
			continue
		}

		c.log.WarnObj("provider summarization failed, trying next", "summarize_provider_error", map[string]any{
			"provider": provider.Name(),
			"url":      art.URL,
			"error":    err.Error(),
		})
	}

	summary, _ := c.fallback.Summarize(ctx, art, length)
	return summary
}

func (c *Chain) isExhausted(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.exhausted[name]
	return ok
}

func (c *Chain) markExhausted(name string) {
	c.mu.Lock()
	c.exhausted[name] = struct{}{}
	c.mu.Unlock()
}
