// Package aggregator fans out to the profile's source adapters, merges
// their results and removes duplicates, both inside the batch and against
// the profile's sent history.
package aggregator

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/EliotAtlani/personal-news/internal/config"
	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/internal/history"
	"github.com/EliotAtlani/personal-news/internal/logger"
	"github.com/EliotAtlani/personal-news/pkg/sources"
)

// defaultMaxPerSource caps how many articles a single source may
// contribute, newest first, so no one feed dominates a digest.
const defaultMaxPerSource = 3

// Aggregator merges adapter results into one deduplicated working set.
type Aggregator struct {
	registry     sources.Registry
	store        history.Store
	log          logger.Logger
	maxPerSource int
	now          func() time.Time
}

// Result is the deduplicated, unordered batch plus the providers that were
// skipped this run because their fetch failed.
type Result struct {
	Articles         []domain.Article
	SkippedProviders []string
}

// New builds an Aggregator over the given adapter registry and history store.
func New(registry sources.Registry, store history.Store, log logger.Logger) *Aggregator {
	return &Aggregator{
		registry:     registry,
		store:        store,
		log:          logger.Ensure(log),
		maxPerSource: defaultMaxPerSource,
		now:          time.Now,
	}
}

type fetchOutcome struct {
	source   string
	articles []domain.Article
	err      error
}

// Aggregate invokes every configured adapter for the profile, one worker
// per source, and reduces the merged results. Adapter failures are
// isolated: the failing provider is skipped and the run continues with
// partial results. Only history store errors abort.
func (a *Aggregator) Aggregate(ctx context.Context, profile config.Profile) (Result, error) {
	now := a.now()
	from := now.Add(-time.Duration(profile.Content.TimeRangeHours) * time.Hour)

	outcomes := a.fetchAll(ctx, profile, from)

	var (
		batch   []domain.Article
		skipped []string
	)
	seen := make(map[string]struct{})

	for _, outcome := range outcomes {
		if outcome.err != nil {
			a.log.WarnObj("source fetch failed, continuing without it", "source_fetch_error", map[string]any{
				"profile": profile.Name,
				"source":  outcome.source,
				"error":   outcome.err.Error(),
			})
			skipped = append(skipped, outcome.source)
			continue
		}

		for _, art := range outcome.articles {
			key, err := NormalizeURL(art.URL)
			if err != nil {
				continue
			}
			art.NormalizedURL = key

			if art.PublishedAt.Before(from) {
				continue
			}
			if !goodQuality(art) {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}

			sent, err := a.store.Contains(profile.Name, key)
			if err != nil {
				return Result{}, err
			}
			if sent {
				continue
			}

			seen[key] = struct{}{}
			batch = append(batch, art)
		}
	}

	batch = dedupeSimilar(batch)
	batch = limitPerSource(batch, a.maxPerSource)

	a.log.InfoObj("aggregation finished", "aggregate_done", map[string]any{
		"profile":  profile.Name,
		"articles": len(batch),
		"skipped":  len(skipped),
	})

	return Result{Articles: batch, SkippedProviders: skipped}, nil
}

// fetchAll runs one worker per configured source. The pool bound equals the
// source count; calls are independent read-only fetches with no ordering
// dependency, so results are re-assembled in configuration order.
func (a *Aggregator) fetchAll(ctx context.Context, profile config.Profile, from time.Time) []fetchOutcome {
	outcomeCh := make(chan fetchOutcome, len(profile.Sources))
	var wg sync.WaitGroup

	for _, source := range profile.Sources {
		fetcher, err := a.registry.FetcherFor(source)
		if err != nil {
			outcomeCh <- fetchOutcome{source: source, err: err}
			continue
		}

		wg.Add(1)
		go func(source string, fetcher sources.Fetcher) {
			defer wg.Done()

			query := sources.Query{
				Topics:  profile.Topics,
				Sources: []string{source},
				From:    from,
			}
			articles, err := fetcher.Fetch(ctx, query)
			outcomeCh <- fetchOutcome{source: source, articles: articles, err: err}
		}(source, fetcher)
	}

	wg.Wait()
	close(outcomeCh)

	byID := make(map[string]fetchOutcome, len(profile.Sources))
	for outcome := range outcomeCh {
		byID[outcome.source] = outcome
	}

	outcomes := make([]fetchOutcome, 0, len(profile.Sources))
	for _, source := range profile.Sources {
		if outcome, ok := byID[source]; ok {
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

// limitPerSource keeps at most max articles per source, newest first.
func limitPerSource(articles []domain.Article, max int) []domain.Article {
	if max <= 0 || len(articles) == 0 {
		return articles
	}

	ordered := make([]domain.Article, len(articles))
	copy(ordered, articles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PublishedAt.After(ordered[j].PublishedAt)
	})

	counts := make(map[string]int)
	out := make([]domain.Article, 0, len(ordered))
	for _, art := range ordered {
		if counts[art.Source] >= max {
			continue
		}
		counts[art.Source]++
		out = append(out, art)
	}
	return out
}

// IsHistoryError reports whether err came from the history store.
func IsHistoryError(err error) bool {
	var he *domain.HistoryError
	return errors.As(err, &he)
}
