// Package pipeline runs one newsletter cycle for one profile: aggregate,
// score, summarize, hand off, then commit history. History is only
// committed after a successful hand-off, so delivery is at-least-once and
// articles are never silently lost.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/EliotAtlani/personal-news/internal/aggregator"
	"github.com/EliotAtlani/personal-news/internal/config"
	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/internal/history"
	"github.com/EliotAtlani/personal-news/internal/logger"
	"github.com/EliotAtlani/personal-news/internal/relevance"
)

// State is the orchestrator's position in the run.
type State string

const (
	StateFetching         State = "fetching"
	StateDeduping         State = "deduping"
	StateScoring          State = "scoring"
	StateSummarizing      State = "summarizing"
	StateReadyForDelivery State = "ready_for_delivery"
	StateCommitted        State = "committed"
	StateFailed           State = "failed"
)

// Outcome classifies how the run ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeEmpty means no new relevant articles were found; not an error.
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

const (
	// Widening applied once when a profile falls short of its minimum.
	thresholdWidenStep  = 0.2
	thresholdWidenFloor = 0.3
)

// Aggregator collects, dedups and windows articles for a profile.
type Aggregator interface {
	Aggregate(ctx context.Context, profile config.Profile) (aggregator.Result, error)
}

// Summarizer attaches summaries to a batch, reporting how many fell back
// to the extractive path.
type Summarizer interface {
	SummarizeAll(ctx context.Context, articles []domain.Article, length domain.SummaryLength) ([]domain.Article, int, error)
}

// Enricher optionally fills in thin article bodies before summarization.
type Enricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// HandoffFunc delivers the finalized digest. A nil error means every
// configured destination accepted it.
type HandoffFunc func(ctx context.Context, digest domain.Digest) error

// RunResult reports the terminal state of one run.
type RunResult struct {
	Outcome          Outcome
	State            State
	Digest           domain.Digest
	SkippedProviders []string
	FallbackCount    int
}

// Orchestrator drives one profile through the pipeline stages.
type Orchestrator struct {
	agg      Aggregator
	scorer   *relevance.Scorer
	chain    Summarizer
	enricher Enricher
	store    history.Store
	handoff  HandoffFunc
	log      logger.Logger
	now      func() time.Time
}

// New builds an Orchestrator. The enricher may be nil.
func New(agg Aggregator, scorer *relevance.Scorer, chain Summarizer, enricher Enricher, store history.Store, handoff HandoffFunc, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		agg:      agg,
		scorer:   scorer,
		chain:    chain,
		enricher: enricher,
		store:    store,
		handoff:  handoff,
		log:      logger.Ensure(log),
		now:      time.Now,
	}
}

// Run executes one newsletter cycle for the profile.
func (o *Orchestrator) Run(ctx context.Context, profile config.Profile) (RunResult, error) {
	res := RunResult{State: StateFetching, Outcome: OutcomeFailed}

	o.log.InfoObj("pipeline run started", "pipeline_start", map[string]any{
		"profile": profile.Name,
		"topics":  len(profile.Topics),
		"sources": len(profile.Sources),
	})

	agg, err := o.agg.Aggregate(ctx, profile)
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("aggregate articles for %s: %w", profile.Name, err)
	}
	res.SkippedProviders = agg.SkippedProviders
	res.State = StateDeduping

	if err := ctx.Err(); err != nil {
		res.State = StateFailed
		return res, err
	}

	if len(agg.Articles) == 0 {
		res.State = StateCommitted
		res.Outcome = OutcomeEmpty
		res.Digest = o.emptyDigest(profile, agg.SkippedProviders)
		o.log.InfoObj("no new articles this run", "pipeline_empty", map[string]any{
			"profile": profile.Name,
		})
		return res, nil
	}

	// Enrichment runs before scoring so a scraped description both feeds
	// the relevance computation and can rescue a bare-link feed entry.
	batch := agg.Articles
	if o.enricher != nil {
		batch = o.enricher.Enrich(ctx, batch)
	}
	batch = dropThin(batch)

	res.State = StateScoring
	ranked, widened := o.rank(batch, profile)

	if len(ranked) == 0 {
		res.State = StateCommitted
		res.Outcome = OutcomeEmpty
		res.Digest = o.emptyDigest(profile, agg.SkippedProviders)
		o.log.InfoObj("no articles above relevance threshold", "pipeline_empty", map[string]any{
			"profile": profile.Name,
			"fetched": len(agg.Articles),
		})
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		res.State = StateFailed
		return res, err
	}

	res.State = StateSummarizing
	summarized, fallbacks, err := o.chain.SummarizeAll(ctx, ranked, profile.Length())
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("summarize articles for %s: %w", profile.Name, err)
	}
	res.FallbackCount = fallbacks

	digest := domain.Digest{
		Profile:     profile.Name,
		GeneratedAt: o.now().UTC(),
		Articles:    summarized,
	}
	digest.Degraded, digest.DegradedNote = degradation(agg.SkippedProviders, fallbacks, widened)
	res.Digest = digest
	res.State = StateReadyForDelivery

	if err := ctx.Err(); err != nil {
		res.State = StateFailed
		return res, err
	}

	if err := o.handoff(ctx, digest); err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("hand off digest for %s: %w", profile.Name, err)
	}

	if err := o.store.Append(profile.Name, digest.SentKeys()); err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("commit history for %s: %w", profile.Name, err)
	}

	res.State = StateCommitted
	res.Outcome = OutcomeSuccess
	o.log.InfoObj("pipeline run committed", "pipeline_committed", map[string]any{
		"profile":   profile.Name,
		"articles":  len(digest.Articles),
		"fallbacks": fallbacks,
		"degraded":  digest.Degraded,
	})
	return res, nil
}

// rank scores and filters the batch; if the profile falls short of its
// minimum it lowers the threshold once and rescores.
func (o *Orchestrator) rank(articles []domain.Article, profile config.Profile) ([]domain.Article, bool) {
	minScore := profile.Content.MinRelevanceScore
	maxArticles := profile.Content.MaxArticles

	ranked := o.scorer.RankAndFilter(articles, profile.Topics, minScore, maxArticles)
	if len(ranked) >= profile.Content.MinArticles {
		return ranked, false
	}

	widened := minScore - thresholdWidenStep
	if widened < thresholdWidenFloor {
		widened = thresholdWidenFloor
	}
	if widened >= minScore {
		return ranked, false
	}

	o.log.WarnObj("widening relevance threshold", "pipeline_threshold_widened", map[string]any{
		"profile":   profile.Name,
		"threshold": widened,
		"found":     len(ranked),
		"wanted":    profile.Content.MinArticles,
	})
	rescored := o.scorer.RankAndFilter(articles, profile.Topics, widened, maxArticles)
	if len(rescored) <= len(ranked) {
		return ranked, false
	}
	return rescored, true
}

// dropThin discards articles that still have no usable description after
// enrichment; there is nothing for the scorer or summarizer to work with.
func dropThin(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		if aggregator.ThinDescription(art) {
			continue
		}
		out = append(out, art)
	}
	return out
}

func (o *Orchestrator) emptyDigest(profile config.Profile, skipped []string) domain.Digest {
	d := domain.Digest{
		Profile:     profile.Name,
		GeneratedAt: o.now().UTC(),
	}
	d.Degraded, d.DegradedNote = degradation(skipped, 0, false)
	return d
}

// degradation summarizes what went sideways during the run for the
// downstream composer to surface.
func degradation(skipped []string, fallbacks int, widened bool) (bool, string) {
	var notes []string
	if len(skipped) > 0 {
		notes = append(notes, fmt.Sprintf("%d source(s) unavailable", len(skipped)))
	}
	if fallbacks > 0 {
		notes = append(notes, fmt.Sprintf("%d article(s) summarized without AI", fallbacks))
	}
	if widened {
		notes = append(notes, "relevance threshold lowered to fill the digest")
	}
	if len(notes) == 0 {
		return false, ""
	}
	note := notes[0]
	for _, n := range notes[1:] {
		note += "; " + n
	}
	return true, note
}
