package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/internal/history"
	"github.com/EliotAtlani/personal-news/pkg/sources"
)

func syndicatedArticle(url, source string) domain.Article {
	return domain.Article{
		URL:         url,
		Title:       "OpenAI releases new flagship model today",
		Description: "The company announced a new flagship model with a larger context window.",
		Source:      source,
		PublishedAt: testNow.Add(-time.Hour),
	}
}

func TestAggregateCollapsesSyndicatedStories(t *testing.T) {
	reg := sources.NewRegistry()
	reg.Register("one", &stubFetcher{id: "one", articles: []domain.Article{
		syndicatedArticle("https://siteone.com/ai/openai-flagship", "Site One"),
	}})
	reg.Register("two", &stubFetcher{id: "two", articles: []domain.Article{
		syndicatedArticle("https://sitetwo.com/tech/openai-flagship", "Site Two"),
	}})

	a := newTestAggregator(reg, history.NewMemoryStore())
	res, err := a.Aggregate(context.Background(), testProfile("one", "two"))
	require.NoError(t, err)

	require.Len(t, res.Articles, 1)
	assert.Equal(t, "Site One", res.Articles[0].Source)
}

func TestDedupeSimilarByTitle(t *testing.T) {
	first := syndicatedArticle("https://siteone.com/a", "Site One")
	reworded := syndicatedArticle("https://sitetwo.com/b", "Site Two")
	reworded.Title = "OpenAI releases new flagship model"
	reworded.Description = "Coverage of the launch event from a different newsroom entirely."

	out := dedupeSimilar([]domain.Article{first, reworded})
	require.Len(t, out, 1)
	assert.Equal(t, "Site One", out[0].Source)
}

func TestDedupeSimilarByDescription(t *testing.T) {
	first := syndicatedArticle("https://siteone.com/a", "Site One")
	wire := syndicatedArticle("https://sitetwo.com/b", "Site Two")
	// Same wire copy under a different headline.
	wire.Title = "New flagship model announced by OpenAI"

	out := dedupeSimilar([]domain.Article{first, wire})
	assert.Len(t, out, 1)
}

func TestDedupeSimilarKeepsDistinctStories(t *testing.T) {
	a := domain.Article{
		URL:         "https://siteone.com/markets/tokyo",
		Title:       "Tokyo stocks rally on weaker yen",
		Description: "Exporters led the gains as the currency slid for a third session.",
	}
	b := domain.Article{
		URL:         "https://sitetwo.com/health/antibiotic",
		Title:       "New antibiotic shows promise in trials",
		Description: "Researchers reported strong results against resistant infections.",
	}

	out := dedupeSimilar([]domain.Article{a, b})
	assert.Len(t, out, 2)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("openai releases new flagship model", "openai releases new flagship model"), 0.001)
	assert.Greater(t, similarity("openai releases new flagship model today", "openai releases new flagship model"), 0.85)
	assert.Less(t, similarity("tokyo stocks rally on weaker yen", "new antibiotic shows promise in trials"), 0.8)
	assert.InDelta(t, 1.0, similarity("", ""), 0.001)
	assert.Zero(t, similarity("something", ""))
}

func TestSharedSlug(t *testing.T) {
	assert.True(t, sharedSlug(
		"https://siteone.com/news/2025/ai-act-vote-passes",
		"https://sitetwo.com/world/2025/ai-act-vote-passes",
	))

	// Same host is the URL dedup's job, not this one's.
	assert.False(t, sharedSlug(
		"https://siteone.com/news/2025/ai-act-vote-passes",
		"https://siteone.com/world/2025/ai-act-vote-passes",
	))

	// One shared segment is not enough to call it the same story.
	assert.False(t, sharedSlug(
		"https://siteone.com/news/2025/ai-act-vote-passes",
		"https://sitetwo.com/live/2025/markets-open-higher",
	))
}
