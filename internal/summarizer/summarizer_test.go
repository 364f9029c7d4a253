package summarizer

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

type fakeProvider struct {
	name    string
	err     error
	calls   atomic.Int32
	summary domain.Summary
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Summarize(_ context.Context, _ domain.Article, _ domain.SummaryLength) (domain.Summary, error) {
	p.calls.Add(1)
	if p.err != nil {
		return domain.Summary{}, p.err
	}
	return p.summary, nil
}

func testArticles(n int) []domain.Article {
	arts := make([]domain.Article, n)
	for i := range arts {
		arts[i] = domain.Article{
			URL:         fmt.Sprintf("https://example.com/%d", i),
			Title:       fmt.Sprintf("Headline number %d", i),
			Description: "Something notable happened today. Experts are not surprised. More below.",
		}
	}
	return arts
}

func TestChainUsesFirstHealthyProvider(t *testing.T) {
	primary := &fakeProvider{name: "primary", summary: domain.Summary{Text: "from primary", Method: "ai:primary"}}
	secondary := &fakeProvider{name: "secondary", summary: domain.Summary{Text: "from secondary", Method: "ai:secondary"}}
	chain := NewChain([]Provider{primary, secondary}, nil, 2)

	out, fallbacks, err := chain.SummarizeAll(context.Background(), testArticles(1), domain.LengthMedium)
	require.NoError(t, err)
	assert.Zero(t, fallbacks)
	require.NotNil(t, out[0].Summary)
	assert.Equal(t, "from primary", out[0].Summary.Text)
	assert.Zero(t, secondary.calls.Load())
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: &domain.ProviderError{
		Provider: "broken", Retryable: true, Err: fmt.Errorf("boom"),
	}}
	healthy := &fakeProvider{name: "healthy", summary: domain.Summary{Text: "ok", Method: "ai:healthy"}}
	chain := NewChain([]Provider{broken, healthy}, nil, 2)

	out, fallbacks, err := chain.SummarizeAll(context.Background(), testArticles(1), domain.LengthMedium)
	require.NoError(t, err)
	assert.Zero(t, fallbacks)
	assert.Equal(t, "ok", out[0].Summary.Text)
}

func TestChainExhaustionYieldsNonEmptyExtractive(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: &domain.ProviderError{
		Provider: "failing", Err: fmt.Errorf("no quota"),
	}}
	chain := NewChain([]Provider{failing}, nil, 2)

	out, fallbacks, err := chain.SummarizeAll(context.Background(), testArticles(3), domain.LengthMedium)
	require.NoError(t, err)
	assert.Equal(t, 3, fallbacks)

	for _, art := range out {
		require.NotNil(t, art.Summary)
		assert.NotEmpty(t, art.Summary.Text)
		assert.Equal(t, domain.SummaryMethodExtractive, art.Summary.Method)
	}
}

func TestChainRemembersRateLimitedProvider(t *testing.T) {
	limited := &fakeProvider{name: "limited", err: &domain.ProviderError{
		Provider: "limited", RateLimited: true, Retryable: true, Err: fmt.Errorf("429"),
	}}
	healthy := &fakeProvider{name: "healthy", summary: domain.Summary{Text: "ok", Method: "ai:healthy"}}
	chain := NewChain([]Provider{limited, healthy}, nil, 1)

	out, fallbacks, err := chain.SummarizeAll(context.Background(), testArticles(5), domain.LengthMedium)
	require.NoError(t, err)
	assert.Zero(t, fallbacks)

	// Rate limit is remembered for the run: one attempt, not one per article.
	assert.Equal(t, int32(1), limited.calls.Load())
	assert.Equal(t, int32(5), healthy.calls.Load())
	for _, art := range out {
		assert.Equal(t, "ok", art.Summary.Text)
	}
}

func TestChainPreservesOrder(t *testing.T) {
	healthy := &fakeProvider{name: "healthy", summary: domain.Summary{Text: "ok", Method: "ai:healthy"}}
	chain := NewChain([]Provider{healthy}, nil, 3)

	arts := testArticles(10)
	out, _, err := chain.SummarizeAll(context.Background(), arts, domain.LengthShort)
	require.NoError(t, err)

	require.Len(t, out, 10)
	for i, art := range out {
		assert.Equal(t, arts[i].URL, art.URL)
	}
}

func TestChainNoProvidersStillSummarizes(t *testing.T) {
	chain := NewChain(nil, nil, 2)

	out, fallbacks, err := chain.SummarizeAll(context.Background(), testArticles(2), domain.LengthLong)
	require.NoError(t, err)
	assert.Equal(t, 2, fallbacks)
	for _, art := range out {
		require.NotNil(t, art.Summary)
		assert.NotEmpty(t, art.Summary.Text)
	}
}

func TestChainCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(nil, nil, 2)
	_, _, err := chain.SummarizeAll(ctx, testArticles(3), domain.LengthMedium)
	assert.ErrorIs(t, err, context.Canceled)
}
