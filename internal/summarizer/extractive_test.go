package summarizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

func TestExtractiveTruncatesByLength(t *testing.T) {
	art := domain.Article{
		Title:       "Four sentence story",
		Description: "First sentence here. Second sentence here. Third sentence here. Fourth sentence here.",
	}

	e := NewExtractive()

	short, err := e.Summarize(context.Background(), art, domain.LengthShort)
	require.NoError(t, err)
	assert.Equal(t, "First sentence here. Second sentence here.", short.Text)

	long, err := e.Summarize(context.Background(), art, domain.LengthLong)
	require.NoError(t, err)
	assert.Equal(t, art.Description, long.Text)
}

func TestExtractiveFallsBackThroughFields(t *testing.T) {
	e := NewExtractive()

	contentOnly := domain.Article{Title: "T", Content: "Body text only."}
	sum, err := e.Summarize(context.Background(), contentOnly, domain.LengthMedium)
	require.NoError(t, err)
	assert.Equal(t, "Body text only.", sum.Text)

	titleOnly := domain.Article{Title: "Just a headline"}
	sum, err = e.Summarize(context.Background(), titleOnly, domain.LengthMedium)
	require.NoError(t, err)
	assert.Equal(t, "Just a headline", sum.Text)
	assert.Equal(t, domain.SummaryMethodExtractive, sum.Method)
	assert.InDelta(t, 0.5, sum.Importance, 0.001)
}

func TestExtractiveKeyPointsFromBullets(t *testing.T) {
	art := domain.Article{
		Title:       "Release notes roundup",
		Description: "The new release is out.",
		Content:     "Highlights:\n- faster startup\n- lower memory use\n- new dashboard\n- one more thing",
	}

	sum, err := NewExtractive().Summarize(context.Background(), art, domain.LengthMedium)
	require.NoError(t, err)
	assert.Equal(t, []string{"faster startup", "lower memory use", "new dashboard"}, sum.KeyPoints)
}

func TestExtractiveKeepsExistingCategory(t *testing.T) {
	art := domain.Article{
		Title:       "Anything at all",
		Description: "Words with no keyword hits whatsoever.",
		Category:    "Space Exploration",
	}

	sum, err := NewExtractive().Summarize(context.Background(), art, domain.LengthMedium)
	require.NoError(t, err)
	assert.Equal(t, "Space Exploration", sum.Category)
}

func TestCategorizeKeywordTable(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"New software ships early", "Technology"},
		{"Hospital expands treatment wing", "Health"},
		{"Championship ends in upset", "Sports"},
		{"Nothing matches this headline", "General"},
	}

	for _, tc := range cases {
		got := categorize(domain.Article{Title: tc.title})
		assert.Equal(t, tc.want, got, tc.title)
	}
}

func TestSentencesSplitter(t *testing.T) {
	got := sentences("One. Two! Three? And a trailing fragment")
	assert.Equal(t, []string{"One.", "Two!", "Three?", "And a trailing fragment"}, got)

	// Decimal points do not split.
	got = sentences("Growth hit 4.5 percent. More later.")
	assert.Equal(t, []string{"Growth hit 4.5 percent.", "More later."}, got)
}
