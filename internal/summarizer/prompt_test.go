package summarizer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

func TestParseSummaryWellFormed(t *testing.T) {
	resp := `SUMMARY: The central bank held rates steady.
KEY_POINTS:
- Rates unchanged at 4.5%
- Inflation cooling slowly
- Next review in September
CATEGORY: Business
IMPORTANCE: 0.8`

	sum, err := parseSummary(resp)
	require.NoError(t, err)
	assert.Equal(t, "The central bank held rates steady.", sum.Text)
	assert.Equal(t, []string{
		"Rates unchanged at 4.5%",
		"Inflation cooling slowly",
		"Next review in September",
	}, sum.KeyPoints)
	assert.Equal(t, "Business", sum.Category)
	assert.InDelta(t, 0.8, sum.Importance, 0.001)
}

func TestParseSummaryLenient(t *testing.T) {
	// Extra prose, star bullets, missing category.
	resp := `Here is the analysis you asked for.

SUMMARY: Something happened.
KEY_POINTS:
* first point
* second point`

	sum, err := parseSummary(resp)
	require.NoError(t, err)
	assert.Equal(t, "Something happened.", sum.Text)
	assert.Equal(t, []string{"first point", "second point"}, sum.KeyPoints)
	assert.Equal(t, "General", sum.Category)
	assert.InDelta(t, 0.5, sum.Importance, 0.001)
}

func TestParseSummaryMangledImportanceDefaults(t *testing.T) {
	sum, err := parseSummary("SUMMARY: Something happened.\nIMPORTANCE: very high")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sum.Importance, 0.001)
}

func TestParseSummaryMissingSummaryLineFails(t *testing.T) {
	_, err := parseSummary("KEY_POINTS:\n- something\nCATEGORY: General")
	assert.Error(t, err)
}

func TestBuildPromptContainsArticleAndFormat(t *testing.T) {
	art := domain.Article{
		Title:       "Grid storage hits new record",
		Description: "Utility-scale batteries set a discharge record.",
		Source:      "Example Wire",
	}

	prompt := buildPrompt(art, domain.LengthShort)
	assert.Contains(t, prompt, "Grid storage hits new record")
	assert.Contains(t, prompt, "Example Wire")
	assert.Contains(t, prompt, "SUMMARY:")
	assert.Contains(t, prompt, "IMPORTANCE:")
	assert.Contains(t, prompt, "1-2 sentences")
}

func TestBuildPromptCapsContent(t *testing.T) {
	art := domain.Article{
		Title:       "Long read",
		Description: "desc",
		Content:     strings.Repeat("x", maxPromptContentLen+500),
		Source:      "Example Wire",
	}

	prompt := buildPrompt(art, domain.LengthMedium)
	assert.NotContains(t, prompt, strings.Repeat("x", maxPromptContentLen+1))
}

func TestBuildPromptCutsContentAtRuneBoundary(t *testing.T) {
	art := domain.Article{
		Title:       "Long read",
		Description: "desc",
		// 3-byte runes so the byte cap lands mid-rune.
		Content: strings.Repeat("世", maxPromptContentLen),
		Source:  "Example Wire",
	}

	prompt := buildPrompt(art, domain.LengthMedium)
	assert.True(t, utf8.ValidString(prompt))
}
