package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURLEquivalence(t *testing.T) {
	variants := []string{
		"https://example.com/a?utm_source=x",
		"https://example.com/a/",
		"HTTPS://EXAMPLE.COM/a",
		"https://example.com/a#section-2",
		"https://example.com/a?fbclid=abc123",
	}

	want, err := NormalizeURL("https://example.com/a")
	require.NoError(t, err)

	for _, raw := range variants {
		got, err := NormalizeURL(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalizeURLKeepsMeaningfulQuery(t *testing.T) {
	got, err := NormalizeURL("https://example.com/search?q=go&utm_campaign=news")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search?q=go", got)
}

func TestNormalizeURLPreservesPathCase(t *testing.T) {
	got, err := NormalizeURL("https://Example.com/Articles/One")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/Articles/One", got)
}

func TestNormalizeURLRootSlash(t *testing.T) {
	a, err := NormalizeURL("https://example.com/")
	require.NoError(t, err)
	b, err := NormalizeURL("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalizeURLRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-url", "/relative/path"} {
		_, err := NormalizeURL(raw)
		assert.Error(t, err, raw)
	}
}
