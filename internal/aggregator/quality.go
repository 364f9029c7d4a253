package aggregator

import (
	"regexp"
	"strings"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

const (
	minTitleLen       = 10
	minDescriptionLen = 20
)

// Markers for removed, teaser or paywalled entries that are noise in a
// newsletter.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[removed\]`),
	regexp.MustCompile(`\[deleted\]`),
	regexp.MustCompile(`sign up`),
	regexp.MustCompile(`subscribe now`),
	regexp.MustCompile(`paywall`),
}

// goodQuality reports whether an article is worth keeping at all.
// Description length is not checked here: bare-link feed entries get a
// chance to be enriched first and are judged with ThinDescription after.
func goodQuality(art domain.Article) bool {
	if len(strings.TrimSpace(art.Title)) < minTitleLen {
		return false
	}

	text := strings.ToLower(art.Title + " " + art.Description)
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(text) {
			return false
		}
	}
	return true
}

// ThinDescription reports whether the article still lacks a usable
// description. Checked after enrichment has had its shot at filling one in.
func ThinDescription(art domain.Article) bool {
	return len(strings.TrimSpace(art.Description)) < minDescriptionLen
}
