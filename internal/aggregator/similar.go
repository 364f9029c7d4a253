package aggregator

import (
	"net/url"
	"strings"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

const (
	titleSimilarityThreshold = 0.85
	descSimilarityThreshold  = 0.80

	// Path segments shorter than this carry no slug information.
	minSlugPartLen     = 4
	minCommonSlugParts = 2
)

// dedupeSimilar drops articles that tell the same story as one already in
// the batch even though their URLs differ: near-identical titles or
// descriptions, or the same slug syndicated under another domain. First
// seen wins.
func dedupeSimilar(articles []domain.Article) []domain.Article {
	if len(articles) <= 1 {
		return articles
	}

	kept := make([]domain.Article, 0, len(articles))
	for _, candidate := range articles {
		dup := false
		for _, existing := range kept {
			if sameStory(candidate, existing) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func sameStory(a, b domain.Article) bool {
	if similarity(strings.ToLower(a.Title), strings.ToLower(b.Title)) > titleSimilarityThreshold {
		return true
	}
	if a.Description != "" && b.Description != "" &&
		similarity(strings.ToLower(a.Description), strings.ToLower(b.Description)) > descSimilarityThreshold {
		return true
	}
	return sharedSlug(a.URL, b.URL)
}

// similarity is the length of the longest common subsequence of the two
// strings relative to their combined length, in [0,1]. Identical strings
// score 1, disjoint strings 0.
func similarity(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 && len(br) == 0 {
		return 1
	}
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for i := 1; i <= len(ar); i++ {
		for j := 1; j <= len(br); j++ {
			switch {
			case ar[i-1] == br[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return 2 * float64(prev[len(br)]) / float64(len(ar)+len(br))
}

// sharedSlug reports whether two URLs on different hosts share enough
// path segments to look like the same syndicated story.
func sharedSlug(rawA, rawB string) bool {
	ua, err := url.Parse(rawA)
	if err != nil {
		return false
	}
	ub, err := url.Parse(rawB)
	if err != nil {
		return false
	}
	if strings.EqualFold(ua.Hostname(), ub.Hostname()) {
		return false
	}

	partsA := slugParts(ua.Path)
	if len(partsA) < minCommonSlugParts {
		return false
	}

	common := 0
	for _, part := range slugPartList(ub.Path) {
		if _, ok := partsA[part]; ok {
			common++
		}
	}
	return common >= minCommonSlugParts
}

func slugParts(path string) map[string]struct{} {
	parts := make(map[string]struct{})
	for _, part := range slugPartList(path) {
		parts[part] = struct{}{}
	}
	return parts
}

func slugPartList(path string) []string {
	var out []string
	for _, part := range strings.Split(strings.ToLower(path), "/") {
		if len(part) >= minSlugPartLen {
			out = append(out, part)
		}
	}
	return out
}
