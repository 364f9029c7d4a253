package summarizer

import (
	"context"
	"strings"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

const maxKeyPoints = 3

// Extractive is the non-AI fallback: it truncates the article's own text
// to the first few sentences and derives key points from simple
// heuristics. It never fails, which guarantees the run never blocks on AI
// availability.
type Extractive struct{}

// NewExtractive returns the extractive fallback provider.
func NewExtractive() *Extractive { return &Extractive{} }

func (*Extractive) Name() string { return domain.SummaryMethodExtractive }

func (e *Extractive) Summarize(_ context.Context, art domain.Article, length domain.SummaryLength) (domain.Summary, error) {
	text := strings.TrimSpace(art.Description)
	if text == "" {
		text = strings.TrimSpace(art.Content)
	}
	if text == "" {
		text = strings.TrimSpace(art.Title)
	}

	parts := sentences(text)
	n := sentenceTarget(length)
	if len(parts) > n {
		parts = parts[:n]
	}
	summaryText := strings.Join(parts, " ")

	keyPoints := bulletLines(art.Content)
	if len(keyPoints) == 0 {
		for _, s := range sentences(text) {
			if len(keyPoints) == maxKeyPoints {
				break
			}
			keyPoints = append(keyPoints, s)
		}
	}
	if len(keyPoints) > maxKeyPoints {
		keyPoints = keyPoints[:maxKeyPoints]
	}

	category := art.Category
	if category == "" {
		category = categorize(art)
	}

	return domain.Summary{
		Text:       summaryText,
		KeyPoints:  keyPoints,
		Category:   category,
		Importance: defaultImportance,
		Method:     domain.SummaryMethodExtractive,
	}, nil
}

func sentenceTarget(length domain.SummaryLength) int {
	switch length {
	case domain.LengthShort:
		return 2
	case domain.LengthLong:
		return 4
	default:
		return 3
	}
}

// sentences splits text on sentence terminators. Good enough for
// newsletter prose; no attempt at abbreviation handling.
func sentences(text string) []string {
	var (
		out   []string
		start int
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' {
				continue
			}
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// bulletLines pulls bullet-like lines out of the raw content.
func bulletLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•") {
			if point := strings.TrimSpace(strings.TrimLeft(line, "-*• ")); point != "" {
				out = append(out, point)
			}
		}
		if len(out) == maxKeyPoints {
			break
		}
	}
	return out
}

// Keyword table for rule-based categorization when no topic matched.
// Ordered: the first matching category wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"Technology", []string{"tech", "ai", "software", "digital", "computer", "internet", "app"}},
	{"Science", []string{"research", "study", "scientist", "discovery", "climate", "space"}},
	{"Business", []string{"company", "business", "market", "economy", "financial", "stock"}},
	{"Health", []string{"health", "medical", "hospital", "disease", "treatment", "vaccine"}},
	{"Politics", []string{"government", "political", "election", "president", "congress", "policy"}},
	{"Sports", []string{"sport", "game", "team", "player", "championship", "olympic"}},
}

func categorize(art domain.Article) string {
	text := strings.ToLower(art.Title + " " + art.Description)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.name
			}
		}
	}
	return "General"
}
