package summarizer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

const (
	maxPromptContentLen = 2000

	// Assumed when the provider omits or mangles the IMPORTANCE line.
	defaultImportance = 0.5
)

const systemInstruction = "You are a professional news summarizer. Provide concise, accurate summaries and analysis."

// targetLength maps the configured summary length onto an approximate
// sentence count. Approximate: not an exact contract with the provider.
func targetLength(length domain.SummaryLength) string {
	switch length {
	case domain.LengthShort:
		return "1-2 sentences"
	case domain.LengthLong:
		return "3-4 sentences"
	default:
		return "2-3 sentences"
	}
}

// buildPrompt renders the shared line-protocol prompt all AI providers use.
func buildPrompt(art domain.Article, length domain.SummaryLength) string {
	var b strings.Builder
	b.WriteString("Title: " + art.Title + "\n")
	b.WriteString("Description: " + art.Description + "\n")
	if art.Content != "" {
		content := art.Content
		if len(content) > maxPromptContentLen {
			// Never cut in the middle of a multi-byte rune.
			cut := maxPromptContentLen
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut]
		}
		b.WriteString("Content: " + content + "\n")
	}
	b.WriteString("Source: " + art.Source)

	return fmt.Sprintf(`Analyze this news article and provide:
1. A brief summary in %s
2. 3-5 key points as bullet points
3. A category (Technology, Politics, Science, Business, Health, Sports, Entertainment, or General)
4. An importance score from 0.0 to 1.0 (0.0 = not important, 1.0 = extremely important)

Article:
%s

Format your response exactly as:
SUMMARY: [brief summary]
KEY_POINTS:
- [point 1]
- [point 2]
- [point 3]
CATEGORY: [category]
IMPORTANCE: [score]`, targetLength(length), b.String())
}

// parseSummary decodes the line-protocol response leniently. A response
// without a SUMMARY line is a provider failure.
func parseSummary(text string) (domain.Summary, error) {
	var (
		summary domain.Summary
		section string
	)
	summary.Importance = defaultImportance

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			summary.Text = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
			section = "summary"
		case strings.HasPrefix(line, "KEY_POINTS:"):
			section = "key_points"
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "KEY_POINTS:")); rest != "" {
				summary.KeyPoints = append(summary.KeyPoints, rest)
			}
		case strings.HasPrefix(line, "CATEGORY:"):
			summary.Category = strings.TrimSpace(strings.TrimPrefix(line, "CATEGORY:"))
			section = ""
		case strings.HasPrefix(line, "IMPORTANCE:"):
			if score, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "IMPORTANCE:")), 64); err == nil {
				summary.Importance = score
			}
			section = ""
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•"):
			if section == "key_points" {
				if point := strings.TrimSpace(strings.TrimLeft(line, "-*• ")); point != "" {
					summary.KeyPoints = append(summary.KeyPoints, point)
				}
			}
		case line != "" && section == "key_points":
			summary.KeyPoints = append(summary.KeyPoints, line)
		}
	}

	if summary.Text == "" {
		return domain.Summary{}, fmt.Errorf("response contains no SUMMARY line")
	}
	if summary.Category == "" {
		summary.Category = "General"
	}
	return summary, nil
}
