package domain

import "time"

// Domain contains core models shared across the pipeline.

// SummaryLength selects the approximate size of a generated summary.
type SummaryLength string

const (
	LengthShort  SummaryLength = "short"
	LengthMedium SummaryLength = "medium"
	LengthLong   SummaryLength = "long"
)

// SummaryMethodExtractive marks summaries produced without an AI provider.
const SummaryMethodExtractive = "extractive"

// Article is one fetched news item. NormalizedURL is the identity key:
// two articles with the same normalized URL are the same entity, across
// providers and across runs.
type Article struct {
	URL           string    `json:"url"`
	NormalizedURL string    `json:"-"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Content       string    `json:"content,omitempty"`
	Source        string    `json:"source"`
	PublishedAt   time.Time `json:"published_at"`

	// Derived fields, populated by the pipeline.
	RelevanceScore float64  `json:"relevance_score"`
	Category       string   `json:"category,omitempty"`
	Summary        *Summary `json:"summary,omitempty"`
}

// Summary holds the summarized form of an article. Method records which
// provider produced it, or "extractive" for the local fallback.
// Importance is the provider's own 0.0-1.0 estimate of how much the story
// matters, 0.5 when the provider gave none.
type Summary struct {
	Text       string   `json:"text"`
	KeyPoints  []string `json:"key_points"`
	Category   string   `json:"category"`
	Importance float64  `json:"importance"`
	Method     string   `json:"method"`
}

// Digest is the finalized article set for one profile and one run,
// ordered by relevance. It is immutable once handed off.
type Digest struct {
	Profile      string    `json:"profile"`
	GeneratedAt  time.Time `json:"generated_at"`
	Articles     []Article `json:"articles"`
	Degraded     bool      `json:"degraded"`
	DegradedNote string    `json:"degraded_note,omitempty"`
}

// SentKeys returns the normalized URLs of the digest's articles, the ids
// recorded in history after a successful hand-off.
func (d Digest) SentKeys() []string {
	keys := make([]string, 0, len(d.Articles))
	for _, art := range d.Articles {
		key := art.NormalizedURL
		if key == "" {
			key = art.URL
		}
		keys = append(keys, key)
	}
	return keys
}
