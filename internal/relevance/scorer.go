// Package relevance scores articles against a profile's topic set and
// produces the ranked, threshold-filtered sequence the digest is built
// from.
package relevance

import (
	"sort"
	"strings"
	"time"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

const (
	// A synonym hit counts less than a direct topic match.
	expansionWeight = 0.4
	titleBoost      = 0.2
	recencyBoost    = 0.1
	recencyWindow   = 12 * time.Hour
)

// Scorer assigns relevance scores in [0,1] from topic overlap.
type Scorer struct {
	expansions Expansions
	now        func() time.Time
}

// NewScorer builds a Scorer. A nil expansion table disables synonym
// matching entirely.
func NewScorer(expansions Expansions) *Scorer {
	return &Scorer{expansions: expansions, now: time.Now}
}

// Score computes the article's relevance against the topic set and returns
// the score together with the best-matching topic (empty when nothing
// matched).
func (s *Scorer) Score(art domain.Article, topics []string) (float64, string) {
	if len(topics) == 0 {
		return 0, ""
	}

	text := strings.ToLower(art.Title + " " + art.Description + " " + art.Content)
	title := strings.ToLower(art.Title)

	var (
		total     float64
		bestTopic string
		bestScore float64
	)

	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" {
			continue
		}

		topicScore := s.scoreTopic(text, topic)
		total += topicScore
		if topicScore > bestScore {
			bestScore = topicScore
			bestTopic = topic
		}
	}
	score := total / float64(len(topics))

	for _, topic := range topics {
		if strings.Contains(title, strings.ToLower(topic)) {
			score = min(score+titleBoost, 1.0)
			break
		}
	}

	if age := s.now().Sub(art.PublishedAt); age >= 0 && age < recencyWindow {
		score = min(score+recencyBoost, 1.0)
	}

	return score, bestTopic
}

// scoreTopic scores one topic in [0,1]: full weight for the topic's own
// words, reduced weight when only expansion synonyms match.
func (s *Scorer) scoreTopic(text, topic string) float64 {
	words := strings.Fields(topic)
	if len(words) == 0 {
		return 0
	}

	var matches float64
	for _, word := range words {
		if containsWord(text, word) {
			matches++
		} else if containsWordPrefix(text, word) {
			matches += 0.5
		}
	}
	score := min(matches/float64(len(words)), 1.0)
	if score > 0 {
		return score
	}

	for _, synonym := range s.expansions[topic] {
		if strings.Contains(text, strings.ToLower(synonym)) {
			return expansionWeight
		}
	}
	return 0
}

// containsWord reports a whole-word occurrence of word in text.
func containsWord(text, word string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], word)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		idx = start + 1
	}
}

// containsWordPrefix reports word occurring as a prefix of a longer word,
// e.g. "compute" matching "computing".
func containsWordPrefix(text, word string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], word)
		if pos < 0 {
			return false
		}
		start := idx + pos
		if boundaryBefore(text, start) {
			return true
		}
		idx = start + 1
	}
}

func boundaryBefore(text string, i int) bool {
	return i == 0 || !isWordByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	return i >= len(text) || !isWordByte(text[i])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

// RankAndFilter scores every article, drops those under minScore, sorts by
// score descending (ties broken by more recent publish time) and truncates
// to maxArticles. Fewer than expected results is not an error: the floor
// is the caller's policy decision.
func (s *Scorer) RankAndFilter(articles []domain.Article, topics []string, minScore float64, maxArticles int) []domain.Article {
	ranked := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		score, topic := s.Score(art, topics)
		if score < minScore {
			continue
		}
		art.RelevanceScore = score
		art.Category = categoryForTopic(topic)
		ranked = append(ranked, art)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RelevanceScore != ranked[j].RelevanceScore {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})

	if maxArticles > 0 && len(ranked) > maxArticles {
		ranked = ranked[:maxArticles]
	}
	return ranked
}

func categoryForTopic(topic string) string {
	if topic == "" {
		return "General"
	}
	words := strings.Fields(topic)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
