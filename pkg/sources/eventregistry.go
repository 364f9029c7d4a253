package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

const (
	eventRegistrySourceID = "eventregistry"
	eventRegistryEndpoint = "https://eventregistry.org/api/v1/article/getArticles"
	eventRegistryMaxItems = 20

	// Bodies are full article text; only a slice of it belongs in the
	// description field.
	eventRegistryDescRunes = 300
)

// eventRegistryFetcher queries the Event Registry article search, one
// keyword query per topic.
type eventRegistryFetcher struct {
	client httpclient.Client
	apiKey string
	now    func() time.Time
}

// NewEventRegistryFetcher builds a fetcher for eventregistry.org.
func NewEventRegistryFetcher(client httpclient.Client, apiKey string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &eventRegistryFetcher{client: client, apiKey: apiKey, now: time.Now}
}

func (f *eventRegistryFetcher) ID() string { return eventRegistrySourceID }

func (f *eventRegistryFetcher) Fetch(ctx context.Context, q Query) ([]domain.Article, error) {
	if f.apiKey == "" {
		return nil, &domain.ProviderError{
			Provider: eventRegistrySourceID,
			Err:      fmt.Errorf("api key is not configured"),
		}
	}

	var articles []domain.Article
	for _, topic := range q.Topics {
		topicArticles, err := withRetry(ctx, func() ([]domain.Article, error) {
			return f.fetchTopic(ctx, topic, q.From)
		})
		if err != nil {
			return nil, err
		}
		articles = append(articles, topicArticles...)
	}
	return articles, nil
}

func (f *eventRegistryFetcher) fetchTopic(ctx context.Context, topic string, from time.Time) ([]domain.Article, error) {
	body := map[string]any{
		"action":         "getArticles",
		"keyword":        topic,
		"lang":           "eng",
		"articlesSortBy": "date",
		"articlesCount":  eventRegistryMaxItems,
		"dateStart":      from.UTC().Format("2006-01-02"),
		"dateEnd":        f.now().UTC().Format("2006-01-02"),
		"apiKey":         f.apiKey,
	}

	resp, err := f.client.Post(ctx, eventRegistryEndpoint, nil, body)
	if err != nil {
		return nil, classifyTransport(eventRegistrySourceID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, classifyStatus(eventRegistrySourceID, resp.StatusCode(), resp.Body())
	}

	var payload eventRegistryResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &domain.ProviderError{
			Provider: eventRegistrySourceID,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}

	articles := make([]domain.Article, 0, len(payload.Articles.Results))
	for _, item := range payload.Articles.Results {
		if item.URL == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, item.DateTime)
		if err != nil {
			continue
		}
		articles = append(articles, domain.Article{
			URL:         item.URL,
			Title:       item.Title,
			Description: clipRunes(item.Body, eventRegistryDescRunes),
			Content:     item.Body,
			Source:      firstValue(item.Source.Title, "Event Registry"),
			PublishedAt: publishedAt,
		})
	}
	return articles, nil
}

type eventRegistryResponse struct {
	Articles struct {
		Results []struct {
			Title    string `json:"title"`
			Body     string `json:"body"`
			URL      string `json:"url"`
			DateTime string `json:"dateTime"`
			Source   struct {
				Title string `json:"title"`
			} `json:"source"`
		} `json:"results"`
	} `json:"articles"`
}

// clipRunes shortens s to at most n runes, marking the cut with an ellipsis.
func clipRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
