package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

const (
	newsAPISourceID = "newsapi"
	newsAPIBaseURL  = "https://newsapi.org/v2"
	newsAPIPageSize = 20
)

// newsAPIFetcher queries the NewsAPI "everything" endpoint per topic.
type newsAPIFetcher struct {
	client httpclient.Client
	apiKey string
}

// NewNewsAPIFetcher builds a fetcher for newsapi.org.
func NewNewsAPIFetcher(client httpclient.Client, apiKey string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &newsAPIFetcher{client: client, apiKey: apiKey}
}

func (f *newsAPIFetcher) ID() string { return newsAPISourceID }

// Fetch queries one page of results per topic and merges them.
func (f *newsAPIFetcher) Fetch(ctx context.Context, q Query) ([]domain.Article, error) {
	if f.apiKey == "" {
		return nil, &domain.ProviderError{
			Provider: newsAPISourceID,
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

func (f *newsAPIFetcher) fetchTopic(ctx context.Context, topic string, from time.Time) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(newsAPIPageSize))

	endpoint := newsAPIBaseURL + "/everything?" + params.Encode()
	headers := map[string]string{"X-Api-Key": f.apiKey}

	resp, err := f.client.Get(ctx, endpoint, headers)
	if err != nil {
		return nil, classifyTransport(newsAPISourceID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, classifyStatus(newsAPISourceID, resp.StatusCode(), resp.Body())
	}

	var payload newsAPIResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &domain.ProviderError{
			Provider: newsAPISourceID,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		if item.URL == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			continue
		}
		articles = append(articles, domain.Article{
			URL:         item.URL,
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			Source:      firstValue(item.Source.Name, "NewsAPI"),
			PublishedAt: publishedAt,
		})
	}
	return articles, nil
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

func firstValue(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
