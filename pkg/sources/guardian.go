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
	guardianSourceID = "guardian"
	guardianBaseURL  = "https://content.guardianapis.com"
	guardianPageSize = 20
)

// guardianFetcher queries The Guardian content API per topic. The API
// works without a key at a reduced rate, so the key is optional.
type guardianFetcher struct {
	client httpclient.Client
	apiKey string
}

// NewGuardianFetcher builds a fetcher for The Guardian content API.
func NewGuardianFetcher(client httpclient.Client, apiKey string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &guardianFetcher{client: client, apiKey: apiKey}
}

func (f *guardianFetcher) ID() string { return guardianSourceID }

func (f *guardianFetcher) Fetch(ctx context.Context, q Query) ([]domain.Article, error) {
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

func (f *guardianFetcher) fetchTopic(ctx context.Context, topic string, from time.Time) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("from-date", from.UTC().Format("2006-01-02"))
	params.Set("show-fields", "headline,trailText,bodyText")
	params.Set("order-by", "relevance")
	params.Set("page-size", strconv.Itoa(guardianPageSize))
	if f.apiKey != "" {
		params.Set("api-key", f.apiKey)
	}

	endpoint := guardianBaseURL + "/search?" + params.Encode()

	resp, err := f.client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, classifyTransport(guardianSourceID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, classifyStatus(guardianSourceID, resp.StatusCode(), resp.Body())
	}

	var payload guardianResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &domain.ProviderError{
			Provider: guardianSourceID,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}

	articles := make([]domain.Article, 0, len(payload.Response.Results))
	for _, item := range payload.Response.Results {
		if item.WebURL == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, item.WebPublicationDate)
		if err != nil {
			continue
		}
		articles = append(articles, domain.Article{
			URL:         item.WebURL,
			Title:       firstValue(item.Fields.Headline, item.WebTitle),
			Description: item.Fields.TrailText,
			Content:     item.Fields.BodyText,
			Source:      "The Guardian",
			PublishedAt: publishedAt,
		})
	}
	return articles, nil
}

type guardianResponse struct {
	Response struct {
		Results []struct {
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				Headline  string `json:"headline"`
				TrailText string `json:"trailText"`
				BodyText  string `json:"bodyText"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}
