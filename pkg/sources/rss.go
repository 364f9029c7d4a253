package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

const rssFetcherID = "rss"

// rssFetcher resolves feed identifiers from its feed table and parses each
// feed with gofeed. One fetcher instance serves every RSS source id.
type rssFetcher struct {
	feeds  map[string]string
	parser *gofeed.Parser
}

// NewRSSFetcher builds an RSS adapter over the given source-id → feed-URL
// table.
func NewRSSFetcher(feeds map[string]string) Fetcher {
	return &rssFetcher{
		feeds:  feeds,
		parser: gofeed.NewParser(),
	}
}

func (f *rssFetcher) ID() string { return rssFetcherID }

// Fetch parses every requested feed and keeps items inside the time window.
func (f *rssFetcher) Fetch(ctx context.Context, q Query) ([]domain.Article, error) {
	var articles []domain.Article
	for _, source := range q.Sources {
		feedURL, ok := f.feeds[source]
		if !ok {
			continue
		}

		feedArticles, err := withRetry(ctx, func() ([]domain.Article, error) {
			return f.fetchFeed(ctx, source, feedURL, q)
		})
		if err != nil {
			return nil, err
		}
		articles = append(articles, feedArticles...)
	}
	return articles, nil
}

func (f *rssFetcher) fetchFeed(ctx context.Context, source, feedURL string, q Query) ([]domain.Article, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &domain.ProviderError{
			Provider:  source,
			Retryable: true,
			Err:       fmt.Errorf("parse feed: %w", err),
		}
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		published := q.From
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}
		if published.Before(q.From) {
			continue
		}

		content := ""
		if item.Content != "" {
			content = item.Content
		}

		articles = append(articles, domain.Article{
			URL:         item.Link,
			Title:       item.Title,
			Description: item.Description,
			Content:     content,
			Source:      sourceDisplayName(source),
			PublishedAt: published,
		})
	}
	return articles, nil
}

// sourceDisplayName turns a feed id like "bbc-world" into "Bbc World".
func sourceDisplayName(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
