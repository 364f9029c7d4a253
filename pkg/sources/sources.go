// Package sources contains the news provider adapters. Each adapter
// normalizes a provider-specific response into domain articles; the
// registry maps configured source identifiers onto adapters.
package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

// Query is the fetch request handed to an adapter: the profile's topics,
// the source identifiers the adapter should cover and the start of the
// time window.
type Query struct {
	Topics  []string
	Sources []string
	From    time.Time
}

// Fetcher fetches zero or more normalized articles for a query, or fails
// with a ProviderError carrying the provider identity.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, q Query) ([]domain.Article, error)
}

// Registry resolves configured source identifiers to fetchers.
type Registry interface {
	Register(source string, f Fetcher)
	FetcherFor(source string) (Fetcher, error)
}

type registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewRegistry returns an empty fetcher registry.
func NewRegistry() Registry {
	return &registry{fetchers: make(map[string]Fetcher)}
}

// Register associates a source identifier with a fetcher. A single fetcher
// may serve many identifiers (the RSS adapter serves one per feed).
func (r *registry) Register(source string, f Fetcher) {
	if source = strings.ToLower(strings.TrimSpace(source)); source == "" || f == nil {
		return
	}

	r.mu.Lock()
	r.fetchers[source] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given source identifier.
func (r *registry) FetcherFor(source string) (Fetcher, error) {
	if source = strings.ToLower(strings.TrimSpace(source)); source == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchers[source]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for source %q", source)
}

// Credentials holds the per-provider API keys the adapters need. Opaque
// strings, never logged.
type Credentials struct {
	NewsAPI       string
	Guardian      string
	EventRegistry string
}

// DefaultHTTPClient returns a tuned HTTP client for source adapters.
func DefaultHTTPClient() httpclient.Client { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultRegistry wires up the known adapters: the NewsAPI, Guardian and
// Event Registry search APIs plus one RSS entry per known feed.
func DefaultRegistry(client httpclient.Client, creds Credentials) Registry {
	if client == nil {
		client = DefaultHTTPClient()
	}

	reg := NewRegistry()
	if creds.NewsAPI != "" {
		reg.Register(newsAPISourceID, NewNewsAPIFetcher(client, creds.NewsAPI))
	}
	if creds.EventRegistry != "" {
		reg.Register(eventRegistrySourceID, NewEventRegistryFetcher(client, creds.EventRegistry))
	}
	reg.Register(guardianSourceID, NewGuardianFetcher(client, creds.Guardian))

	rss := NewRSSFetcher(DefaultFeeds())
	for id := range DefaultFeeds() {
		reg.Register(id, rss)
	}
	return reg
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
