package enrich

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

type fakeResponse struct {
	status int
	body   []byte
}

func (r fakeResponse) StatusCode() int { return r.status }
func (r fakeResponse) Body() []byte    { return r.body }

type fakeClient struct {
	mu    sync.Mutex
	pages map[string]fakeResponse
	errs  map[string]error
	calls []string
}

func (c *fakeClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	c.mu.Lock()
	c.calls = append(c.calls, url)
	c.mu.Unlock()

	if err, ok := c.errs[url]; ok {
		return nil, err
	}
	if resp, ok := c.pages[url]; ok {
		return resp, nil
	}
	return fakeResponse{status: 404}, nil
}

func (c *fakeClient) Post(context.Context, string, map[string]string, any) (httpclient.Response, error) {
	return nil, fmt.Errorf("not used")
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

const articlePage = `<html><head>
<meta property="og:title" content="Scraped Title" />
<meta property="og:description" content="A much better description scraped from the page itself." />
</head><body></body></html>`

func TestEnrichFillsThinDescriptions(t *testing.T) {
	client := &fakeClient{pages: map[string]fakeResponse{
		"https://example.com/thin": {status: 200, body: []byte(articlePage)},
	}}

	e := New(client, nil, 0)
	out := e.Enrich(context.Background(), []domain.Article{
		{URL: "https://example.com/thin", Title: "Original Title", Description: "short"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "A much better description scraped from the page itself.", out[0].Description)
	// Existing titles are kept.
	assert.Equal(t, "Original Title", out[0].Title)
}

func TestEnrichSkipsHealthyArticles(t *testing.T) {
	client := &fakeClient{}

	e := New(client, nil, 0)
	out := e.Enrich(context.Background(), []domain.Article{
		{
			URL:         "https://example.com/full",
			Title:       "Complete article",
			Description: "This description is comfortably long enough to skip enrichment.",
		},
	})

	require.Len(t, out, 1)
	assert.Zero(t, client.callCount())
}

func TestEnrichLeavesArticleOnFailure(t *testing.T) {
	client := &fakeClient{errs: map[string]error{
		"https://example.com/down": fmt.Errorf("connection refused"),
	}}

	e := New(client, nil, 0)
	out := e.Enrich(context.Background(), []domain.Article{
		{URL: "https://example.com/down", Title: "Still here", Description: "thin"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "Still here", out[0].Title)
	assert.Equal(t, "thin", out[0].Description)
}

func TestEnrichFallsBackToMetaDescription(t *testing.T) {
	page := `<html><head>
<meta name="description" content="Plain meta description, no open graph tags here at all." />
</head><body></body></html>`

	client := &fakeClient{pages: map[string]fakeResponse{
		"https://example.com/plain": {status: 200, body: []byte(page)},
	}}

	e := New(client, nil, 0)
	out := e.Enrich(context.Background(), []domain.Article{
		{URL: "https://example.com/plain", Title: "T", Description: ""},
	})

	assert.Equal(t, "Plain meta description, no open graph tags here at all.", out[0].Description)
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	client := &fakeClient{pages: map[string]fakeResponse{
		"https://example.com/thin": {status: 200, body: []byte(articlePage)},
	}}

	in := []domain.Article{{URL: "https://example.com/thin", Title: "T", Description: "x"}}
	New(client, nil, 0).Enrich(context.Background(), in)

	assert.Equal(t, "x", in[0].Description)
}
