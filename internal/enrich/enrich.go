// Package enrich fills in missing article metadata by scraping the
// article page. Feeds often carry bare links; summarization quality
// depends on having at least a description to work from.
package enrich

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/internal/logger"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	maxWorkers       = 5

	// Articles with a description at least this long skip enrichment.
	minDescriptionLen = 40
)

// Enricher scrapes page metadata for articles that arrived without a
// usable description.
type Enricher struct {
	client httpclient.Client
	log    logger.Logger
	delay  time.Duration
}

// New creates an Enricher. delay spaces out page fetches; zero disables
// the limiter.
func New(client httpclient.Client, log logger.Logger, delay time.Duration) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	return &Enricher{client: client, log: logger.Ensure(log), delay: delay}
}

// Enrich returns a copy of articles where thin entries have been filled
// from their page's og: metadata. A failed scrape leaves the article
// unchanged; partial results are returned on cancel.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	var pending []int
	for i, art := range out {
		if len(strings.TrimSpace(art.Description)) < minDescriptionLen {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return out
	}

	var limiter <-chan time.Time
	if e.delay > 0 {
		ticker := time.NewTicker(e.delay)
		defer ticker.Stop()
		limiter = ticker.C
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for range min(len(pending), maxWorkers) {
		wg.Add(1)
		go e.worker(ctx, limiter, jobCh, out, &wg)
	}

	for _, idx := range pending {
		if ctx.Err() != nil {
			break
		}
		jobCh <- idx
	}
	close(jobCh)
	wg.Wait()

	return out
}

func (e *Enricher) worker(ctx context.Context, limiter <-chan time.Time, jobCh <-chan int, out []domain.Article, wg *sync.WaitGroup) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			return
		}

		if limiter != nil {
			select {
			case <-ctx.Done():
				return
			case <-limiter:
			}
		}

		art := out[idx]
		enriched, err := e.scrape(ctx, art)
		if err != nil {
			e.log.DebugObj("article page scrape failed", "enrich_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			continue
		}
		out[idx] = enriched
	}
}

func (e *Enricher) scrape(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, art.URL, nil)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return art, fmt.Errorf("parse html: %w", err)
	}

	meta := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	if title := meta(`meta[property="og:title"]`); title != "" && strings.TrimSpace(art.Title) == "" {
		art.Title = title
	}
	if desc := meta(`meta[property="og:description"]`); desc != "" {
		art.Description = desc
	} else if desc := meta(`meta[name="description"]`); desc != "" {
		art.Description = desc
	}

	return art, nil
}
