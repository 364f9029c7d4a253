package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/EliotAtlani/personal-news/internal/logger"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

// httpPublisher POSTs digest events to a generic HTTP sink, typically the
// downstream composer that renders and mails the newsletter.
type httpPublisher struct {
	id      string
	typ     string
	url     string
	headers map[string]string
	client  httpclient.Client
	log     logger.Logger
}

// newHTTPPublisher creates an HTTP publisher from its config entry.
func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	if cfg.HTTP.Method != httpDefaultMethod {
		return nil, fmt.Errorf("publisher %q: http method %q is not supported", cfg.ID, cfg.HTTP.Method)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second

	return &httpPublisher{
		id:      cfg.ID,
		typ:     cfg.Type,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyClient(timeout),
		log:     logger.Ensure(log),
	}, nil
}

func (p *httpPublisher) ID() string   { return p.id }
func (p *httpPublisher) Type() string { return p.typ }

// Publish POSTs the digest event as JSON to the configured sink.
func (p *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := p.client.Post(ctx, p.url, p.headers, evt)
	if err != nil {
		p.log.ErrorObj("http publisher send failed", "publisher_http_error", map[string]any{
			"profile": evt.Profile,
			"error":   err.Error(),
		})
		return fmt.Errorf("post digest to sink: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		p.log.ErrorObj("http publisher rejected digest", "publisher_http_status", map[string]any{
			"profile": evt.Profile,
			"status":  resp.StatusCode(),
		})
		return fmt.Errorf("sink returned status %d", resp.StatusCode())
	}

	p.log.DebugObj("http publisher delivered digest", "publisher_http_delivery", map[string]any{
		"profile": evt.Profile,
		"status":  resp.StatusCode(),
	})
	return nil
}
