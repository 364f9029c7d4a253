package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/EliotAtlani/personal-news/internal/domain"
	"github.com/EliotAtlani/personal-news/pkg/httpclient"
)

const (
	anthropicProviderName = "anthropic"
	anthropicEndpoint     = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-haiku-latest"
)

// anthropicProvider summarizes via the Anthropic messages API.
type anthropicProvider struct {
	client httpclient.Client
	apiKey string
	model  string
}

// NewAnthropicProvider builds the Anthropic summarize provider.
func NewAnthropicProvider(client httpclient.Client, apiKey, model string) Provider {
	if model == "" {
		model = anthropicDefaultModel
	}
	return &anthropicProvider{client: client, apiKey: apiKey, model: model}
}

func (p *anthropicProvider) Name() string { return anthropicProviderName }

func (p *anthropicProvider) Summarize(ctx context.Context, art domain.Article, length domain.SummaryLength) (domain.Summary, error) {
	body := map[string]any{
		"model":      p.model,
		"max_tokens": 500,
		"system":     systemInstruction,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(art, length)},
		},
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	resp, err := p.client.Post(ctx, anthropicEndpoint, headers, body)
	if err != nil {
		return domain.Summary{}, &domain.ProviderError{
			Provider:  anthropicProviderName,
			Retryable: httpclient.IsTimeout(err),
			Err:       err,
		}
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.Summary{}, classifyAIStatus(anthropicProviderName, resp.StatusCode())
	}

	var payload struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return domain.Summary{}, &domain.ProviderError{
			Provider: anthropicProviderName,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}
	if len(payload.Content) == 0 {
		return domain.Summary{}, &domain.ProviderError{
			Provider: anthropicProviderName,
			Err:      fmt.Errorf("response contains no content blocks"),
		}
	}

	summary, err := parseSummary(payload.Content[0].Text)
	if err != nil {
		return domain.Summary{}, &domain.ProviderError{Provider: anthropicProviderName, Err: err}
	}
	summary.Method = "ai:" + anthropicProviderName
	return summary, nil
}
