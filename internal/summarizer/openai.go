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
	openAIProviderName = "openai"
	openAIEndpoint     = "https://api.openai.com/v1/chat/completions"
	openAIDefaultModel = "gpt-4o-mini"
)

// openAIProvider summarizes via the OpenAI chat completions API.
type openAIProvider struct {
	client httpclient.Client
	apiKey string
	model  string
}

// NewOpenAIProvider builds the OpenAI summarize provider.
func NewOpenAIProvider(client httpclient.Client, apiKey, model string) Provider {
	if model == "" {
		model = openAIDefaultModel
	}
	return &openAIProvider{client: client, apiKey: apiKey, model: model}
}

func (p *openAIProvider) Name() string { return openAIProviderName }

func (p *openAIProvider) Summarize(ctx context.Context, art domain.Article, length domain.SummaryLength) (domain.Summary, error) {
	body := map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemInstruction},
			{"role": "user", "content": buildPrompt(art, length)},
		},
		"max_tokens":  500,
		"temperature": 0.3,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	resp, err := p.client.Post(ctx, openAIEndpoint, headers, body)
	if err != nil {
		return domain.Summary{}, &domain.ProviderError{
			Provider:  openAIProviderName,
			Retryable: httpclient.IsTimeout(err),
			Err:       err,
		}
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.Summary{}, classifyAIStatus(openAIProviderName, resp.StatusCode())
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return domain.Summary{}, &domain.ProviderError{
			Provider: openAIProviderName,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}
	if len(payload.Choices) == 0 {
		return domain.Summary{}, &domain.ProviderError{
			Provider: openAIProviderName,
			Err:      fmt.Errorf("response contains no choices"),
		}
	}

	summary, err := parseSummary(payload.Choices[0].Message.Content)
	if err != nil {
		return domain.Summary{}, &domain.ProviderError{Provider: openAIProviderName, Err: err}
	}
	summary.Method = "ai:" + openAIProviderName
	return summary, nil
}

// classifyAIStatus maps an AI provider HTTP status to a ProviderError.
// 429 marks the provider exhausted for the rest of the run.
func classifyAIStatus(provider string, code int) error {
	pe := &domain.ProviderError{
		Provider: provider,
		Err:      fmt.Errorf("status %d", code),
	}
	switch {
	case code == http.StatusTooManyRequests:
		pe.RateLimited = true
	case code >= 500:
		pe.Retryable = true
	}
	return pe
}
