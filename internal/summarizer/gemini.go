package summarizer

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/EliotAtlani/personal-news/internal/domain"
)

const (
	geminiProviderName = "gemini"
	geminiDefaultModel = "gemini-2.0-flash"
)

// geminiProvider summarizes via the Google Gemini SDK.
type geminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider builds the Gemini summarize provider. The SDK client
// is created per call so the provider itself carries no connection state.
func NewGeminiProvider(apiKey, model string) Provider {
	if model == "" {
		model = geminiDefaultModel
	}
	return &geminiProvider{apiKey: apiKey, model: model}
}

func (p *geminiProvider) Name() string { return geminiProviderName }

func (p *geminiProvider) Summarize(ctx context.Context, art domain.Article, length domain.SummaryLength) (domain.Summary, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: p.apiKey})
	if err != nil {
		return domain.Summary{}, &domain.ProviderError{Provider: geminiProviderName, Err: err}
	}

	result, err := client.Models.GenerateContent(
		ctx,
		p.model,
		genai.Text(buildPrompt(art, length)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
	)
	if err != nil {
		return domain.Summary{}, classifyGeminiError(err)
	}

	summary, err := parseSummary(result.Text())
	if err != nil {
		return domain.Summary{}, &domain.ProviderError{Provider: geminiProviderName, Err: err}
	}
	summary.Method = "ai:" + geminiProviderName
	return summary, nil
}

// classifyGeminiError inspects the SDK error for quota exhaustion; the
// SDK does not expose a typed rate-limit error.
func classifyGeminiError(err error) error {
	msg := err.Error()
	rateLimited := strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
	return &domain.ProviderError{
		Provider:    geminiProviderName,
		Retryable:   !rateLimited,
		RateLimited: rateLimited,
		Err:         err,
	}
}
