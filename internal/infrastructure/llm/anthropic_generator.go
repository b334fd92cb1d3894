package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

type AnthropicGenerator struct {
	apiKey    string
	model     string
	maxTokens int
	client    anthropic.Client
}

func NewAnthropicGenerator(apiKey, baseURL, model string, maxTokens int) repository.HTMLGenerator {
	opts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(apiKey),
		// one attempt per generation
		anthropicopt.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(baseURL))
	}
	return &AnthropicGenerator{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client:    anthropic.NewClient(opts...),
	}
}

func (g *AnthropicGenerator) Provider() entity.Provider { return entity.ProviderAnthropic }

func (g *AnthropicGenerator) Available() bool { return g.apiKey != "" }

func (g *AnthropicGenerator) GenerateHTML(ctx context.Context, prompt string) (string, error) {
	if !g.Available() {
		return "", fmt.Errorf("anthropic: %w", entity.ErrProviderUnavailable)
	}
	metrics.IncLLMRequest(string(entity.ProviderAnthropic), g.model)

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(entity.AnthropicPagePrompt.Render(prompt))),
		},
	})
	if err != nil {
		metrics.IncError("llm", "anthropic_request")
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	if b.Len() == 0 {
		metrics.IncError("llm", "anthropic_empty")
		return "", errors.New("anthropic: no text blocks in response")
	}
	return b.String(), nil
}
