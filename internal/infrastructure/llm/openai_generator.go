package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

type OpenAIGenerator struct {
	apiKey      string
	model       string
	temperature float32
	client      *openai.Client
}

// NewOpenAIGenerator builds a chat completion client. baseURL may point at any
// OpenAI compatible endpoint; empty means api.openai.com.
func NewOpenAIGenerator(apiKey, baseURL, model string, temperature float32) repository.HTMLGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      openai.NewClientWithConfig(cfg),
	}
}

func (g *OpenAIGenerator) Provider() entity.Provider { return entity.ProviderOpenAI }

func (g *OpenAIGenerator) Available() bool { return g.apiKey != "" }

func (g *OpenAIGenerator) GenerateHTML(ctx context.Context, prompt string) (string, error) {
	if !g.Available() {
		return "", fmt.Errorf("openai: %w", entity.ErrProviderUnavailable)
	}
	metrics.IncLLMRequest(string(entity.ProviderOpenAI), g.model)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: entity.OpenAIPagePrompt.Render(prompt),
		}},
		Temperature: g.temperature,
	})
	if err != nil {
		metrics.IncError("llm", "openai_request")
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.IncError("llm", "openai_empty")
		return "", errors.New("openai: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
