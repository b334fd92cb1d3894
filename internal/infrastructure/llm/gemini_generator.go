package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

type GeminiGenerator struct {
	apiKey string
	model  string
}

// NewGeminiGenerator keeps only the settings; the genai client needs a context
// and is opened per call.
func NewGeminiGenerator(apiKey, model string) repository.HTMLGenerator {
	return &GeminiGenerator{apiKey: apiKey, model: model}
}

func (g *GeminiGenerator) Provider() entity.Provider { return entity.ProviderGemini }

func (g *GeminiGenerator) Available() bool { return g.apiKey != "" }

func (g *GeminiGenerator) GenerateHTML(ctx context.Context, prompt string) (string, error) {
	if !g.Available() {
		return "", fmt.Errorf("gemini: %w", entity.ErrProviderUnavailable)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		metrics.IncError("llm", "gemini_client")
		return "", fmt.Errorf("gemini init: %w", err)
	}
	defer func() { _ = client.Close() }()

	metrics.IncLLMRequest(string(entity.ProviderGemini), g.model)

	resp, err := client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(entity.GeminiPagePrompt.Render(prompt)))
	if err != nil {
		metrics.IncError("llm", "gemini_request")
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text, err := geminiText(resp)
	if err != nil {
		metrics.IncError("llm", "gemini_empty")
		return "", err
	}
	return text, nil
}

// geminiText joins the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini: no text parts in response")
	}
	return b.String(), nil
}
