package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

// OllamaGenerator talks to a self-hosted model server. The configured host
// plays the role of the credential.
type OllamaGenerator struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaGenerator(host, model string) repository.HTMLGenerator {
	return &OllamaGenerator{
		host:   strings.TrimSpace(host),
		model:  model,
		client: http.DefaultClient,
	}
}

func (g *OllamaGenerator) Provider() entity.Provider { return entity.ProviderOllama }

func (g *OllamaGenerator) Available() bool { return g.host != "" }

func (g *OllamaGenerator) GenerateHTML(ctx context.Context, prompt string) (string, error) {
	if !g.Available() {
		return "", fmt.Errorf("ollama: %w", entity.ErrProviderUnavailable)
	}
	u, err := url.Parse(g.host)
	if err != nil {
		metrics.IncError("llm", "ollama_host")
		return "", fmt.Errorf("invalid ollama host %q: %w", g.host, err)
	}
	metrics.IncLLMRequest(string(entity.ProviderOllama), g.model)

	stream := false
	req := &ollama.GenerateRequest{
		Model:  g.model,
		Prompt: entity.OllamaPagePrompt.Render(prompt),
		Stream: &stream,
	}

	var text strings.Builder
	err = ollama.NewClient(u, g.client).Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		metrics.IncError("llm", "ollama_request")
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return text.String(), nil
}
