package entity

import "strings"

type Provider string

const (
	ProviderDefault   Provider = "default"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// KnownProviders is the fixed set of providers the dispatcher can call.
var KnownProviders = []Provider{ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderOllama}

var providerAliases = map[string]Provider{
	"openai":    ProviderOpenAI,
	"gpt":       ProviderOpenAI,
	"gemini":    ProviderGemini,
	"google":    ProviderGemini,
	"anthropic": ProviderAnthropic,
	"claude":    ProviderAnthropic,
	"ollama":    ProviderOllama,
	"default":   ProviderDefault,
	"":          ProviderDefault,
}

// NormalizeProvider maps a user supplied provider name onto a known provider.
// ok is false for names outside the enumerated set.
func NormalizeProvider(name string) (p Provider, ok bool) {
	p, ok = providerAliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

type GenerationRequest struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"api,omitempty"`
}

type Assets struct {
	Images []string `json:"images"`
	Links  []string `json:"links"`
}

type GenerationResult struct {
	HTML   string `json:"html"`
	Assets Assets `json:"assets"`
}

func NewGenerationResult(html string) GenerationResult {
	return GenerationResult{
		HTML: html,
		Assets: Assets{
			Images: []string{},
			Links:  []string{},
		},
	}
}
