package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

type GenerationUsecase interface {
	// Generate never fails: any provider problem yields the fallback page.
	Generate(ctx context.Context, prompt, provider string) entity.GenerationResult
}

var _ GenerationUsecase = (*GenerationService)(nil)

// GenerationService dispatches a prompt to one provider from a fixed registry
// and degrades to the local template when the provider is unknown, not
// configured or fails.
type GenerationService struct {
	generators      map[entity.Provider]repository.HTMLGenerator
	defaultProvider entity.Provider
	logger          *slog.Logger
}

func NewGenerationService(
	generators []repository.HTMLGenerator,
	defaultProvider string,
	logger *slog.Logger,
) *GenerationService {
	registry := make(map[entity.Provider]repository.HTMLGenerator, len(generators))
	for _, g := range generators {
		registry[g.Provider()] = g
	}

	def, ok := entity.NormalizeProvider(defaultProvider)
	if !ok || def == entity.ProviderDefault {
		def = entity.ProviderOpenAI
	}

	return &GenerationService{
		generators:      registry,
		defaultProvider: def,
		logger:          logger,
	}
}

func (s *GenerationService) Generate(ctx context.Context, prompt, provider string) entity.GenerationResult {
	start := time.Now()
	html := entity.FallbackHTML(prompt)

	p, known := entity.NormalizeProvider(provider)
	if p == entity.ProviderDefault {
		p = s.defaultProvider
	}
	label := string(p)
	if !known {
		label = "unknown"
	}

	outcome := "fallback"
	defer func() {
		metrics.IncGeneration(label, outcome)
		metrics.ObserveGenerationDuration(label, time.Since(start))
	}()

	if !known {
		s.logger.Debug("unknown provider, using fallback", "provider", provider)
		return entity.NewGenerationResult(html)
	}

	gen, ok := s.generators[p]
	if !ok || !gen.Available() {
		s.logger.Debug("provider not configured, using fallback", "provider", p)
		return entity.NewGenerationResult(html)
	}

	out, err := invoke(ctx, gen, prompt)
	if err != nil {
		s.logger.Warn("provider call failed, using fallback", "provider", p, "err", err)
		return entity.NewGenerationResult(html)
	}
	if !strings.Contains(out, "<") {
		s.logger.Info("provider returned no markup, using fallback", "provider", p)
		return entity.NewGenerationResult(html)
	}

	outcome = "provider"
	return entity.NewGenerationResult(out)
}

// invoke turns a panicking client into an ErrProviderUnavailable error.
func invoke(ctx context.Context, gen repository.HTMLGenerator, prompt string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("%w: %s panicked: %v", entity.ErrProviderUnavailable, gen.Provider(), r)
		}
	}()
	return gen.GenerateHTML(ctx, prompt)
}
