package repository

import (
	"context"

	"sitebuilder/internal/domain/entity"
)

// HTMLGenerator is one external generative provider.
type HTMLGenerator interface {
	// Provider returns the registry key of the generator.
	Provider() entity.Provider
	// Available reports whether the generator has the credentials it needs.
	Available() bool
	// GenerateHTML makes a single call to the provider and returns its raw text.
	GenerateHTML(ctx context.Context, prompt string) (string, error)
}
