package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/termfx/balancedwrap/internal/model"
	"github.com/termfx/balancedwrap/internal/syntax"
	"github.com/termfx/balancedwrap/providers/catalog"
)

// Provider interface for language-specific implementations
type Provider interface {
	// Metadata
	Language() string
	Extensions() []string

	// Core operations
	ParseContext(ctx context.Context, path string, src []byte) (*syntax.File, error)
	Validate(src []byte) ValidationResult
}

// ValidationResult from syntax check
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Factory creates a provider with its own parser. Parsers are not safe for
// concurrent use, so every worker asks for a fresh one.
type Factory func() Provider

// Registry manages all providers
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a provider factory and records the language's extensions
// in the catalog.
func (r *Registry) Register(factory Factory) {
	sample := factory()
	r.mu.Lock()
	r.factories[sample.Language()] = factory
	r.mu.Unlock()

	catalog.Register(catalog.LanguageInfo{
		ID:         sample.Language(),
		Extensions: sample.Extensions(),
	})
}

// New returns a fresh provider for language.
func (r *Registry) New(language string) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[language]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedLanguage, language)
	}
	return factory(), nil
}

// Has reports whether language has a registered provider.
func (r *Registry) Has(language string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[language]
	return ok
}

// Languages returns all registered language identifiers, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.factories))
	for k := range r.factories {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	return langs
}
