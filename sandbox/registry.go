package sandbox

import (
	"fmt"

	"go.uber.org/zap"
)

// Registry routes language identifiers to their runner. The set is fixed at
// construction and safe for concurrent lookups.
type Registry struct {
	byLanguage map[string]Runner
	order      []string
}

// Option customizes a Registry.
type Option func(*Registry)

// WithRunner registers an extra runner, replacing any built-in runner for
// the same language.
func WithRunner(runner Runner) Option {
	return func(r *Registry) {
		lang := runner.Language()
		if _, exists := r.byLanguage[lang]; !exists {
			r.order = append(r.order, lang)
		}
		r.byLanguage[lang] = runner
	}
}

// NewRegistry builds the registry with every built-in runner sharing the
// given limits.
func NewRegistry(logger *zap.Logger, limits Limits, opts ...Option) *Registry {
	r := &Registry{byLanguage: make(map[string]Runner)}
	r.add(NewJavaScriptRunner(logger, limits))

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) add(runner Runner) {
	lang := runner.Language()
	if _, exists := r.byLanguage[lang]; exists {
		panic("sandbox: duplicate runner for language: " + lang)
	}
	r.byLanguage[lang] = runner
	r.order = append(r.order, lang)
}

// Get returns the runner for language. Unknown languages yield an error
// wrapping ErrUnsupportedLanguage.
func (r *Registry) Get(language string) (Runner, error) {
	runner, ok := r.byLanguage[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	return runner, nil
}

// Languages returns the supported identifiers in registration order.
func (r *Registry) Languages() []string {
	langs := make([]string, len(r.order))
	copy(langs, r.order)
	return langs
}
