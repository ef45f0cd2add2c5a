package faker

import (
	"errors"
	"io"

	"go.uber.org/zap"
)

// Registry lazily creates and caches one Generator per locale. A Registry
// belongs to a single open stage and is not safe for concurrent use.
type Registry struct {
	capability Capability
	gens       map[string]Generator
	created    int
	log        *zap.Logger
}

// NewRegistry returns an empty Registry backed by c. A nil logger disables
// logging.
func NewRegistry(c Capability, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		capability: c,
		gens:       make(map[string]Generator),
		log:        log,
	}
}

// Get returns the cached Generator for locale, creating it on first use.
// Creation failures are returned as *GenerationError and are not cached.
func (r *Registry) Get(locale string) (Generator, error) {
	if g, ok := r.gens[locale]; ok {
		return g, nil
	}
	g, err := r.capability.Create(locale)
	if err != nil {
		var ge *GenerationError
		if errors.As(err, &ge) {
			return nil, err
		}
		return nil, &GenerationError{Locale: locale, Err: err}
	}
	r.gens[locale] = g
	r.created++
	r.log.Debug("faker: generator created", zap.String("locale", locale))
	return g, nil
}

// Len returns the number of cached generators.
func (r *Registry) Len() int { return len(r.gens) }

// Created returns how many generators were created over the registry's life.
func (r *Registry) Created() int { return r.created }

// Close drops every cached generator, closing those that hold resources.
func (r *Registry) Close() error {
	var errs []error
	for locale, g := range r.gens {
		if c, ok := g.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, &GenerationError{Locale: locale, Err: err})
			}
		}
		delete(r.gens, locale)
	}
	return errors.Join(errs...)
}
