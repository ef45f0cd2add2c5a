// Package faker owns the synthetic-value side of the filter: the Capability
// and Generator contracts, a per-stage Registry that caches one Generator per
// locale, and a gofakeit-backed Capability that understands Java-faker style
// expressions such as "#{Internet.emailAddress}".
package faker

import "fmt"

// Generator produces synthetic strings for one locale.
type Generator interface {
	// Expression evaluates expr and returns the generated value. Every call
	// produces an independent value; results are never memoized.
	Expression(expr string) (string, error)
}

// Capability creates locale-bound generators.
type Capability interface {
	Create(locale string) (Generator, error)
}

// CapabilityFunc adapts a function to Capability.
type CapabilityFunc func(locale string) (Generator, error)

func (f CapabilityFunc) Create(locale string) (Generator, error) { return f(locale) }

// GenerationError reports that the generation capability rejected a locale or
// an expression. It is never retried.
type GenerationError struct {
	Locale     string
	Expression string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.Expression == "" {
		return fmt.Sprintf("faker: locale %q: %v", e.Locale, e.Err)
	}
	if e.Locale == "" {
		return fmt.Sprintf("faker: expression %q: %v", e.Expression, e.Err)
	}
	return fmt.Sprintf("faker: locale %q expression %q: %v", e.Locale, e.Expression, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
