package shortener

import (
	"context"
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the symbol set of generated identifiers.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultMaxAttempts bounds the collision loop when no limit is configured.
const DefaultMaxAttempts = 16

// CodeGenerator generates one random code per call.
type CodeGenerator func() string

// CodeSource builds a generator of fixed-length codes.
type CodeSource func(length int) (CodeGenerator, error)

// NanoidSource draws codes uniformly from Alphabet.
func NanoidSource(length int) (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return gen, nil
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithMaxAttempts sets how many candidates are probed before giving up.
func WithMaxAttempts(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithCodeSource replaces the random code source.
func WithCodeSource(source CodeSource) GeneratorOption {
	return func(g *Generator) {
		g.source = source
	}
}

// WithCollisionHook registers a callback invoked for every probed key that was taken.
func WithCollisionHook(hook func(ns Namespace)) GeneratorOption {
	return func(g *Generator) {
		g.onCollision = hook
	}
}

// Generator finds names that are not yet used in a namespace.
type Generator struct {
	store       ObjectStore
	source      CodeSource
	maxAttempts int
	onCollision func(ns Namespace)
}

// NewGenerator creates a generator probing store for collisions.
func NewGenerator(store ObjectStore, opts ...GeneratorOption) *Generator {
	g := &Generator{
		store:       store,
		source:      NanoidSource,
		maxAttempts: DefaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// MaxAttempts returns the collision budget of the generator.
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Unique returns a name of length random symbols followed by suffix whose key
// did not exist in ns at the time of the check.
func (g *Generator) Unique(ctx context.Context, ns Namespace, length int, suffix string) (string, error) {
	next, err := g.source(length)
	if err != nil {
		return "", fmt.Errorf("code generator for length %d: %w", length, err)
	}

	for range g.maxAttempts {
		name := next() + suffix

		exists, err := g.store.Exists(ctx, ns.Key(name))
		if err != nil {
			return "", fmt.Errorf("%w: probe %q: %w", ErrStoreRead, ns.Key(name), err)
		}

		if !exists {
			return name, nil
		}

		if g.onCollision != nil {
			g.onCollision(ns)
		}
	}

	return "", fmt.Errorf("%w: %s after %d attempts at length %d",
		ErrNamespaceExhausted, ns.Label(), g.maxAttempts, length)
}
