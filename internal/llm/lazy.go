package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrModelInitialization marks failures to construct the backend client.
var ErrModelInitialization = errors.New("model initialization failed")

// InitError carries the provider and the cause of a failed construction.
type InitError struct {
	Provider string
	Err      error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrModelInitialization, e.Provider, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *InitError) Is(target error) bool { return target == ErrModelInitialization }

// Factory constructs a Generator.
type Factory func(ctx context.Context) (Generator, error)

// Lazy defers construction of the backend to the first Generate call.
// Concurrent first callers wait for a single construction; a failed
// construction is retried by the next caller.
type Lazy struct {
	provider string
	factory  Factory

	mu  sync.Mutex
	gen Generator
}

// NewLazy returns a Lazy that builds the backend described by cfg.
func NewLazy(cfg Config) *Lazy {
	return NewLazyFunc(cfg.Provider, func(ctx context.Context) (Generator, error) {
		return New(ctx, cfg)
	})
}

// NewLazyFunc returns a Lazy around an arbitrary factory.
func NewLazyFunc(provider string, factory Factory) *Lazy {
	if provider == "" {
		provider = ProviderGemini
	}
	return &Lazy{provider: provider, factory: factory}
}

func (l *Lazy) Generate(ctx context.Context, prompt string) (string, error) {
	gen, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return gen.Generate(ctx, prompt)
}

// Ready reports whether the backend has been constructed.
func (l *Lazy) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen != nil
}

func (l *Lazy) get(ctx context.Context) (Generator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gen != nil {
		return l.gen, nil
	}

	gen, err := l.factory(ctx)
	if err != nil {
		return nil, &InitError{Provider: l.provider, Err: err}
	}
	l.gen = gen
	return gen, nil
}
