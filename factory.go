package loom

import "context"

// BuildFunc is the construction half of a factory. It receives the resolved
// dependency values in declaration order; for Invoke targets any
// caller-supplied extras follow the injected values. A factory never sees the
// registry or the cache, only its declared dependencies.
type BuildFunc func(ctx context.Context, args []any) (any, error)

// Factory pairs a build function with its declared dependency names. The
// dependency list is bound to the factory before registration and is
// authoritative; it is derived at most once (at construction) and never
// re-inspected during resolution.
type Factory struct {
	deps  []string
	eager bool
	build BuildFunc
}

// Registry maps service names to their factories. It is supplied once at
// injector construction and treated as read-only afterwards; the injector
// copies the entries, so later mutation of the map has no effect.
type Registry map[string]Factory

type FactoryOption func(*Factory)

// WithDeps declares the factory's dependency names, in the order its build
// function expects the resolved values.
func WithDeps(names ...string) FactoryOption {
	return func(f *Factory) {
		f.deps = names
	}
}

// WithEager marks the factory for instantiation at injector construction
// time instead of on first request.
func WithEager() FactoryOption {
	return func(f *Factory) {
		f.eager = true
	}
}

// NewFactory builds a Factory from a build function and options.
func NewFactory(build BuildFunc, opts ...FactoryOption) Factory {
	f := Factory{build: build}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Annotate attaches an explicit dependency-name list to a build function.
// It is shorthand for NewFactory(build, WithDeps(deps...)).
func Annotate(build BuildFunc, deps ...string) Factory {
	return NewFactory(build, WithDeps(deps...))
}

// Value registers a pre-built instance as a dependency-free factory.
func Value(v any) Factory {
	return NewFactory(func(context.Context, []any) (any, error) {
		return v, nil
	})
}

// Alias returns a factory that resolves target and returns it unchanged, so
// one service can be registered under a second name.
func Alias(target string) Factory {
	return Annotate(func(_ context.Context, args []any) (any, error) {
		return args[0], nil
	}, target)
}

// Deps returns the factory's declared dependency names.
func (f Factory) Deps() []string {
	deps := make([]string, len(f.deps))
	copy(deps, f.deps)
	return deps
}

// Eager reports whether the factory is instantiated at construction time.
func (f Factory) Eager() bool {
	return f.eager
}
