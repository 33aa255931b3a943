package loom

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/loom-di/loom/internal/container"
)

// InjectorName is the reserved service name under which every injector
// registers itself, so any factory may declare the injector as a dependency.
const InjectorName = "$injector"

// Injector resolves named services from a frozen registry of factories. Each
// service is built at most once and cached for the injector's lifetime.
type Injector struct {
	internal *container.Container
	config   *injectorConfig
}

// New builds an injector over registry and immediately resolves every
// factory marked eager, so misconfigured eager services fail here rather
// than on first use. The registry is copied and never mutated.
func New(registry Registry, opts ...Option) (*Injector, error) {
	return NewCtx(context.Background(), registry, opts...)
}

// NewCtx is New with the context passed through to eager factories.
func NewCtx(ctx context.Context, registry Registry, opts ...Option) (*Injector, error) {
	cfg := &injectorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	entries := make(map[string]*container.Entry, len(registry))
	for name, factory := range registry {
		if name == InjectorName {
			return nil, errInvalidFactory(name, "service name is reserved for the injector itself")
		}

		entries[name] = &container.Entry{
			Name:  name,
			Deps:  factory.deps,
			Eager: factory.eager,
			Build: container.BuildFunc(factory.build),
		}
	}

	// Hooks observe the same errors the caller sees, so the core's error
	// types are converted before each hook runs.
	hooks := make([]container.ResolveHook, len(cfg.onResolve))
	for i, hook := range cfg.onResolve {
		hooks[i] = func(name string, duration time.Duration, err error) {
			if err != nil {
				err = convertResolveError(err)
			}
			hook(name, duration, err)
		}
	}

	inj := &Injector{config: cfg}

	internal, err := container.New(
		ctx,
		&container.Config{
			Logger:    cfg.logger,
			OnResolve: hooks,
		},
		entries,
		InjectorName,
		inj,
	)
	if err != nil {
		return nil, convertNewError(err)
	}

	inj.internal = internal
	return inj, nil
}

func convertNewError(err error) error {
	var bootstrap *container.BootstrapError
	if errors.As(err, &bootstrap) {
		return errBootstrapFailed(bootstrap.Service, convertResolveError(bootstrap.Err))
	}
	return convertResolveError(err)
}

// Get returns the singleton instance for name, building it on first request.
// Fails with an UNKNOWN_SERVICE or CIRCULAR_DEPENDENCY Error carrying the
// resolution path; errors raised by factories propagate unchanged.
func (inj *Injector) Get(ctx context.Context, name string) (any, error) {
	value, err := inj.internal.Get(ctx, name)
	if err != nil {
		return nil, convertResolveError(err)
	}
	return value, nil
}

// Invoke resolves target's declared dependencies and calls its build
// function with the resolved values followed by extra. Nothing is cached:
// every call re-resolves the dependency list and re-invokes the target.
func (inj *Injector) Invoke(ctx context.Context, target Factory, extra ...any) (any, error) {
	value, err := inj.internal.Invoke(ctx, target.deps, container.BuildFunc(target.build), extra)
	if err != nil {
		return nil, convertResolveError(err)
	}
	return value, nil
}

// Has reports whether name is registered or already cached.
func (inj *Injector) Has(name string) bool {
	return inj.internal.Has(name)
}

// Resolved reports whether name has been built and cached.
func (inj *Injector) Resolved(name string) bool {
	return inj.internal.Resolved(name)
}

// Keys returns all registered service names, sorted.
func (inj *Injector) Keys() []string {
	return inj.internal.Keys()
}

// Size returns the number of registered factories.
func (inj *Injector) Size() int {
	return inj.internal.Size()
}

// Validate statically checks the whole registry without building anything:
// it reports every dependency name that has no factory and every circular
// dependency chain.
func (inj *Injector) Validate() error {
	g := inj.internal.Graph()

	var problems []string

	var missing []string
	for _, name := range g.MissingDependencies() {
		if name != InjectorName {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		problems = append(problems, "missing dependencies: "+strings.Join(missing, ", "))
	}

	for _, cycle := range g.CyclePaths() {
		problems = append(problems, "circular dependency: "+container.RenderPath(cycle))
	}

	if len(problems) > 0 {
		return errValidationFailed(strings.Join(problems, "; "))
	}
	return nil
}
