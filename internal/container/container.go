// Package container implements the resolution core: a frozen factory
// registry, the append-only singleton cache, and the recursive resolver with
// explicit resolution-path tracking.
package container

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/loom-di/loom/internal/graph"
)

// BuildFunc constructs a service value. args holds the resolved dependency
// values in the same order as the entry's declared dependency names; for
// ad-hoc invocations any caller-supplied extras follow the injected values.
type BuildFunc func(ctx context.Context, args []any) (any, error)

// ResolveHook observes every resolution attempt, including cache hits.
type ResolveHook func(name string, duration time.Duration, err error)

type Config struct {
	Logger    *zap.Logger
	OnResolve []ResolveHook
}

// Container owns the frozen registry and the instance cache. A single mutex
// guards the whole of Get/Invoke, so at most one resolution is in flight per
// container and every service is built at most once.
type Container struct {
	mu       sync.Mutex
	registry *Registry
	cache    map[string]any
	graph    *graph.Graph
	logger   *zap.Logger
	hooks    []ResolveHook
}

// New builds a container over the given entries, seeds the cache with the
// reserved self entry, and eagerly resolves every entry marked eager, in
// sorted-name order. A bootstrap failure is returned as *BootstrapError and
// leaves no cache entry for the failing service.
func New(ctx context.Context, cfg *Config, entries map[string]*Entry, selfName string, self any) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry, err := NewRegistry(entries)
	if err != nil {
		return nil, err
	}

	c := &Container{
		registry: registry,
		cache:    map[string]any{selfName: self},
		graph:    graph.New(registry.Dependencies()),
		logger:   logger,
		hooks:    cfg.OnResolve,
	}

	for _, name := range registry.Keys() {
		entry, _ := registry.Get(name)
		if !entry.Eager {
			continue
		}

		c.logger.Debug("bootstrapping eager service", zap.String("service", name))
		if _, err := c.resolve(ctx, name, nil); err != nil {
			return nil, &BootstrapError{Service: name, Err: err}
		}
	}

	return c, nil
}

// Get returns the singleton for name, building it and its transitive
// dependencies on first request.
func (c *Container) Get(ctx context.Context, name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(ctx, name, nil)
}

// Invoke resolves deps, appends extra after the injected values, and calls
// build. The result is not cached.
func (c *Container) Invoke(ctx context.Context, deps []string, build BuildFunc, extra []any) (any, error) {
	if build == nil {
		return nil, &InvalidEntryError{Reason: "invoke target is not invocable"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	args := make([]any, 0, len(deps)+len(extra))
	for _, dep := range deps {
		value, err := c.resolve(ctx, dep, nil)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	args = append(args, extra...)

	return build(ctx, args)
}

func (c *Container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cache[name]; ok {
		return true
	}
	return c.registry.Has(name)
}

// Resolved reports whether name is present in the instance cache.
func (c *Container) Resolved(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.cache[name]
	return ok
}

// Eager reports whether name's factory is marked for bootstrap-time
// instantiation.
func (c *Container) Eager(name string) bool {
	entry, ok := c.registry.Get(name)
	return ok && entry.Eager
}

func (c *Container) Keys() []string {
	return c.registry.Keys()
}

func (c *Container) Size() int {
	return c.registry.Size()
}

// Graph returns the registry's dependency graph. The graph is immutable, so
// the container's own instance is shared.
func (c *Container) Graph() *graph.Graph {
	return c.graph
}

// Instances returns a snapshot of the cache, excluding nothing; callers that
// need to skip the self entry filter by name.
func (c *Container) Instances() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[string]any, len(c.cache))
	for name, value := range c.cache {
		snapshot[name] = value
	}
	return snapshot
}
