package container

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
)

// resolve is the recursive core. path holds the names currently
// mid-resolution, outermost first; it is the call stack made explicit so
// cycles are detected before recursing and error messages can show the full
// chain. The caller must hold c.mu.
func (c *Container) resolve(ctx context.Context, name string, path []string) (any, error) {
	start := time.Now()

	if value, ok := c.cache[name]; ok {
		c.observe(name, time.Since(start), nil)
		return value, nil
	}

	entry, ok := c.registry.Get(name)
	if !ok {
		err := &NotFoundError{Path: pushPath(path, name)}
		c.observe(name, time.Since(start), err)
		return nil, err
	}

	// Detect the cycle before recursing, so the failure path stays bounded
	// by the chain that exposed it.
	if slices.Contains(path, name) {
		err := &CycleError{Path: pushPath(path, name)}
		c.observe(name, time.Since(start), err)
		return nil, err
	}
	path = pushPath(path, name)

	args := make([]any, 0, len(entry.Deps))
	for _, dep := range entry.Deps {
		value, err := c.resolve(ctx, dep, path)
		if err != nil {
			c.observe(name, time.Since(start), err)
			return nil, err
		}
		args = append(args, value)
	}

	value, err := entry.Build(ctx, args)
	if err != nil {
		// Factory errors propagate unchanged; the failing service's cache
		// entry is never written, though dependencies that already built
		// stay cached.
		c.observe(name, time.Since(start), err)
		return nil, err
	}

	c.cache[name] = value
	c.logger.Debug("resolved service",
		zap.String("service", name),
		zap.Int("deps", len(entry.Deps)),
		zap.Duration("took", time.Since(start)),
	)
	c.observe(name, time.Since(start), nil)
	return value, nil
}

// pushPath appends name without sharing the backing array across sibling
// resolutions.
func pushPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

func (c *Container) observe(name string, took time.Duration, err error) {
	for _, hook := range c.hooks {
		hook(name, took, err)
	}
}
