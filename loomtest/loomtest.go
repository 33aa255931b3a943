// Package loomtest provides test helpers for assembling injectors with test
// doubles. The registry is frozen at construction, so overrides are applied
// by merging before New runs rather than by mutating a live injector.
package loomtest

import (
	"context"

	"github.com/loom-di/loom"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
}

type TestInjector struct {
	*loom.Injector
	tb TB
}

// New builds an injector for a test, failing the test on construction
// errors. overrides replace same-named entries in registry, so production
// wiring can be reused with a few services swapped for doubles.
func New(tb TB, registry loom.Registry, overrides loom.Registry, opts ...loom.Option) *TestInjector {
	tb.Helper()

	merged := make(loom.Registry, len(registry)+len(overrides))
	for name, factory := range registry {
		merged[name] = factory
	}
	for name, factory := range overrides {
		merged[name] = factory
	}

	inj, err := loom.New(merged, opts...)
	if err != nil {
		tb.Fatalf("failed to build injector: %v", err)
	}

	return &TestInjector{Injector: inj, tb: tb}
}

func (ti *TestInjector) RequireValidate() {
	ti.tb.Helper()

	if err := ti.Validate(); err != nil {
		ti.tb.Fatalf("injector validation failed: %v", err)
	}
}

// MustGet resolves name or fails the test.
func (ti *TestInjector) MustGet(name string) any {
	ti.tb.Helper()

	value, err := ti.Get(context.Background(), name)
	if err != nil {
		ti.tb.Fatalf("failed to resolve %q: %v", name, err)
	}
	return value
}

func (ti *TestInjector) AssertHas(name string) {
	ti.tb.Helper()

	if !ti.Has(name) {
		ti.tb.Fatalf("expected injector to have service %q", name)
	}
}

func (ti *TestInjector) AssertNotHas(name string) {
	ti.tb.Helper()

	if ti.Has(name) {
		ti.tb.Fatalf("expected injector to not have service %q", name)
	}
}

func (ti *TestInjector) AssertResolved(name string) {
	ti.tb.Helper()

	if !ti.Resolved(name) {
		ti.tb.Fatalf("expected service %q to be resolved", name)
	}
}

// MustResolve is the typed MustGet.
func MustResolve[T any](ti *TestInjector, name string) T {
	ti.tb.Helper()

	value, err := loom.Resolve[T](ti.Injector, name)
	if err != nil {
		ti.tb.Fatalf("failed to resolve %q: %v", name, err)
	}
	return value
}
