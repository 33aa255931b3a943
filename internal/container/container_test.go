package container_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/loom-di/loom/internal/container"
)

func value(v any) container.BuildFunc {
	return func(context.Context, []any) (any, error) {
		return v, nil
	}
}

func newContainer(t *testing.T, entries map[string]*container.Entry) *container.Container {
	t.Helper()

	c, err := container.New(context.Background(), &container.Config{}, entries, "$self", "self-instance")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestGetResolvesChain(t *testing.T) {
	t.Parallel()

	calls := 0
	c := newContainer(t, map[string]*container.Entry{
		"base": {Build: func(context.Context, []any) (any, error) {
			calls++
			return 1, nil
		}},
		"derived": {Deps: []string{"base"}, Build: func(_ context.Context, args []any) (any, error) {
			return args[0].(int) + 1, nil
		}},
	})

	got, err := c.Get(context.Background(), "derived")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != 2 {
		t.Errorf("expected 2, got %v", got)
	}

	// Both the target and its dependency are now cached.
	again, err := c.Get(context.Background(), "derived")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again != 2 || calls != 1 {
		t.Errorf("expected single build, got value %v after %d calls", again, calls)
	}
	if !c.Resolved("base") {
		t.Error("expected base to be cached")
	}
}

func TestGetSelf(t *testing.T) {
	t.Parallel()

	c := newContainer(t, nil)

	got, err := c.Get(context.Background(), "$self")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "self-instance" {
		t.Errorf("expected seeded self entry, got %v", got)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	c := newContainer(t, map[string]*container.Entry{
		"a": {Deps: []string{"ghost"}, Build: value(1)},
	})

	_, err := c.Get(context.Background(), "a")
	var nf *container.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !reflect.DeepEqual(nf.Path, []string{"a", "ghost"}) {
		t.Errorf("expected path [a ghost], got %v", nf.Path)
	}
	if nf.Name() != "ghost" {
		t.Errorf("expected Name ghost, got %q", nf.Name())
	}
}

func TestGetCycle(t *testing.T) {
	t.Parallel()

	passthrough := func(_ context.Context, args []any) (any, error) {
		return args[0], nil
	}
	c := newContainer(t, map[string]*container.Entry{
		"a": {Deps: []string{"b"}, Build: passthrough},
		"b": {Deps: []string{"a"}, Build: passthrough},
	})

	_, err := c.Get(context.Background(), "a")
	var ce *container.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if !reflect.DeepEqual(ce.Path, []string{"a", "b", "a"}) {
		t.Errorf("expected path [a b a], got %v", ce.Path)
	}
}

func TestGetSelfCycle(t *testing.T) {
	t.Parallel()

	c := newContainer(t, map[string]*container.Entry{
		"a": {Deps: []string{"a"}, Build: func(_ context.Context, args []any) (any, error) {
			return args[0], nil
		}},
	})

	_, err := c.Get(context.Background(), "a")
	var ce *container.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if !reflect.DeepEqual(ce.Path, []string{"a", "a"}) {
		t.Errorf("expected path [a a], got %v", ce.Path)
	}
}

func TestBuildErrorNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fail := true
	c := newContainer(t, map[string]*container.Entry{
		"flaky": {Build: func(context.Context, []any) (any, error) {
			if fail {
				return nil, boom
			}
			return "ok", nil
		}},
	})

	if _, err := c.Get(context.Background(), "flaky"); err != boom {
		t.Fatalf("expected the factory error unchanged, got %v", err)
	}
	if c.Resolved("flaky") {
		t.Error("expected failing service to stay uncached")
	}

	fail = false
	got, err := c.Get(context.Background(), "flaky")
	if err != nil || got != "ok" {
		t.Fatalf("expected retry to succeed, got %v, %v", got, err)
	}
}

func TestEagerBootstrap(t *testing.T) {
	t.Parallel()

	var order []string
	build := func(name string) container.BuildFunc {
		return func(context.Context, []any) (any, error) {
			order = append(order, name)
			return name, nil
		}
	}

	c := newContainer(t, map[string]*container.Entry{
		"b":    {Eager: true, Build: build("b")},
		"a":    {Eager: true, Build: build("a")},
		"lazy": {Build: build("lazy")},
	})

	// Eager entries bootstrap in sorted-name order; lazy entries do not.
	if !reflect.DeepEqual(order, []string{"a", "b"}) {
		t.Errorf("expected bootstrap order [a b], got %v", order)
	}
	if !c.Resolved("a") || !c.Resolved("b") || c.Resolved("lazy") {
		t.Error("unexpected cache state after bootstrap")
	}
	if !c.Eager("a") || c.Eager("lazy") {
		t.Error("unexpected Eager flags")
	}
}

func TestEagerBootstrapFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("no disk")
	entries := map[string]*container.Entry{
		"store": {Eager: true, Build: func(context.Context, []any) (any, error) {
			return nil, boom
		}},
	}

	_, err := container.New(context.Background(), &container.Config{}, entries, "$self", nil)
	var be *container.BootstrapError
	if !errors.As(err, &be) {
		t.Fatalf("expected BootstrapError, got %v", err)
	}
	if be.Service != "store" {
		t.Errorf("expected failing service store, got %q", be.Service)
	}
	if !errors.Is(err, boom) {
		t.Error("expected the factory error in the chain")
	}
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	c := newContainer(t, map[string]*container.Entry{
		"x": {Build: value(10)},
	})

	got, err := c.Invoke(context.Background(), []string{"x"}, func(_ context.Context, args []any) (any, error) {
		return append([]any{}, args...), nil
	}, []any{"extra"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !reflect.DeepEqual(got, []any{10, "extra"}) {
		t.Errorf("expected injected values before extras, got %v", got)
	}
}

func TestInvokeNilBuild(t *testing.T) {
	t.Parallel()

	c := newContainer(t, nil)

	_, err := c.Invoke(context.Background(), nil, nil, nil)
	var ie *container.InvalidEntryError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidEntryError, got %v", err)
	}
}

func TestInvokeMissingDependency(t *testing.T) {
	t.Parallel()

	c := newContainer(t, nil)

	_, err := c.Invoke(context.Background(), []string{"ghost"}, func(context.Context, []any) (any, error) {
		return nil, nil
	}, nil)
	var nf *container.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !reflect.DeepEqual(nf.Path, []string{"ghost"}) {
		t.Errorf("expected path [ghost], got %v", nf.Path)
	}
}

func TestObserveHooks(t *testing.T) {
	t.Parallel()

	type event struct {
		name string
		err  error
	}
	var events []event
	cfg := &container.Config{
		OnResolve: []container.ResolveHook{func(name string, _ time.Duration, err error) {
			events = append(events, event{name: name, err: err})
		}},
	}

	entries := map[string]*container.Entry{
		"x": {Build: value(1)},
		"y": {Deps: []string{"x"}, Build: func(_ context.Context, args []any) (any, error) {
			return args[0], nil
		}},
	}

	c, err := container.New(context.Background(), cfg, entries, "$self", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := c.Get(context.Background(), "y"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var names []string
	for _, e := range events {
		names = append(names, e.name)
	}
	// Inner resolutions complete first; y is observed after x.
	if !reflect.DeepEqual(names, []string{"x", "y"}) {
		t.Errorf("expected [x y], got %v", names)
	}
}

func TestIntrospection(t *testing.T) {
	t.Parallel()

	c := newContainer(t, map[string]*container.Entry{
		"b": {Deps: []string{"a"}, Build: func(_ context.Context, args []any) (any, error) {
			return args[0], nil
		}},
		"a": {Build: value(1)},
	})

	if !c.Has("a") || !c.Has("$self") || c.Has("ghost") {
		t.Error("unexpected Has results")
	}
	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected sorted keys, got %v", got)
	}
	if got := c.Graph().Dependencies("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected graph edge b -> a, got %v", got)
	}

	if _, err := c.Get(context.Background(), "a"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	snapshot := c.Instances()
	if snapshot["a"] != 1 || snapshot["$self"] != "self-instance" {
		t.Errorf("unexpected snapshot %v", snapshot)
	}

	// The snapshot is a copy.
	snapshot["a"] = 99
	if got, _ := c.Get(context.Background(), "a"); got != 1 {
		t.Errorf("expected cache untouched, got %v", got)
	}
}

func TestRegistryValidation(t *testing.T) {
	t.Parallel()

	_, err := container.NewRegistry(map[string]*container.Entry{
		"": {Build: value(1)},
	})
	var ie *container.InvalidEntryError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidEntryError for empty name, got %v", err)
	}

	_, err = container.NewRegistry(map[string]*container.Entry{
		"broken": {},
	})
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidEntryError for nil build, got %v", err)
	}
	if ie.Name != "broken" {
		t.Errorf("expected offending name, got %q", ie.Name)
	}
}

func TestRegistryCopiesDeps(t *testing.T) {
	t.Parallel()

	deps := []string{"a"}
	r, err := container.NewRegistry(map[string]*container.Entry{
		"svc": {Deps: deps, Build: value(1)},
	})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	deps[0] = "mutated"
	entry, _ := r.Get("svc")
	if entry.Deps[0] != "a" {
		t.Errorf("expected registry to own its dep slice, got %v", entry.Deps)
	}
}

func TestRenderPath(t *testing.T) {
	t.Parallel()

	got := container.RenderPath([]string{"a", "b", "c"})
	if got != `"a" <- "b" <- "c"` {
		t.Errorf("unexpected rendering %q", got)
	}
	if container.RenderPath(nil) != "" {
		t.Error("expected empty rendering for empty path")
	}
}

func TestConcurrentGetAndHas(t *testing.T) {
	t.Parallel()

	c := newContainer(t, map[string]*container.Entry{
		"x": {Build: value(1)},
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := c.Get(context.Background(), "x"); err != nil {
					t.Errorf("Get failed: %v", err)
					return
				}
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !c.Has("x") {
					t.Error("expected Has(x)")
					return
				}
			}
		}()
	}
	wg.Wait()
}
