package loom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-di/loom"
)

func newResolverInjector(t *testing.T) *loom.Injector {
	t.Helper()

	registry := loom.Registry{
		"config": loom.Value(&Config{Port: 8080, Host: "localhost"}),
		"port": loom.Annotate(func(_ context.Context, args []any) (any, error) {
			return args[0].(*Config).Port, nil
		}, "config"),
	}

	inj, err := loom.New(registry)
	require.NoError(t, err)
	return inj
}

func TestResolve(t *testing.T) {
	t.Parallel()

	inj := newResolverInjector(t)

	cfg, err := loom.Resolve[*Config](inj, "config")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)

	port, err := loom.Resolve[int](inj, "port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)
}

func TestResolveTypeMismatch(t *testing.T) {
	t.Parallel()

	inj := newResolverInjector(t)

	_, err := loom.Resolve[string](inj, "config")
	require.Error(t, err)
	assert.True(t, loom.IsTypeMismatch(err))

	var e *loom.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "config", e.Service)
	assert.Contains(t, e.Message, "want string")
}

func TestResolveUnknown(t *testing.T) {
	t.Parallel()

	inj := newResolverInjector(t)

	_, err := loom.Resolve[int](inj, "nope")
	assert.True(t, loom.IsUnknownService(err))
}

func TestMustResolve(t *testing.T) {
	t.Parallel()

	inj := newResolverInjector(t)

	assert.Equal(t, 8080, loom.MustResolve[int](inj, "port"))

	assert.Panics(t, func() {
		loom.MustResolve[int](inj, "nope")
	})
}

func TestTryResolve(t *testing.T) {
	t.Parallel()

	inj := newResolverInjector(t)

	port, ok := loom.TryResolve[int](inj, "port")
	assert.True(t, ok)
	assert.Equal(t, 8080, port)

	_, ok = loom.TryResolve[int](inj, "nope")
	assert.False(t, ok)

	_, ok = loom.TryResolve[string](inj, "port")
	assert.False(t, ok)
}

func TestResolveSelf(t *testing.T) {
	t.Parallel()

	inj := newResolverInjector(t)

	self, err := loom.Resolve[*loom.Injector](inj, loom.InjectorName)
	require.NoError(t, err)
	assert.Same(t, inj, self)
}

func TestOptional(t *testing.T) {
	t.Parallel()

	some := loom.Some(7)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.True(t, some.Present())
	assert.Equal(t, 7, some.OrElse(0))

	none := loom.None[int]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.Equal(t, 3, none.OrElse(3))
	assert.Equal(t, 5, none.OrElseFunc(func() int { return 5 }))
}

func TestResolveOptional(t *testing.T) {
	t.Parallel()

	inj := newResolverInjector(t)

	opt := loom.ResolveOptional[int](inj, "port")
	require.True(t, opt.Present())
	assert.Equal(t, 8080, opt.Value())

	assert.False(t, loom.ResolveOptional[int](inj, "nope").Present())
	assert.False(t, loom.ResolveOptional[string](inj, "port").Present())
}
