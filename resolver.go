package loom

import (
	"context"
	"fmt"

	"github.com/loom-di/loom/internal/reflect"
)

func typeNameOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}

// Resolve returns the service registered under name asserted to T. The cache
// itself is type-erased; this is the typed accessor over it, failing fast
// with a TYPE_MISMATCH Error instead of ever handing back a mistyped value.
func Resolve[T any](inj *Injector, name string) (T, error) {
	return ResolveCtx[T](context.Background(), inj, name)
}

func ResolveCtx[T any](ctx context.Context, inj *Injector, name string) (T, error) {
	var zero T

	instance, err := inj.Get(ctx, name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(name, reflect.TypeName[T](), typeNameOf(instance))
	}

	return typed, nil
}

func MustResolve[T any](inj *Injector, name string) T {
	v, err := Resolve[T](inj, name)
	if err != nil {
		panic(err)
	}
	return v
}

func MustResolveCtx[T any](ctx context.Context, inj *Injector, name string) T {
	v, err := ResolveCtx[T](ctx, inj, name)
	if err != nil {
		panic(err)
	}
	return v
}

func TryResolve[T any](inj *Injector, name string) (T, bool) {
	v, err := Resolve[T](inj, name)
	return v, err == nil
}

// Optional wraps a value that may be absent.
type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// ResolveOptional returns None when the service is unregistered, fails to
// build, or has the wrong type.
func ResolveOptional[T any](inj *Injector, name string) Optional[T] {
	return ResolveOptionalCtx[T](context.Background(), inj, name)
}

func ResolveOptionalCtx[T any](ctx context.Context, inj *Injector, name string) Optional[T] {
	if !inj.Has(name) {
		return None[T]()
	}

	typed, err := ResolveCtx[T](ctx, inj, name)
	if err != nil {
		return None[T]()
	}

	return Some(typed)
}
