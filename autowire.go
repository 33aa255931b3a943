package loom

import (
	"context"
	"fmt"
	reflectPkg "reflect"

	"github.com/loom-di/loom/internal/reflect"
)

// TagKey is the struct tag that names the service a field resolves to.
const TagKey = "loom"

// Struct returns a factory for T whose dependency names are inferred from
// T's exported struct fields: the `loom:"name"` tag when present, otherwise
// the field name with its first rune lower-cased. Inference runs exactly once,
// here, and the resulting dependency list is fixed on the factory.
//
// A tag of "-" skips a field. Fields tagged ",optional" are skipped too:
// Struct factories declare a static dependency list, so an optional field
// is only filled by Populate. T may be a struct or pointer-to-struct type;
// the factory produces a value of exactly type T.
func Struct[T any](opts ...FactoryOption) Factory {
	if !reflect.IsStruct[T]() {
		// Not invocable; rejected with INVALID_FACTORY at construction.
		return Factory{}
	}

	fields, err := reflect.StructFields[T](TagKey)
	if err != nil {
		return Factory{}
	}

	var injected []reflect.Field
	deps := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.Optional {
			continue
		}
		injected = append(injected, field)
		deps = append(deps, field.Service)
	}

	t := reflectPkg.TypeOf((*T)(nil)).Elem()
	isPtr := t.Kind() == reflectPkg.Ptr
	if isPtr {
		t = t.Elem()
	}

	build := func(_ context.Context, args []any) (any, error) {
		structVal := reflectPkg.New(t).Elem()

		for i, field := range injected {
			if err := setField(structVal, field, args[i]); err != nil {
				return nil, err
			}
		}

		if isPtr {
			ptr := reflectPkg.New(t)
			ptr.Elem().Set(structVal)
			return ptr.Interface(), nil
		}
		return structVal.Interface(), nil
	}

	return NewFactory(build, append([]FactoryOption{WithDeps(deps...)}, opts...)...)
}

// Populate fills target's injectable fields from the injector. target must
// be a non-nil pointer to a struct. Unlike Struct factories, Populate honors
// ",optional": an optional field whose service is unregistered keeps its
// current value.
func Populate(ctx context.Context, inj *Injector, target any) error {
	v := reflectPkg.ValueOf(target)
	if v.Kind() != reflectPkg.Ptr || v.IsNil() || v.Elem().Kind() != reflectPkg.Struct {
		return errInvalidFactory("", fmt.Sprintf("populate target must be a non-nil struct pointer, got %s", typeNameOf(target)))
	}

	fields, err := reflect.FieldsOf(v.Elem().Type(), TagKey)
	if err != nil {
		return errInvalidFactory("", err.Error())
	}

	for _, field := range fields {
		if field.Optional && !inj.Has(field.Service) {
			continue
		}

		instance, err := inj.Get(ctx, field.Service)
		if err != nil {
			return err
		}

		if err := setField(v.Elem(), field, instance); err != nil {
			return err
		}
	}

	return nil
}

func setField(structVal reflectPkg.Value, field reflect.Field, instance any) error {
	fieldVal := structVal.Field(field.Index)

	instanceVal := reflectPkg.ValueOf(instance)
	if instance == nil || !instanceVal.Type().AssignableTo(fieldVal.Type()) {
		return errTypeMismatch(field.Service, fieldVal.Type().String(), typeNameOf(instance))
	}

	fieldVal.Set(instanceVal)
	return nil
}
