// Package reflect holds the reflection helpers behind struct-field dependency
// inference and the typed accessors.
package reflect

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field describes one injectable struct field.
type Field struct {
	// Index is the field's position within the struct.
	Index int
	// Name is the Go field name.
	Name string
	// Service is the service name the field resolves to.
	Service string
	// Optional fields tolerate an unregistered service and keep their zero
	// value.
	Optional bool
}

// StructFields inspects T (a struct or pointer-to-struct type) and returns
// its injectable fields in declaration order. The service name comes from the
// tag under tagKey; untagged exported fields fall back to the field name with
// its first rune lower-cased. A tag value of "-" skips the field, and the
// ",optional" option marks it optional.
func StructFields[T any](tagKey string) ([]Field, error) {
	return FieldsOf(reflect.TypeOf((*T)(nil)).Elem(), tagKey)
}

// FieldsOf is StructFields for a reflect.Type obtained at runtime.
func FieldsOf(t reflect.Type, tagKey string) ([]Field, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct type, got %s", t.Kind())
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		service := lowerFirst(f.Name)
		optional := false

		if tag, ok := f.Tag.Lookup(tagKey); ok {
			name, opts, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				service = name
			}
			optional = opts == "optional"
		}

		fields = append(fields, Field{
			Index:    i,
			Name:     f.Name,
			Service:  service,
			Optional: optional,
		})
	}

	return fields, nil
}

// IsStruct reports whether T is a struct or pointer-to-struct type.
func IsStruct[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// TypeName returns the display name of T for error messages.
func TypeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.String()
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
