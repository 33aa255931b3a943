package loom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/loom-di/loom/internal/container"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeUnknownService
	ErrCodeCircularDependency
	ErrCodeInvalidFactory
	ErrCodeDuplicateService
	ErrCodeTypeMismatch
	ErrCodeBootstrapFailed
	ErrCodeValidationFailed
	ErrCodeHealthCheckFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeUnknownService:     "UNKNOWN_SERVICE",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeInvalidFactory:     "INVALID_FACTORY",
	ErrCodeDuplicateService:   "DUPLICATE_SERVICE",
	ErrCodeTypeMismatch:       "TYPE_MISMATCH",
	ErrCodeBootstrapFailed:    "BOOTSTRAP_FAILED",
	ErrCodeValidationFailed:   "VALIDATION_FAILED",
	ErrCodeHealthCheckFailed:  "HEALTH_CHECK_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the structured error for every failure the injector itself
// raises. Errors raised by factories during their own execution are never
// wrapped in an Error; they propagate unchanged.
type Error struct {
	Code    ErrorCode
	Message string
	Service string
	// Path is the resolution chain that exposed the failure, outermost
	// request first.
	Path  []string
	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q:", e.Service))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// RenderPath renders a resolution chain for diagnostics, e.g.
// `"a" <- "b" <- "c"`.
func RenderPath(path []string) string {
	return container.RenderPath(path)
}

func errUnknownService(path []string) *Error {
	e := newError(
		ErrCodeUnknownService,
		"no factory registered for service: "+container.RenderPath(path),
		nil,
	)
	e.Service = path[len(path)-1]
	e.Path = path
	return e
}

func errCircularDependency(path []string) *Error {
	e := newError(
		ErrCodeCircularDependency,
		"circular dependency detected: "+container.RenderPath(path),
		nil,
	)
	e.Service = path[len(path)-1]
	e.Path = path
	return e
}

func errInvalidFactory(service, reason string) *Error {
	e := newError(ErrCodeInvalidFactory, reason, nil)
	e.Service = service
	return e
}

func errDuplicateService(service string) *Error {
	e := newError(
		ErrCodeDuplicateService,
		fmt.Sprintf("factory already registered for service %q", service),
		nil,
	)
	e.Service = service
	return e
}

func errTypeMismatch(service, want, got string) *Error {
	e := newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("service resolved to %s, want %s", got, want),
		nil,
	)
	e.Service = service
	return e
}

func errBootstrapFailed(service string, cause error) *Error {
	e := newError(
		ErrCodeBootstrapFailed,
		fmt.Sprintf("failed to bootstrap eager service %q", service),
		cause,
	)
	e.Service = service
	return e
}

func errValidationFailed(message string) *Error {
	return newError(ErrCodeValidationFailed, message, nil)
}

func errHealthCheckFailed(service string, cause error) *Error {
	e := newError(
		ErrCodeHealthCheckFailed,
		fmt.Sprintf("health check failed for service %q", service),
		cause,
	)
	e.Service = service
	return e
}

// convertResolveError maps the resolution core's errors onto structured
// Errors. Anything else is a factory's own error and is returned as-is.
func convertResolveError(err error) error {
	var notFound *container.NotFoundError
	if errors.As(err, &notFound) {
		return errUnknownService(notFound.Path)
	}

	var cycle *container.CycleError
	if errors.As(err, &cycle) {
		return errCircularDependency(cycle.Path)
	}

	var invalid *container.InvalidEntryError
	if errors.As(err, &invalid) {
		return errInvalidFactory(invalid.Name, invalid.Reason)
	}

	return err
}

func IsUnknownService(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeUnknownService
}

func IsCircularDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircularDependency
}

func IsInvalidFactory(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInvalidFactory
}

func IsDuplicateService(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDuplicateService
}

func IsTypeMismatch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTypeMismatch
}

func IsBootstrapFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeBootstrapFailed
}

func IsValidationFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeValidationFailed
}

func IsHealthCheckFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeHealthCheckFailed
}
