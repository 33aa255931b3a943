package container

import (
	"fmt"
	"strings"
)

// RenderPath renders a resolution path the way it appears in diagnostics,
// e.g. `"a" <- "b" <- "c"`.
func RenderPath(path []string) string {
	quoted := make([]string, len(path))
	for i, name := range path {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, " <- ")
}

// NotFoundError reports a requested service name with no registered factory.
// Path is the resolution chain that led to the request, ending in the missing
// name.
type NotFoundError struct {
	Path []string
}

func (e *NotFoundError) Error() string {
	return "no factory registered for service: " + RenderPath(e.Path)
}

// Name returns the missing service name.
func (e *NotFoundError) Name() string {
	return e.Path[len(e.Path)-1]
}

// CycleError reports a service requested while already mid-resolution. Path
// ends with the repeated name.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "circular dependency detected: " + RenderPath(e.Path)
}

// Name returns the repeated service name.
func (e *CycleError) Name() string {
	return e.Path[len(e.Path)-1]
}

// InvalidEntryError reports a registry entry that is not invocable.
type InvalidEntryError struct {
	Name   string
	Reason string
}

func (e *InvalidEntryError) Error() string {
	if e.Name == "" {
		return "invalid factory: " + e.Reason
	}
	return fmt.Sprintf("invalid factory for service %q: %s", e.Name, e.Reason)
}

// BootstrapError reports an eager service that failed to build during
// construction.
type BootstrapError struct {
	Service string
	Err     error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("failed to bootstrap eager service %q: %v", e.Service, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}
