package container

import "sort"

// Entry is one registered factory: its declared dependency names in
// declaration order, the build function invoked with the resolved values, and
// the eager marker.
type Entry struct {
	Name  string
	Deps  []string
	Eager bool
	Build BuildFunc
}

// Registry is the frozen name -> entry table. It is populated once at
// construction and never mutated afterwards.
type Registry struct {
	entries map[string]*Entry
}

// NewRegistry copies the given entries into a frozen registry. Each entry
// must have a non-empty name and a non-nil build function.
func NewRegistry(entries map[string]*Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]*Entry, len(entries))}

	for name, entry := range entries {
		if name == "" {
			return nil, &InvalidEntryError{Name: name, Reason: "empty service name"}
		}
		if entry == nil || entry.Build == nil {
			return nil, &InvalidEntryError{Name: name, Reason: "factory is not invocable"}
		}

		deps := make([]string, len(entry.Deps))
		copy(deps, entry.Deps)

		r.entries[name] = &Entry{
			Name:  name,
			Deps:  deps,
			Eager: entry.Eager,
			Build: entry.Build,
		}
	}

	return r, nil
}

func (r *Registry) Get(name string) (*Entry, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

func (r *Registry) Size() int {
	return len(r.entries)
}

// Keys returns all registered service names in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for name := range r.entries {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// Dependencies returns a name -> declared-dependencies mapping for building
// the dependency graph.
func (r *Registry) Dependencies() map[string][]string {
	deps := make(map[string][]string, len(r.entries))
	for name, entry := range r.entries {
		d := make([]string, len(entry.Deps))
		copy(d, entry.Deps)
		deps[name] = d
	}
	return deps
}
