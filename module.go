package loom

// Module groups named factories so a registry can be assembled from
// independent pieces before the injector is constructed. Modules only
// collect; nothing is built until the merged registry is handed to New.
type Module struct {
	name       string
	entries    []moduleEntry
	submodules []*Module
}

type moduleEntry struct {
	service string
	factory Factory
}

func NewModule(name string) *Module {
	return &Module{name: name}
}

func (m *Module) Name() string {
	return m.name
}

// Provide adds a factory under service. Chainable.
func (m *Module) Provide(service string, factory Factory) *Module {
	m.entries = append(m.entries, moduleEntry{service: service, factory: factory})
	return m
}

// ProvideValue adds a pre-built instance under service. Chainable.
func (m *Module) ProvideValue(service string, value any) *Module {
	return m.Provide(service, Value(value))
}

// Include merges a submodule's factories ahead of this module's own.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) apply(registry Registry) error {
	for _, sub := range m.submodules {
		if err := sub.apply(registry); err != nil {
			return err
		}
	}

	for _, entry := range m.entries {
		if _, exists := registry[entry.service]; exists {
			return errDuplicateService(entry.service)
		}
		registry[entry.service] = entry.factory
	}

	return nil
}

// Build merges the modules into a single registry, failing with a
// DUPLICATE_SERVICE Error when two factories claim the same name.
func Build(modules ...*Module) (Registry, error) {
	registry := make(Registry)
	for _, m := range modules {
		if err := m.apply(registry); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
