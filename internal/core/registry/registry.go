// Package registry holds the static catalog of listable modules and their
// selectable columns. It is built once at startup and never mutated.
package registry

import (
	"fmt"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// Registry is a read-only lookup of module descriptors by name.
type Registry struct {
	modules map[string]domain.ModuleDescriptor
	order   []string
}

// New validates and indexes the given modules. Column names must be unique
// within a module and every default column must be one of its columns.
func New(modules ...domain.ModuleDescriptor) (*Registry, error) {
	r := &Registry{modules: make(map[string]domain.ModuleDescriptor, len(modules))}
	for _, m := range modules {
		if m.Name == "" {
			return nil, fmt.Errorf("registry: module without name")
		}
		if _, dup := r.modules[m.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate module %q", m.Name)
		}
		seen := make(map[string]struct{}, len(m.Columns))
		for _, c := range m.Columns {
			if _, dup := seen[c.Name]; dup {
				return nil, fmt.Errorf("registry: module %q: duplicate column %q", m.Name, c.Name)
			}
			seen[c.Name] = struct{}{}
		}
		for _, d := range m.DefaultColumns {
			if _, ok := seen[d]; !ok {
				return nil, fmt.Errorf("registry: module %q: default column %q is not a column", m.Name, d)
			}
		}
		r.modules[m.Name] = clone(m)
		r.order = append(r.order, m.Name)
	}
	return r, nil
}

// MustNew is New that panics on an invalid catalog.
func MustNew(modules ...domain.ModuleDescriptor) *Registry {
	r, err := New(modules...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the built-in catalog.
func Default() *Registry {
	return MustNew(catalog()...)
}

// Get returns a copy of the named module, or domain.ErrModuleNotFound.
func (r *Registry) Get(name string) (domain.ModuleDescriptor, error) {
	m, ok := r.modules[name]
	if !ok {
		return domain.ModuleDescriptor{}, fmt.Errorf("%w: %q", domain.ErrModuleNotFound, name)
	}
	return clone(m), nil
}

// Names lists module names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func clone(m domain.ModuleDescriptor) domain.ModuleDescriptor {
	cols := make([]domain.ColumnDescriptor, len(m.Columns))
	copy(cols, m.Columns)
	defaults := make([]string, len(m.DefaultColumns))
	copy(defaults, m.DefaultColumns)
	return domain.ModuleDescriptor{Name: m.Name, Columns: cols, DefaultColumns: defaults}
}
