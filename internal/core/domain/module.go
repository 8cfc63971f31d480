package domain

// ColumnType drives how a column is formatted for display.
type ColumnType string

const (
	ColumnString  ColumnType = "string"
	ColumnDate    ColumnType = "date"
	ColumnDollar  ColumnType = "dollar"
	ColumnBoolean ColumnType = "boolean"
	ColumnStatus  ColumnType = "status"
)

// ColumnDescriptor is a single selectable column of a module.
type ColumnDescriptor struct {
	Name  string     `json:"name"`
	Label string     `json:"label"`
	Type  ColumnType `json:"type"`
}

// ModuleDescriptor is a named listing with its ordered column catalog and the
// subset selected for users that never customised it.
type ModuleDescriptor struct {
	Name           string
	Columns        []ColumnDescriptor
	DefaultColumns []string
}

// Column returns the descriptor for name.
func (m ModuleDescriptor) Column(name string) (ColumnDescriptor, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// HasColumn reports whether name belongs to the module.
func (m ModuleDescriptor) HasColumn(name string) bool {
	_, ok := m.Column(name)
	return ok
}

// Defaults returns the default selection in registry order.
func (m ModuleDescriptor) Defaults() ColumnSet {
	defaults := make(map[string]struct{}, len(m.DefaultColumns))
	for _, n := range m.DefaultColumns {
		defaults[n] = struct{}{}
	}
	names := make([]string, 0, len(m.DefaultColumns))
	for _, c := range m.Columns {
		if _, ok := defaults[c.Name]; ok {
			names = append(names, c.Name)
		}
	}
	return NewColumnSet(names...)
}

// Headers returns the descriptors of the selected columns, in selection order.
// Names unknown to the module are skipped.
func (m ModuleDescriptor) Headers(selected ColumnSet) []ColumnDescriptor {
	out := make([]ColumnDescriptor, 0, selected.Len())
	for _, name := range selected.Names() {
		if c, ok := m.Column(name); ok {
			out = append(out, c)
		}
	}
	return out
}

// Known filters selected down to the names the module defines.
func (m ModuleDescriptor) Known(selected ColumnSet) ColumnSet {
	names := make([]string, 0, selected.Len())
	for _, name := range selected.Names() {
		if m.HasColumn(name) {
			names = append(names, name)
		}
	}
	return NewColumnSet(names...)
}

// ColumnOption is a catalog entry flagged with whether the caller selected it.
type ColumnOption struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Type      ColumnType `json:"type"`
	IsChecked bool       `json:"isChecked"`
}

// ColumnCatalog splits a module's columns into default and custom fields.
type ColumnCatalog struct {
	DefaultFields []ColumnOption `json:"defaultFields"`
	CustomFields  []ColumnOption `json:"customFields"`
}
