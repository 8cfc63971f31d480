package shaper

import (
	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

// Drawer renders a record as labelled values in registry order. Every field
// the record carries gets an entry, empty ones with an empty value.
func Drawer(schema query.Schema, module domain.ModuleDescriptor, doc domain.Record) []domain.DrawerField {
	out := make([]domain.DrawerField, 0, len(module.Columns))
	for _, c := range module.Columns {
		raw, ok := doc[c.Name]
		if !ok {
			continue
		}
		v := plain(cell(schema.Field(c.Name), c, raw))
		if v == nil {
			v = ""
		}
		out = append(out, domain.DrawerField{Label: c.Label, Value: v, Type: c.Type})
	}
	return out
}

// plain unwraps navigable cells to their display value.
func plain(v any) any {
	if m, ok := v.(domain.Record); ok {
		return m["value"]
	}
	return v
}
