// Package shaper turns raw plan output into display-ready rows.
package shaper

import (
	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

// Rows shapes every document of a list page.
func Rows(schema query.Schema, module domain.ModuleDescriptor, columns domain.ColumnSet, docs []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Row(schema, module, columns, doc))
	}
	return out
}

// Row shapes a single document. Only the requested columns are kept.
func Row(schema query.Schema, module domain.ModuleDescriptor, columns domain.ColumnSet, doc domain.Record) domain.Record {
	out := domain.Record{"_id": doc["_id"]}
	for _, name := range columns.Names() {
		c, ok := module.Column(name)
		if !ok {
			c = domain.ColumnDescriptor{Name: name, Type: domain.ColumnString}
		}
		out[name] = cell(schema.Field(name), c, doc[name])
	}
	return out
}

func cell(f query.Field, c domain.ColumnDescriptor, raw any) any {
	if f.Union != nil {
		ref := asMap(raw)
		name := str(ref["name"])
		if f.Display != query.DisplayReference {
			return name
		}
		return domain.Record{
			"_id":   ref["_id"],
			"value": name,
			"type":  domain.DisplayLabel(str(ref["type"])),
		}
	}

	switch f.Display {
	case query.DisplayLink:
		link := asMap(raw)
		return domain.Record{"id": link["id"], "value": format(c, link["value"])}
	case query.DisplayYesNo:
		return yesNo(first(raw))
	case query.DisplayFullAddress:
		return fullAddress(raw)
	case query.DisplayPeriod:
		if p, ok := period(raw); ok {
			return p.Short()
		}
		return ""
	}
	return format(c, raw)
}
