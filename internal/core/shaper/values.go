package shaper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// first unwraps a joined array to its first element.
func first(v any) any {
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	return v
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// dollars rounds a monetary value to cents.
func dollars(v any) any {
	d, ok := toDecimal(v)
	if !ok {
		return v
	}
	return d.Round(2).InexactFloat64()
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	}
	return 0
}

func period(v any) (domain.Period, bool) {
	m := asMap(v)
	if m == nil {
		return domain.Period{}, false
	}
	p, err := domain.NewPeriod(toInt(m["month"]), toInt(m["year"]))
	return p, err == nil
}

func yesNo(v any) string {
	if b, ok := v.(bool); ok && b {
		return "Yes"
	}
	return "No"
}

var addressParts = []string{"addressLine", "city", "state", "country", "zipCode"}

// fullAddress joins the non-empty address parts.
func fullAddress(v any) string {
	m := asMap(v)
	if m == nil {
		return ""
	}
	parts := make([]string, 0, len(addressParts))
	for _, key := range addressParts {
		if s := strings.TrimSpace(str(named(m[key]))); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// named flattens a {name, ...} sub-document, such as a country, to its name.
func named(v any) any {
	if m := asMap(v); m != nil {
		if name, ok := m["name"]; ok {
			return name
		}
	}
	return v
}

// format applies the column type to a scalar. Missing values render as "".
func format(c domain.ColumnDescriptor, v any) any {
	v = named(first(v))
	if v == nil {
		return ""
	}
	switch c.Type {
	case domain.ColumnStatus:
		if s, ok := v.(string); ok {
			return domain.DisplayLabel(s)
		}
	case domain.ColumnDollar:
		return dollars(v)
	}
	return v
}
