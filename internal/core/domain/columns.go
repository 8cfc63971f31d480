package domain

// ColumnSet is an ordered, duplicate-free list of column names. It is a value:
// every method that changes membership returns a new set.
type ColumnSet struct {
	names []string
}

// NewColumnSet builds a set keeping the first occurrence of each name.
func NewColumnSet(names ...string) ColumnSet {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return ColumnSet{names: out}
}

// Names returns a copy of the names in order.
func (s ColumnSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s ColumnSet) Len() int { return len(s.names) }

func (s ColumnSet) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// With returns a new set with extra appended after the existing names.
func (s ColumnSet) With(extra ...string) ColumnSet {
	all := make([]string, 0, len(s.names)+len(extra))
	all = append(all, s.names...)
	all = append(all, extra...)
	return NewColumnSet(all...)
}
