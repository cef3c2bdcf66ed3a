// Package selection provides the field-selection value type shared by the
// plan graph and its operation payloads.
//
// A Selection is an ordered, duplicate-free set of field names. Order is
// first-seen insertion order, which keeps every derived artifact (formatter
// output, DOT labels, golden files) deterministic without sorting.
//
// This package is the foundational layer: all other internal packages may
// import selection; selection imports nothing internal.
package selection

import "strings"

// Selection is an ordered set of field names.
//
// The zero value is the empty selection and is ready to use. Selection values
// are treated as immutable: every operation returns a new Selection and never
// mutates its receiver or arguments.
type Selection struct {
	fields []string
}

// New builds a Selection from the given field names, dropping duplicates
// while preserving first-seen order.
func New(fields ...string) Selection {
	s := Selection{}
	for _, f := range fields {
		s = s.add(f)
	}
	return s
}

func (s Selection) add(field string) Selection {
	if s.Contains(field) {
		return s
	}
	fields := make([]string, 0, len(s.fields)+1)
	fields = append(fields, s.fields...)
	fields = append(fields, field)
	return Selection{fields: fields}
}

// Fields returns the field names in selection order.
// The returned slice is a copy and safe to modify.
func (s Selection) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of fields in the selection.
func (s Selection) Len() int { return len(s.fields) }

// IsEmpty reports whether the selection contains no fields.
func (s Selection) IsEmpty() bool { return len(s.fields) == 0 }

// Contains reports whether field is part of the selection.
func (s Selection) Contains(field string) bool {
	for _, f := range s.fields {
		if f == field {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every field of other is part of the selection,
// i.e. the receiver is a superset of other. The empty selection is contained
// in every selection.
func (s Selection) ContainsAll(other Selection) bool {
	for _, f := range other.fields {
		if !s.Contains(f) {
			return false
		}
	}
	return true
}

// Union returns the set union of s and other. Fields of s come first, then
// the fields of other that s is missing, each group in its original order.
func (s Selection) Union(other Selection) Selection {
	out := s
	for _, f := range other.fields {
		out = out.add(f)
	}
	return out
}

// Missing returns the fields of required that are absent from s, in
// required's order. An empty result means s satisfies required.
func (s Selection) Missing(required Selection) Selection {
	out := Selection{}
	for _, f := range required.fields {
		if !s.Contains(f) {
			out = out.add(f)
		}
	}
	return out
}

// Equal reports whether two selections contain the same fields, regardless
// of order.
func (s Selection) Equal(other Selection) bool {
	return len(s.fields) == len(other.fields) && s.ContainsAll(other)
}

// String renders the selection as "(a, b, c)".
func (s Selection) String() string {
	return "(" + strings.Join(s.fields, ", ") + ")"
}

// Union returns the set union of all given selections, in argument order.
func Union(selections ...Selection) Selection {
	out := Selection{}
	for _, s := range selections {
		out = out.Union(s)
	}
	return out
}
