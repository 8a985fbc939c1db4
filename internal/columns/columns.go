// Package columns resolves the column set of a table from the rows it shows.
//
// Resolution is two pure passes: discovery produces an ordered set of column
// descriptors, and each descriptor renders cells for a row on demand. A column is
// a tagged variant: a static column reads a fixed attribute, a magic column looks
// up the row's answer to one free-text question.
package columns

import (
	"cmp"
	"strconv"
	"strings"
)

// Kind tags the column variant.
type Kind int

const (
	// KindStatic columns read a fixed, typed attribute.
	KindStatic Kind = iota
	// KindMagic columns read the answer to a magic column question.
	KindMagic
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindMagic:
		return "magic"
	default:
		return "unknown"
	}
}

// Placeholder is shown for a static attribute with no value.
const Placeholder = "-"

// Cell is the rendered value of one row/column pair.
type Cell struct {
	// Text is the display value.
	Text string
	// Detail is secondary text shown on demand (the reasoning of a magic answer).
	Detail string
	// Present is false when the row has nothing for this column; nothing is rendered.
	Present bool
	// Placeholder is true when Text is the empty-value placeholder.
	Placeholder bool
}

// Column describes one column over rows of type T.
type Column[T any] struct {
	ID     string
	Header string
	Kind   Kind
	// Key is the attribute key of a static column or the question of a magic column.
	Key string

	render  func(T) Cell
	compare func(a, b T) int
}

// Render produces the cell for row.
func (c Column[T]) Render(row T) Cell {
	return c.render(row)
}

// Compare orders two rows by this column's underlying value.
func (c Column[T]) Compare(a, b T) int {
	return c.compare(a, b)
}

// Text declares a static string column.
func Text[T any](key, header string, value func(T) string) Column[T] {
	return Column[T]{
		ID:     key,
		Header: header,
		Kind:   KindStatic,
		Key:    key,
		render: func(row T) Cell {
			v := value(row)
			if v == "" {
				return Cell{Text: Placeholder, Present: true, Placeholder: true}
			}
			return Cell{Text: v, Present: true}
		},
		compare: func(a, b T) int {
			return strings.Compare(value(a), value(b))
		},
	}
}

// Number declares a static integer column. Zero renders as the placeholder.
func Number[T any](key, header string, value func(T) int) Column[T] {
	return Column[T]{
		ID:     key,
		Header: header,
		Kind:   KindStatic,
		Key:    key,
		render: func(row T) Cell {
			v := value(row)
			if v == 0 {
				return Cell{Text: Placeholder, Present: true, Placeholder: true}
			}
			return Cell{Text: strconv.Itoa(v), Present: true}
		},
		compare: func(a, b T) int {
			return cmp.Compare(value(a), value(b))
		},
	}
}

// Set is an ordered column set.
type Set[T any] []Column[T]

// IDs returns the column identifiers in order.
func (s Set[T]) IDs() []string {
	ids := make([]string, len(s))
	for i, c := range s {
		ids[i] = c.ID
	}
	return ids
}

// Lookup returns the column with the given id.
func (s Set[T]) Lookup(id string) (Column[T], bool) {
	for _, c := range s {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Comparator returns the ordering function for column id.
func (s Set[T]) Comparator(id string) (func(a, b T) int, bool) {
	c, ok := s.Lookup(id)
	if !ok {
		return nil, false
	}
	return c.compare, true
}

// Magic returns only the magic columns.
func (s Set[T]) Magic() Set[T] {
	var out Set[T]
	for _, c := range s {
		if c.Kind == KindMagic {
			out = append(out, c)
		}
	}
	return out
}
