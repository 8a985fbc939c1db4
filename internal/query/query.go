// Package query narrows an in-memory collection by free-text search and facet
// selections.
package query

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jeebeez/another-signal/internal/facets"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Searchable rows expose the string form of their attributes.
type Searchable interface {
	SearchFields() []string
}

// Apply filters accounts by term and the active facet selections.
// Search and facets compose with AND; options within one facet compose with OR.
// The result is always a new slice, even when nothing is filtered.
func Apply(accounts []core.Account, term string, active []core.Filter) []core.Account {
	if len(accounts) == 0 {
		return []core.Account{}
	}

	filtered := Search(accounts, term)

	for _, f := range active {
		if !f.Active() {
			continue
		}
		e, ok := facets.Lookup(f.ID)
		if !ok {
			continue
		}
		filtered = slices.DeleteFunc(filtered, func(a core.Account) bool {
			return !f.Contains(e.Value(a))
		})
	}

	return filtered
}

// Search keeps rows where any attribute contains term, ignoring case.
// An empty term keeps every row. The result is a new slice.
func Search[T Searchable](rows []T, term string) []T {
	if term == "" {
		return slices.Clone(rows)
	}

	m := NewMatcher(term)
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if m.Match(r.SearchFields()) {
			out = append(out, r)
		}
	}
	return out
}

// Matcher tests attribute values against one search term.
// A Matcher must not be shared between goroutines.
type Matcher struct {
	fold   cases.Caser
	needle string
}

// NewMatcher prepares a case-insensitive matcher for term.
func NewMatcher(term string) *Matcher {
	fold := cases.Fold()
	return &Matcher{fold: fold, needle: fold.String(term)}
}

// Match reports whether any field contains the term.
func (m *Matcher) Match(fields []string) bool {
	for _, f := range fields {
		if strings.Contains(m.fold.String(f), m.needle) {
			return true
		}
	}
	return false
}
