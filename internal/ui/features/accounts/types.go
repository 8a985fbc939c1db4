// Package accounts provides the accounts list feature: search, filters, sorting,
// pagination and the magic column sheet.
package accounts

import (
	"maps"
	"slices"

	"github.com/jeebeez/another-signal/internal/facets"
	"github.com/jeebeez/another-signal/internal/pipeline"
	"github.com/jeebeez/another-signal/internal/table"
	"github.com/jeebeez/another-signal/internal/ui/features/common"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Element ids patched by the view endpoint.
const (
	sectionID = "accounts-section"
	filterID  = "accounts-filter"
	refreshID = "accounts-refresh"
	tableID   = "accounts-table"
	pagerID   = "accounts-pager"
)

const (
	viewEndpoint    = "/accounts/view"
	updatesEndpoint = "/accounts/updates"
	magicEndpoint   = "/magic"
)

// Signals is the page state kept in datastar signals.
type Signals struct {
	common.TableSignals
	// Filters holds the applied options per facet id, Draft the options ticked in
	// the open popover.
	Filters    map[string][]string `json:"filters"`
	Draft      map[string][]string `json:"draft"`
	FilterOpen bool                `json:"filterOpen"`
	SheetOpen  bool                `json:"sheetOpen"`
	Question   string              `json:"question"`
}

// DefaultSignals returns the signals of a freshly loaded page.
func DefaultSignals() Signals {
	return Signals{
		TableSignals: common.DefaultTableSignals(),
		Filters:      map[string][]string{},
		Draft:        map[string][]string{},
	}
}

// patchedSignals is the subset of signals the server writes back. The search term
// and the question stay client owned so typing is never overwritten.
type patchedSignals struct {
	Sorting    []table.Sort        `json:"sorting"`
	Pagination table.Pagination    `json:"pagination"`
	Filters    map[string][]string `json:"filters"`
	Draft      map[string][]string `json:"draft"`
	FilterOpen bool                `json:"filterOpen"`
}

func (s Signals) patch() patchedSignals {
	return patchedSignals{
		Sorting:    s.Sorting,
		Pagination: s.Pagination,
		Filters:    nonNil(s.Filters),
		Draft:      nonNil(s.Draft),
		FilterOpen: s.FilterOpen,
	}
}

// ActiveFilters converts the applied options into filters, known facets first in
// their declared order, unknown ids after them sorted.
func (s Signals) ActiveFilters() []core.Filter {
	var out []core.Filter
	seen := make(map[string]bool)
	for _, ex := range facets.Default {
		seen[ex.ID] = true
		if opts := s.Filters[ex.ID]; len(opts) > 0 {
			out = append(out, core.Filter{ID: ex.ID, Label: ex.Label, Options: slices.Clone(opts)})
		}
	}
	for _, id := range slices.Sorted(maps.Keys(s.Filters)) {
		if seen[id] || len(s.Filters[id]) == 0 {
			continue
		}
		out = append(out, core.Filter{ID: id, Label: id, Options: slices.Clone(s.Filters[id])})
	}
	return out
}

// Query returns the pipeline input of the signals.
func (s Signals) Query() pipeline.AccountsQuery {
	return pipeline.AccountsQuery{
		Search:  s.Search,
		Filters: s.ActiveFilters(),
		State:   s.State(),
	}
}

// Model is everything the accounts section renders.
type Model struct {
	View pipeline.AccountsView
	// Message replaces the table rows: loading, fetch failure or empty state.
	Message    string
	Refreshing bool
	Signals    Signals
}

func cloneOptions(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		if len(v) > 0 {
			out[k] = slices.Clone(v)
		}
	}
	return out
}

func nonNil(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}
