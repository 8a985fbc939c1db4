// Package pipeline composes facets, query, columns and the table engine into the
// view of one table page. Every front end renders from these views.
package pipeline

import (
	"fmt"

	"github.com/jeebeez/another-signal/internal/columns"
	"github.com/jeebeez/another-signal/internal/facets"
	"github.com/jeebeez/another-signal/internal/query"
	"github.com/jeebeez/another-signal/internal/table"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Empty-state messages.
const (
	MsgLoadingAccounts   = "Loading accounts..."
	MsgNoAccounts        = "No accounts found"
	MsgNoMatchAccounts   = "No matching accounts found"
	MsgLoadingProspects  = "Loading prospects..."
	MsgNoProspects       = "No prospects found"
	MsgNoMatchProspects  = "No matching prospects found"
	MsgLoadingAccount    = "Loading account information..."
	defaultProspectTitle = "Prospects"
)

// AccountsQuery is the user-controlled input of the accounts table.
type AccountsQuery struct {
	Search  string
	Filters []core.Filter
	State   table.State
}

// Filtering reports whether a search term or an active filter narrows the rows.
func (q AccountsQuery) Filtering() bool {
	if q.Search != "" {
		return true
	}
	for _, f := range q.Filters {
		if f.Active() {
			return true
		}
	}
	return false
}

// ActiveFilterCount returns the number of facets with at least one selected option.
func (q AccountsQuery) ActiveFilterCount() int {
	n := 0
	for _, f := range q.Filters {
		if f.Active() {
			n++
		}
	}
	return n
}

// AccountsView is one rendered state of the accounts table.
type AccountsView struct {
	Facets  []core.Filter
	Columns columns.Set[core.Account]
	Page    table.Page[core.Account]
	Pager   []table.PagerItem
	State   table.State
	// Loaded is the number of accounts in the snapshot before filtering.
	Loaded    int
	Filtering bool
}

// Accounts runs the pipeline: facets over the full snapshot, then search and
// filters, then column discovery over the filtered rows, then sort and paginate.
func Accounts(all []core.Account, q AccountsQuery) AccountsView {
	filtered := query.Apply(all, q.Search, q.Filters)
	cols := columns.Accounts(filtered)
	page := table.View(filtered, q.State, cols.Comparator)

	state := q.State
	state.Pagination.PageIndex = page.PageIndex

	return AccountsView{
		Facets:    facets.Compute(all, facets.Default...),
		Columns:   cols,
		Page:      page,
		Pager:     table.Pager(page.CurrentPage(), page.PageCount),
		State:     state,
		Loaded:    len(all),
		Filtering: q.Filtering(),
	}
}

// Showing is the row count line, empty when no row matches.
func (v AccountsView) Showing() string {
	return showing(len(v.Page.Rows), v.Page.Total, "accounts")
}

// EmptyMessage is the placeholder row shown when the page has no rows.
func (v AccountsView) EmptyMessage() string {
	if v.Filtering {
		return MsgNoMatchAccounts
	}
	return MsgNoAccounts
}

// ProspectsQuery is the user-controlled input of the prospects table.
type ProspectsQuery struct {
	Search string
	State  table.State
}

// ProspectsView is one rendered state of the prospects table.
type ProspectsView struct {
	Columns   columns.Set[core.Prospect]
	Page      table.Page[core.Prospect]
	Pager     []table.PagerItem
	State     table.State
	Loaded    int
	Filtering bool
}

// Prospects runs search, sort and pagination over the prospects of one account.
func Prospects(all []core.Prospect, q ProspectsQuery) ProspectsView {
	filtered := query.Search(all, q.Search)
	cols := columns.Prospects()
	page := table.View(filtered, q.State, cols.Comparator)

	state := q.State
	state.Pagination.PageIndex = page.PageIndex

	return ProspectsView{
		Columns:   cols,
		Page:      page,
		Pager:     table.Pager(page.CurrentPage(), page.PageCount),
		State:     state,
		Loaded:    len(all),
		Filtering: q.Search != "",
	}
}

// Showing is the row count line, empty when no row matches.
func (v ProspectsView) Showing() string {
	return showing(len(v.Page.Rows), v.Page.Total, "prospects")
}

// EmptyMessage is the placeholder row shown when the page has no rows.
func (v ProspectsView) EmptyMessage() string {
	if v.Filtering {
		return MsgNoMatchProspects
	}
	return MsgNoProspects
}

// ProspectsTitle is the heading of the prospects page.
func ProspectsTitle(accountName string) string {
	if accountName == "" {
		return defaultProspectTitle
	}
	return accountName + "'s Prospects"
}

func showing(rows, total int, noun string) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d %s", rows, total, noun)
}
