// Package table turns a row set into the visible page of a sorted, paginated table
// and owns the sort and pagination state transitions.
package table

// DefaultPageSize is the page size of a freshly mounted table.
const DefaultPageSize = 10

// PageSizes are the page sizes a table offers.
var PageSizes = []int{10, 20, 50}

// DefaultSortColumn is the column sorted on mount.
const DefaultSortColumn = "name"

// Sort is one sort key.
type Sort struct {
	ColumnID string `json:"id"`
	Desc     bool   `json:"desc"`
}

// Pagination is the 0-based page position.
type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// State is the view state of one table instance.
type State struct {
	Sorting    []Sort     `json:"sorting"`
	Pagination Pagination `json:"pagination"`
}

// DefaultState returns the state of a freshly mounted table.
func DefaultState() State {
	return State{
		Sorting:    []Sort{{ColumnID: DefaultSortColumn}},
		Pagination: Pagination{PageSize: DefaultPageSize},
	}
}

// ActiveSort returns the single active sort key, if any.
func (s State) ActiveSort() (Sort, bool) {
	if len(s.Sorting) == 0 {
		return Sort{}, false
	}
	return s.Sorting[0], true
}

// SortDirection returns "asc", "desc" or "" for column id.
func (s State) SortDirection(id string) string {
	active, ok := s.ActiveSort()
	if !ok || active.ColumnID != id {
		return ""
	}
	if active.Desc {
		return "desc"
	}
	return "asc"
}

// ToggleSort cycles column id through ascending, descending and unsorted.
// Selecting a different column starts it ascending. The page resets.
func (s State) ToggleSort(id string) State {
	next := s
	switch s.SortDirection(id) {
	case "":
		next.Sorting = []Sort{{ColumnID: id}}
	case "asc":
		next.Sorting = []Sort{{ColumnID: id, Desc: true}}
	default:
		next.Sorting = nil
	}
	return next.ResetPage()
}

// WithSort replaces the sort key. An empty id clears sorting.
func (s State) WithSort(id string, desc bool) State {
	next := s
	if id == "" {
		next.Sorting = nil
		return next
	}
	next.Sorting = []Sort{{ColumnID: id, Desc: desc}}
	return next
}

// ResetPage moves to the first page. Every change to the row set (search,
// filters) must go through it so a stale index never outlives a shrunk result.
func (s State) ResetPage() State {
	next := s
	next.Pagination.PageIndex = 0
	return next
}

// SetPageSize changes the page size and resets the page.
// Non-positive sizes fall back to DefaultPageSize.
func (s State) SetPageSize(size int) State {
	next := s
	if size <= 0 {
		size = DefaultPageSize
	}
	next.Pagination.PageSize = size
	return next.ResetPage()
}

// GoTo moves to the 1-based page, clamped to [1, pageCount].
func (s State) GoTo(page, pageCount int) State {
	next := s
	next.Pagination.PageIndex = clamp(page-1, 0, max(pageCount, 1)-1)
	return next
}

// Next moves forward one page if there is one.
func (s State) Next(pageCount int) State {
	return s.GoTo(s.Pagination.PageIndex+2, pageCount)
}

// Prev moves back one page if there is one.
func (s State) Prev(pageCount int) State {
	return s.GoTo(s.Pagination.PageIndex, pageCount)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
