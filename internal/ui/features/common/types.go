package common

import "github.com/jeebeez/another-signal/internal/table"

// Action names understood by the view endpoints.
const (
	ActionSearch   = "search"
	ActionFilter   = "filter"
	ActionReset    = "reset"
	ActionPageSize = "pagesize"
	ActionSort     = "sort"
	ActionPage     = "page"
	ActionRefresh  = "refresh"
)

// TableSignals is the per-page table state kept in datastar signals.
type TableSignals struct {
	Search     string           `json:"search"`
	Sorting    []table.Sort     `json:"sorting"`
	Pagination table.Pagination `json:"pagination"`
}

// DefaultTableSignals returns the signals of a freshly loaded page.
func DefaultTableSignals() TableSignals {
	s := table.DefaultState()
	return TableSignals{Sorting: s.Sorting, Pagination: s.Pagination}
}

// State returns the table engine state.
func (s TableSignals) State() table.State {
	st := table.State{Sorting: s.Sorting, Pagination: s.Pagination}
	if st.Pagination.PageSize <= 0 {
		st.Pagination.PageSize = table.DefaultPageSize
	}
	return st
}

// WithState copies the engine state back into the signals.
func (s TableSignals) WithState(st table.State) TableSignals {
	s.Sorting = st.Sorting
	if s.Sorting == nil {
		s.Sorting = []table.Sort{}
	}
	s.Pagination = st.Pagination
	return s
}

// ApplyAction runs the table transition named by a. pageCount is the page count
// before the transition, used to clamp page moves. The boolean is false for actions
// the table does not own.
func (s TableSignals) ApplyAction(a Action, size, pageCount int) (TableSignals, bool) {
	st := s.State()
	switch a.Name {
	case ActionSearch, ActionFilter, ActionReset:
		st = st.ResetPage()
	case ActionPageSize:
		st = st.SetPageSize(size)
	case ActionSort:
		if a.Arg == "" {
			return s, false
		}
		st = st.ToggleSort(a.Arg)
	case ActionPage:
		n, ok := a.IntArg()
		if !ok {
			return s, false
		}
		st = st.GoTo(n, pageCount)
	case ActionRefresh:
	default:
		return s, false
	}
	return s.WithState(st), true
}
