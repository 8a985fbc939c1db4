package table

import "slices"

// Page is the visible slice of a table.
type Page[T any] struct {
	Rows      []T
	PageIndex int
	PageCount int
	Total     int
}

// Empty reports whether the page has no rows to show.
func (p Page[T]) Empty() bool {
	return len(p.Rows) == 0
}

// CurrentPage returns the 1-based page number.
func (p Page[T]) CurrentPage() int {
	return p.PageIndex + 1
}

// ComparatorFunc resolves the ordering function of a column.
type ComparatorFunc[T any] func(columnID string) (func(a, b T) int, bool)

// PageCount returns ceil(total/size), never less than 1.
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Sorted returns a stably sorted copy of rows. Unknown columns leave the order as is.
func Sorted[T any](rows []T, state State, comparator ComparatorFunc[T]) []T {
	out := slices.Clone(rows)
	active, ok := state.ActiveSort()
	if !ok || comparator == nil {
		return out
	}
	compare, ok := comparator(active.ColumnID)
	if !ok {
		return out
	}
	if active.Desc {
		slices.SortStableFunc(out, func(a, b T) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// View sorts the full row set, then cuts out the page selected by state.
// An index past the last page is clamped to the last page.
func View[T any](rows []T, state State, comparator ComparatorFunc[T]) Page[T] {
	size := state.Pagination.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	sorted := Sorted(rows, state, comparator)
	count := PageCount(len(sorted), size)
	index := clamp(state.Pagination.PageIndex, 0, count-1)

	start := min(index*size, len(sorted))
	end := min(start+size, len(sorted))

	return Page[T]{
		Rows:      sorted[start:end],
		PageIndex: index,
		PageCount: count,
		Total:     len(sorted),
	}
}
