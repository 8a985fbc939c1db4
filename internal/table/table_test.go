package table

import (
	"cmp"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name  string
	Size  int
	Order int
}

func rowComparator(id string) (func(a, b row) int, bool) {
	switch id {
	case "name":
		return func(a, b row) int { return strings.Compare(a.Name, b.Name) }, true
	case "size":
		return func(a, b row) int { return cmp.Compare(a.Size, b.Size) }, true
	}
	return nil, false
}

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{Name: fmt.Sprintf("row-%02d", n-i), Size: i % 3, Order: i}
	}
	return rows
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	active, ok := s.ActiveSort()
	require.True(t, ok)
	assert.Equal(t, Sort{ColumnID: "name"}, active)
	assert.Equal(t, Pagination{PageIndex: 0, PageSize: 10}, s.Pagination)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 0, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.total, tt.size))
		})
	}
}

func TestView_TwentyFiveRows(t *testing.T) {
	rows := makeRows(25)
	state := DefaultState().GoTo(3, PageCount(len(rows), 10))

	page := View(rows, state, rowComparator)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, 2, page.PageIndex)
	assert.Equal(t, 3, page.CurrentPage())
	assert.Len(t, page.Rows, 5)
	assert.Equal(t, 25, page.Total)
}

func TestView_PagesReassembleSortedSequence(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 37} {
		for _, size := range []int{1, 3, 10} {
			rows := makeRows(n)
			state := DefaultState().SetPageSize(size)
			count := PageCount(n, size)

			var joined []row
			for p := 1; p <= count; p++ {
				joined = append(joined, View(rows, state.GoTo(p, count), rowComparator).Rows...)
			}

			want := Sorted(rows, state, rowComparator)
			assert.Equal(t, len(want), len(joined), "n=%d size=%d", n, size)
			if n > 0 {
				assert.Equal(t, want, joined, "n=%d size=%d", n, size)
			}
		}
	}
}

func TestView_SortsBeforePaginating(t *testing.T) {
	rows := makeRows(12) // names row-12 .. row-01
	page := View(rows, DefaultState(), rowComparator)
	require.Len(t, page.Rows, 10)
	assert.Equal(t, "row-01", page.Rows[0].Name, "first page holds the globally smallest names")

	desc := View(rows, DefaultState().WithSort("name", true), rowComparator)
	assert.Equal(t, "row-12", desc.Rows[0].Name)
}

func TestView_StableSort(t *testing.T) {
	rows := makeRows(9)
	sorted := Sorted(rows, DefaultState().WithSort("size", false), rowComparator)

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Size == sorted[i-1].Size {
			assert.Less(t, sorted[i-1].Order, sorted[i].Order, "ties keep their prior order")
		}
	}

	desc := Sorted(rows, DefaultState().WithSort("size", true), rowComparator)
	for i := 1; i < len(desc); i++ {
		if desc[i].Size == desc[i-1].Size {
			assert.Less(t, desc[i-1].Order, desc[i].Order, "ties keep their prior order when descending")
		}
	}
}

func TestView_UnknownColumnKeepsOrder(t *testing.T) {
	rows := makeRows(5)
	page := View(rows, DefaultState().WithSort("missing", false), rowComparator)
	assert.Equal(t, rows, page.Rows)

	unsorted := View(rows, DefaultState().WithSort("", false), rowComparator)
	assert.Equal(t, rows, unsorted.Rows)
}

func TestView_OutOfRangeIsClamped(t *testing.T) {
	state := DefaultState()
	state.Pagination.PageIndex = 7

	page := View(makeRows(15), state, rowComparator)
	assert.Equal(t, 1, page.PageIndex)
	assert.Len(t, page.Rows, 5)

	empty := View([]row{}, state, rowComparator)
	assert.Equal(t, 0, empty.PageIndex)
	assert.Equal(t, 1, empty.PageCount)
	assert.True(t, empty.Empty())
}

func TestView_DoesNotMutateInput(t *testing.T) {
	rows := makeRows(5)
	before := append([]row(nil), rows...)
	_ = View(rows, DefaultState(), rowComparator)
	assert.Equal(t, before, rows)
}

func TestToggleSort(t *testing.T) {
	s := DefaultState().GoTo(2, 5)

	s = s.ToggleSort("size")
	assert.Equal(t, "asc", s.SortDirection("size"))
	assert.Equal(t, "", s.SortDirection("name"))
	assert.Equal(t, 0, s.Pagination.PageIndex)

	s = s.ToggleSort("size")
	assert.Equal(t, "desc", s.SortDirection("size"))

	s = s.ToggleSort("size")
	_, ok := s.ActiveSort()
	assert.False(t, ok, "third toggle clears sorting")

	s = s.ToggleSort("name")
	assert.Equal(t, "asc", s.SortDirection("name"))
}

func TestPageResets(t *testing.T) {
	s := DefaultState().GoTo(3, 4)
	require.Equal(t, 2, s.Pagination.PageIndex)

	assert.Equal(t, 0, s.ResetPage().Pagination.PageIndex)

	resized := s.SetPageSize(25)
	assert.Equal(t, 0, resized.Pagination.PageIndex)
	assert.Equal(t, 25, resized.Pagination.PageSize)

	assert.Equal(t, DefaultPageSize, s.SetPageSize(0).Pagination.PageSize)
}

func TestNavigation(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, 0, s.Prev(3).Pagination.PageIndex)
	assert.Equal(t, 1, s.Next(3).Pagination.PageIndex)
	assert.Equal(t, 2, s.GoTo(3, 3).Next(3).Pagination.PageIndex)
	assert.Equal(t, 2, s.GoTo(99, 3).Pagination.PageIndex)
	assert.Equal(t, 0, s.GoTo(-4, 3).Pagination.PageIndex)
	assert.Equal(t, 0, s.GoTo(2, 0).Pagination.PageIndex)
}

func render(items []PagerItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		switch {
		case it.Ellipsis:
			parts[i] = "…"
		case it.Current:
			parts[i] = fmt.Sprintf("[%d]", it.Page)
		default:
			parts[i] = fmt.Sprint(it.Page)
		}
	}
	return strings.Join(parts, " ")
}

func TestPager(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{1, 0, ""},
		{1, 1, ""},
		{1, 2, "[1] 2"},
		{2, 2, "1 [2]"},
		{1, 3, "[1] 2 3"},
		{1, 10, "[1] 2 … 10"},
		{3, 10, "1 2 [3] 4 … 10"},
		{4, 10, "1 2 3 [4] 5 … 10"},
		{5, 10, "1 … 4 [5] 6 … 10"},
		{8, 10, "1 … 7 [8] 9 10"},
		{10, 10, "1 … 9 [10]"},
		{12, 10, "1 … 9 [10]"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, render(Pager(tt.current, tt.total)))
		})
	}
}

func TestPager_NoDuplicatesOrOutOfRange(t *testing.T) {
	for total := 2; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			seen := map[int]bool{}
			for _, it := range Pager(current, total) {
				if it.Ellipsis {
					continue
				}
				assert.False(t, seen[it.Page], "duplicate page %d (%d of %d)", it.Page, current, total)
				assert.GreaterOrEqual(t, it.Page, 1)
				assert.LessOrEqual(t, it.Page, total)
				seen[it.Page] = true
			}
			assert.True(t, seen[1] && seen[total] && seen[current])
		}
	}
}
