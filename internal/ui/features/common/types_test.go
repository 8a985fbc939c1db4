package common

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeebeez/another-signal/internal/table"
)

func TestParseAction(t *testing.T) {
	assert.Equal(t, Action{Name: "sort", Arg: "magic:Is hiring?"}, ParseAction("sort:magic:Is hiring?"))
	assert.Equal(t, Action{Name: "search"}, ParseAction("search"))

	n, ok := ParseAction("page:3").IntArg()
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = ParseAction("page:x").IntArg()
	assert.False(t, ok)
}

func TestApplyAction(t *testing.T) {
	onPage := func(index int) TableSignals {
		s := DefaultTableSignals()
		s.Pagination.PageIndex = index
		return s
	}

	tests := []struct {
		name      string
		start     TableSignals
		action    string
		size      int
		pageCount int
		wantOK    bool
		wantIndex int
		wantSize  int
		wantSort  []table.Sort
	}{
		{name: "search resets page", start: onPage(2), action: "search", pageCount: 5, wantOK: true, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "filter resets page", start: onPage(2), action: "filter", pageCount: 5, wantOK: true, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "page size", start: onPage(2), action: "pagesize", size: 50, pageCount: 5, wantOK: true, wantSize: 50, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "go to page", start: onPage(0), action: "page:4", pageCount: 5, wantOK: true, wantIndex: 3, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "page clamped", start: onPage(0), action: "page:9", pageCount: 5, wantOK: true, wantIndex: 4, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "sort toggles and resets page", start: onPage(3), action: "sort:name", pageCount: 5, wantOK: true, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name", Desc: true}}},
		{name: "refresh keeps position", start: onPage(3), action: "refresh", pageCount: 5, wantOK: true, wantIndex: 3, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "sort without column", start: onPage(1), action: "sort", wantOK: false, wantIndex: 1, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "bad page", start: onPage(1), action: "page:abc", wantOK: false, wantIndex: 1, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
		{name: "unknown", start: onPage(1), action: "zoom", wantOK: false, wantIndex: 1, wantSize: 10, wantSort: []table.Sort{{ColumnID: "name"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.start.ApplyAction(ParseAction(tt.action), tt.size, tt.pageCount)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantIndex, got.Pagination.PageIndex)
			assert.Equal(t, tt.wantSize, got.Pagination.PageSize)
			assert.Equal(t, tt.wantSort, got.Sorting)
		})
	}
}

func TestTableSignals_StateDefaultsPageSize(t *testing.T) {
	var s TableSignals
	assert.Equal(t, table.DefaultPageSize, s.State().Pagination.PageSize)
	assert.Equal(t, []table.Sort{}, s.WithState(table.State{}).Sorting)
}
