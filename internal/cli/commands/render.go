package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeebeez/another-signal/internal/cli/output"
	"github.com/jeebeez/another-signal/internal/columns"
	"github.com/jeebeez/another-signal/internal/label"
	"github.com/jeebeez/another-signal/internal/table"
)

// cellWidth bounds text cells on a terminal; piped output is never cut.
const cellWidth = 40

// buildTable lays out one page of rows under cols.
func buildTable[T any](r *output.Renderer, cols columns.Set[T], rows []T) output.Table {
	fit := r.EffectiveMode() == output.ModeText

	t := output.Table{Headers: make([]string, len(cols))}
	for i, c := range cols {
		t.Headers[i] = c.Header
	}
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cell := c.Render(row)
			if !cell.Present {
				continue
			}
			cells[i] = cell.Text
			if fit {
				cells[i] = label.Fit(cell.Text, cellWidth).Text
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// footer joins the row count line and the pager.
func footer(showing string, pager []table.PagerItem) string {
	var parts []string
	if showing != "" {
		parts = append(parts, showing)
	}
	if p := formatPager(pager); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(parts, " · ")
}

// formatPager renders a compact pager as "1 [2] 3 … 9".
func formatPager(items []table.PagerItem) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		switch {
		case it.Ellipsis:
			parts[i] = "…"
		case it.Current:
			parts[i] = "[" + strconv.Itoa(it.Page) + "]"
		default:
			parts[i] = strconv.Itoa(it.Page)
		}
	}
	return "Page " + strings.Join(parts, " ")
}

// sortFlag resolves --sort/--desc against the available columns. Magic columns
// are addressed by their question.
func sortFlag[T any](cols columns.Set[T], state table.State, id string, desc bool) (table.State, error) {
	if id == "" {
		if desc {
			if active, ok := state.ActiveSort(); ok {
				return state.WithSort(active.ColumnID, true), nil
			}
		}
		return state, nil
	}
	if _, ok := cols.Lookup(id); ok {
		return state.WithSort(id, desc), nil
	}
	if _, ok := cols.Lookup(columns.MagicID(id)); ok {
		return state.WithSort(columns.MagicID(id), desc), nil
	}
	return state, fmt.Errorf("unknown sort column %q (available: %s)", id, strings.Join(sortable(cols), ", "))
}

func sortable[T any](cols columns.Set[T]) []string {
	ids := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.Kind == columns.KindMagic {
			ids = append(ids, strconv.Quote(c.Key))
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}
