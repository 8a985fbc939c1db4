package components

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jeebeez/another-signal/internal/columns"
	"github.com/jeebeez/another-signal/internal/table"
)

// Table describes a sortable, paginated data table section.
type Table[T any] struct {
	ID       string
	Endpoint string
	Columns  columns.Set[T]
	Rows     []T
	State    table.State
	// Message replaces the rows with a single placeholder row when set.
	Message string
	RowLink func(T) string
	RowID   func(T) string
}

// DataTable renders t.
func DataTable[T any](t Table[T]) templ.Component {
	return Component(func(h *HTML) {
		h.Open("div", "id", t.ID, "class", "table-wrap")
		h.Open("table", "class", "data-table")

		h.Open("thead")
		h.Open("tr")
		for _, col := range t.Columns {
			sortHeader(h, t.Endpoint, col.ID, col.Header, col.Kind == columns.KindMagic, t.State.SortDirection(col.ID))
		}
		h.Close("tr")
		h.Close("thead")

		h.Open("tbody")
		switch {
		case t.Message != "":
			h.Open("tr", "class", "placeholder-row")
			h.Element("td", t.Message, "colspan", strconv.Itoa(max(len(t.Columns), 1)))
			h.Close("tr")
		default:
			for _, row := range t.Rows {
				attrs := []string{}
				if t.RowLink != nil {
					attrs = append(attrs, "class", "row-link", "data-href", t.RowLink(row),
						"data-on:click", "window.location = el.dataset.href")
				}
				if t.RowID != nil {
					attrs = append(attrs, "data-testid", t.RowID(row))
				}
				h.Open("tr", attrs...)
				for _, col := range t.Columns {
					h.Open("td")
					cell(h, col.Render(row))
					h.Close("td")
				}
				h.Close("tr")
			}
		}
		h.Close("tbody")

		h.Close("table")
		h.Close("div")
	})
}

func sortHeader(h *HTML, endpoint, id, header string, magic bool, dir string) {
	h.Open("th",
		"class", "sortable",
		"aria-sort", ariaSort(dir),
		"data-on:click", Action(endpoint, "sort:"+id))
	h.Open("div", "class", "th-inner")
	if magic {
		h.Element("span", "✦", "class", "magic-icon", "aria-hidden", "true")
	}
	Truncated(h, header)
	switch dir {
	case "asc":
		h.Element("span", "↑", "class", "sort-indicator")
	case "desc":
		h.Element("span", "↓", "class", "sort-indicator")
	}
	h.Close("div")
	h.Close("th")
}

func ariaSort(dir string) string {
	switch dir {
	case "asc":
		return "ascending"
	case "desc":
		return "descending"
	default:
		return "none"
	}
}

func cell(h *HTML, c columns.Cell) {
	switch {
	case c.Placeholder:
		h.Element("span", columns.Placeholder, "class", "muted")
	case !c.Present:
	case c.Detail != "":
		h.Open("div", "class", "magic-cell")
		Truncated(h, c.Text)
		h.Element("span", "ⓘ", "class", "info", "title", c.Detail, "aria-label", c.Detail)
		h.Close("div")
	default:
		Truncated(h, c.Text)
	}
}

// Truncated writes a single-line label. The client script adds a title tooltip
// only while the text overflows its box.
func Truncated(h *HTML, text string) {
	h.Element("span", text, "class", "truncate", "data-truncate", "")
}

// Action returns the datastar expression requesting a view transition.
func Action(endpoint, action string) string {
	return "@get(" + JSString(endpoint+"?action="+url.QueryEscape(action)) + ")"
}
