package prospects

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/jeebeez/another-signal/internal/ui/features/common"
	"github.com/jeebeez/another-signal/internal/ui/features/common/components"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Body renders the prospects page content.
func Body(m Model) templ.Component {
	return components.Component(func(h *components.HTML) {
		h.Open("div", "class", "page-header")
		h.Open("div")
		h.Element("a", "← Accounts", "href", "/", "class", "back-link")
		h.Element("h1", m.Title)
		h.Close("div")
		h.Close("div")

		h.Open("div", "class", "toolbar")
		h.Open("input",
			"type", "search",
			"class", "search",
			"placeholder", "Search prospects...",
			"aria-label", "Search prospects",
			"data-bind", "search",
			"data-on:input__debounce.300ms", components.Action(viewEndpoint(m.Token), common.ActionSearch))
		h.Close("div")

		h.Render(Section(m))
		h.Render(RefreshTrigger(m.Token, 0))
	})
}

// Section renders the row count, table and pager.
func Section(m Model) templ.Component {
	return components.Component(func(h *components.HTML) {
		v := m.View
		endpoint := viewEndpoint(m.Token)
		h.Open("section", "id", sectionID)

		h.Open("div", "class", "showing")
		h.Text(v.Showing())
		if m.Refreshing {
			h.Element("span", "Refreshing…", "class", "refreshing", "data-testid", "refreshing")
		}
		h.Close("div")

		h.Render(components.DataTable(components.Table[core.Prospect]{
			ID:       tableID,
			Endpoint: endpoint,
			Columns:  v.Columns,
			Rows:     v.Page.Rows,
			State:    v.State,
			Message:  m.Message,
			RowID:    func(p core.Prospect) string { return "prospect-row-" + p.Name },
		}))

		h.Open("div", "class", "table-footer")
		h.Render(components.PageSizeSelect(endpoint, v.State.Pagination.PageSize))
		h.Render(components.Pager(pagerID, endpoint, v.Pager, v.Page.CurrentPage(), v.Page.PageCount))
		h.Close("div")

		h.Close("section")
	})
}

// RefreshTrigger renders the element that re-requests the view when patched in.
func RefreshTrigger(token string, seq int) templ.Component {
	return components.Component(func(h *components.HTML) {
		if seq == 0 {
			h.Open("div", "id", refreshID, "hidden", "")
		} else {
			url := viewEndpoint(token) + "?action=" + common.ActionRefresh + "&seq=" + strconv.Itoa(seq)
			h.Open("div", "id", refreshID, "hidden", "", "data-init", "@get("+components.JSString(url)+")")
		}
		h.Close("div")
	})
}
