package accounts

import (
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jeebeez/another-signal/internal/identity"
	"github.com/jeebeez/another-signal/internal/magic"
	"github.com/jeebeez/another-signal/internal/ui/features/common"
	"github.com/jeebeez/another-signal/internal/ui/features/common/components"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Body renders the accounts page content.
func Body(m Model) templ.Component {
	return components.Component(func(h *components.HTML) {
		h.Open("div", "class", "page-header")
		h.Element("h1", "Accounts")
		h.Element("button", "+ Add Magic Column",
			"type", "button",
			"class", "button primary",
			"data-testid", "add-magic-column-button",
			"data-on:click", "$sheetOpen = true")
		h.Close("div")

		h.Open("div", "class", "toolbar")
		h.Open("input",
			"type", "search",
			"class", "search",
			"placeholder", "Search...",
			"aria-label", "Search accounts",
			"data-bind", "search",
			"data-on:input__debounce.300ms", components.Action(viewEndpoint, common.ActionSearch))
		h.Render(FilterBar(m))
		h.Close("div")

		h.Render(Section(m))
		h.Render(Sheet())
		h.Render(RefreshTrigger(0))
	})
}

// Section renders the row count, table and pager. It is the target of view patches.
func Section(m Model) templ.Component {
	return components.Component(func(h *components.HTML) {
		v := m.View
		h.Open("section", "id", sectionID)

		h.Open("div", "class", "showing")
		h.Text(v.Showing())
		if m.Refreshing {
			h.Element("span", "Refreshing…", "class", "refreshing", "data-testid", "refreshing")
		}
		h.Close("div")

		h.Render(components.DataTable(components.Table[core.Account]{
			ID:       tableID,
			Endpoint: viewEndpoint,
			Columns:  v.Columns,
			Rows:     v.Page.Rows,
			State:    v.State,
			Message:  m.Message,
			RowLink:  func(a core.Account) string { return "/accounts/" + identity.Encode(a.Name) },
			RowID:    func(a core.Account) string { return "account-row-" + a.Name },
		}))

		h.Open("div", "class", "table-footer")
		h.Render(components.PageSizeSelect(viewEndpoint, v.State.Pagination.PageSize))
		if v.Page.Total > 0 {
			h.Render(components.Pager(pagerID, viewEndpoint, v.Pager, v.Page.CurrentPage(), v.Page.PageCount))
		} else {
			h.Render(components.Pager(pagerID, viewEndpoint, nil, 1, 1))
		}
		h.Close("div")

		h.Close("section")
	})
}

// FilterBar renders the filter popover and its active count. Without facets it
// renders an empty target.
func FilterBar(m Model) templ.Component {
	return components.Component(func(h *components.HTML) {
		h.Open("div", "id", filterID, "class", "filter")
		if len(m.View.Facets) == 0 {
			h.Close("div")
			return
		}

		active := m.Signals.Query().ActiveFilterCount()

		h.Open("button", "type", "button", "class", "button", "data-on:click", "$filterOpen = !$filterOpen")
		h.Text("Filter")
		if active > 0 {
			h.Element("span", strconv.Itoa(active), "class", "badge", "data-testid", "filter-count")
		}
		h.Close("button")

		h.Open("div", "class", "filter-popover", "data-show", "$filterOpen", "style", "display: none")
		h.Element("h4", "Filter Accounts")
		for _, f := range m.View.Facets {
			h.Open("fieldset", "class", "facet")
			h.Element("legend", f.Label)
			h.Open("div", "class", "facet-options")
			for _, opt := range f.Options {
				h.Open("label")
				attrs := []string{"type", "checkbox", "value", opt, "data-bind", "draft." + f.ID}
				if slices.Contains(m.Signals.Draft[f.ID], opt) {
					attrs = append(attrs, "checked", "")
				}
				h.Open("input", attrs...)
				h.Text(" " + opt)
				h.Close("label")
			}
			h.Close("div")
			h.Close("fieldset")
		}
		h.Open("div", "class", "filter-actions")
		h.Element("button", "Reset", "type", "button", "class", "button",
			"data-on:click", components.Action(viewEndpoint, common.ActionReset))
		h.Element("button", "Apply", "type", "button", "class", "button primary",
			"data-on:click", components.Action(viewEndpoint, common.ActionFilter))
		h.Close("div")
		h.Close("div")

		if active > 0 {
			h.Element("button", "Clear", "type", "button", "class", "button ghost",
				"data-on:click", components.Action(viewEndpoint, common.ActionReset))
		}
		h.Close("div")
	})
}

// Sheet renders the magic column side sheet.
func Sheet() templ.Component {
	return components.Component(func(h *components.HTML) {
		limit := strconv.Itoa(magic.MaxLength)
		nearAt := strconv.Itoa(magic.MaxLength - magic.NearLimit)

		h.Open("div", "id", "magic-sheet", "data-show", "$sheetOpen", "style", "display: none")
		h.Open("div", "class", "sheet-backdrop", "data-on:click", "$sheetOpen = false")
		h.Close("div")
		h.Open("aside", "class", "sheet", "role", "dialog", "aria-modal", "true", "aria-labelledby", "magic-sheet-title")
		h.Element("h2", "Add Magic Column", "id", "magic-sheet-title")
		h.Element("p", "Create a new magic column based on your question and target field.", "class", "muted")

		h.Open("form", "data-on:submit__prevent", "@post('"+magicEndpoint+"')", "data-indicator:submitting", "")
		h.Open("div", "class", "page-header")
		h.Open("label", "for", "magic-column-question")
		h.Text("Question ")
		h.Element("span", "*", "class", "required")
		h.Close("label")
		h.Element("span", limit+" characters remaining",
			"class", "counter",
			"data-class:near", "$question.length >= "+nearAt,
			"data-text", "("+limit+" - $question.length) + ' characters remaining'")
		h.Close("div")
		h.Open("textarea",
			"id", "magic-column-question",
			"name", "question",
			"maxlength", limit,
			"placeholder", "Has this company raised funding in the last 6 months?",
			"data-bind", "question")
		h.Close("textarea")
		h.Element("button", "Add",
			"type", "submit",
			"class", "button primary",
			"data-attr:disabled", "$submitting",
			"data-text", "$submitting ? 'Processing...' : 'Add'")
		h.Close("form")

		h.Close("aside")
		h.Close("div")
	})
}

// RefreshTrigger renders the element that makes the page re-request its view when
// patched in. seq changes the expression so every patch runs it again.
func RefreshTrigger(seq int) templ.Component {
	return components.Component(func(h *components.HTML) {
		if seq == 0 {
			h.Open("div", "id", refreshID, "hidden", "")
		} else {
			url := viewEndpoint + "?action=" + common.ActionRefresh + "&seq=" + strconv.Itoa(seq)
			h.Open("div", "id", refreshID, "hidden", "", "data-init", "@get("+components.JSString(url)+")")
		}
		h.Close("div")
	})
}
