package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/jeebeez/another-signal/internal/table"
)

// Pager renders the page navigation of a table section. It renders an empty
// container when there is a single page so later patches have a target.
func Pager(id, endpoint string, items []table.PagerItem, current, total int) templ.Component {
	return Component(func(h *HTML) {
		h.Open("nav", "id", id, "class", "pager", "aria-label", "Pagination")
		if total > 1 {
			pagerButton(h, "‹", "Previous page", endpoint, "page:"+strconv.Itoa(current-1), current <= 1, false)
			for _, it := range items {
				if it.Ellipsis {
					h.Element("span", "…", "class", "pager-ellipsis")
					continue
				}
				n := strconv.Itoa(it.Page)
				pagerButton(h, n, "Page "+n, endpoint, "page:"+n, false, it.Current)
			}
			pagerButton(h, "›", "Next page", endpoint, "page:"+strconv.Itoa(current+1), current >= total, false)
		}
		h.Close("nav")
	})
}

func pagerButton(h *HTML, label, aria, endpoint, action string, disabled, current bool) {
	class := "pager-button"
	if current {
		class = Classes(class, "current")
	}
	attrs := []string{
		"type", "button",
		"class", class,
		"aria-label", aria,
		"data-on:click", Action(endpoint, action),
	}
	if current {
		attrs = append(attrs, "aria-current", "page")
	}
	if disabled {
		attrs = append(attrs, "disabled", "")
	}
	h.Element("button", label, attrs...)
}

// PageSizeSelect renders the page size selector.
func PageSizeSelect(endpoint string, size int) templ.Component {
	return Component(func(h *HTML) {
		h.Open("label", "class", "page-size")
		h.Text("Rows per page ")
		h.Open("select",
			"id", "page-size",
			"data-on:change", "@get("+JSString(endpoint+"?action=pagesize&size=")+" + evt.target.value)")
		for _, n := range table.PageSizes {
			v := strconv.Itoa(n)
			if n == size {
				h.Element("option", v, "value", v, "selected", "")
			} else {
				h.Element("option", v, "value", v)
			}
		}
		h.Close("select")
		h.Close("label")
	})
}
