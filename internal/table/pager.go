package table

// PagerItem is one entry of a compact pager: a 1-based page number or an ellipsis.
type PagerItem struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Pager lays out the page numbers shown for current (1-based) of total pages.
// The first and last page are always shown, with one page either side of the
// current one. A gap of a single page shows that page; a gap of two or more
// pages collapses into one ellipsis. Returns nil when there is at most one page.
func Pager(current, total int) []PagerItem {
	if total <= 1 {
		return nil
	}
	current = clamp(current, 1, total)

	pages := []int{1}
	for p := max(2, current-1); p <= min(total-1, current+1); p++ {
		pages = append(pages, p)
	}
	pages = append(pages, total)

	items := make([]PagerItem, 0, len(pages)+2)
	prev := 0
	for _, p := range pages {
		switch gap := p - prev - 1; {
		case gap == 1:
			items = append(items, PagerItem{Page: p - 1})
		case gap >= 2:
			items = append(items, PagerItem{Ellipsis: true})
		}
		items = append(items, PagerItem{Page: p, Current: p == current})
		prev = p
	}
	return items
}
