package core

// Filter is a named facet offered to the user as a multi-select.
//
// ID is the lookup key into row data; Label is display text only, so relabeling
// a facet never changes which attribute it filters on. Options holds the distinct
// values present in the current dataset, or the selected values when the filter
// is used as an active selection.
type Filter struct {
	ID      string   `json:"id"`
	Label   string   `json:"filter"`
	Options []string `json:"options"`
}

// Active reports whether the filter narrows anything.
func (f Filter) Active() bool {
	return len(f.Options) > 0
}

// Contains reports whether value is one of the filter's options.
func (f Filter) Contains(value string) bool {
	for _, o := range f.Options {
		if o == value {
			return true
		}
	}
	return false
}
