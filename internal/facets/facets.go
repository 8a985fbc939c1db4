// Package facets derives the filter facets offered for an account collection.
package facets

import "github.com/jeebeez/another-signal/pkg/core"

// Extractor pulls one facet value out of an account.
type Extractor struct {
	ID    string
	Label string
	Value func(core.Account) string
}

// FundingStage is the funding stage facet.
var FundingStage = Extractor{
	ID:    "fundingStage",
	Label: "Funding Stage",
	Value: func(a core.Account) string { return a.FundingStage },
}

// Default lists the facets computed when no extractors are given.
var Default = []Extractor{FundingStage}

// Lookup returns the default extractor registered under id.
func Lookup(id string) (Extractor, bool) {
	for _, e := range Default {
		if e.ID == id {
			return e, true
		}
	}
	return Extractor{}, false
}

// Compute scans accounts and returns one filter per extractor that has at least
// one non-empty value. Options are distinct, in first-seen order.
func Compute(accounts []core.Account, extractors ...Extractor) []core.Filter {
	if len(extractors) == 0 {
		extractors = Default
	}

	filters := make([]core.Filter, 0, len(extractors))
	for _, e := range extractors {
		seen := make(map[string]struct{})
		var options []string
		for _, a := range accounts {
			v := e.Value(a)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			options = append(options, v)
		}
		if len(options) == 0 {
			continue
		}
		filters = append(filters, core.Filter{ID: e.ID, Label: e.Label, Options: options})
	}
	return filters
}
