// Package prospects provides the prospects drill-down of one account.
package prospects

import (
	"github.com/jeebeez/another-signal/internal/pipeline"
	"github.com/jeebeez/another-signal/internal/ui/features/common"
)

const (
	sectionID = "prospects-section"
	refreshID = "prospects-refresh"
	tableID   = "prospects-table"
	pagerID   = "prospects-pager"
)

// MsgInvalidLink is flashed when a prospects link cannot be decoded.
const MsgInvalidLink = "That account link is invalid"

// Signals is the page state kept in datastar signals.
type Signals struct {
	common.TableSignals
}

// DefaultSignals returns the signals of a freshly loaded page.
func DefaultSignals() Signals {
	return Signals{TableSignals: common.DefaultTableSignals()}
}

// Query returns the pipeline input of the signals.
func (s Signals) Query() pipeline.ProspectsQuery {
	return pipeline.ProspectsQuery{Search: s.Search, State: s.State()}
}

// Model is everything the prospects page renders.
type Model struct {
	Token       string
	AccountName string
	Title       string
	View        pipeline.ProspectsView
	Message     string
	Refreshing  bool
}

func viewEndpoint(token string) string    { return "/accounts/" + token + "/view" }
func updatesEndpoint(token string) string { return "/accounts/" + token + "/updates" }
