// Package label fits cell text into a fixed number of terminal cells.
package label

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to text cut short by Fit.
const Ellipsis = "…"

// Label is a single-line display string with an optional tooltip carrying the full text.
type Label struct {
	Text      string
	Tooltip   string
	Truncated bool
}

// Fit returns text shortened to at most width terminal cells.
// The tooltip is set only when the text did not fit. A non-positive width disables fitting.
func Fit(text string, width int) Label {
	text = flatten(text)
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return Label{Text: text}
	}
	return Label{
		Text:      runewidth.Truncate(text, width, Ellipsis),
		Tooltip:   text,
		Truncated: true,
	}
}

// Width reports the display width of text in terminal cells.
func Width(text string) int {
	return runewidth.StringWidth(flatten(text))
}

// flatten collapses line breaks so a label always renders on one line.
func flatten(text string) string {
	if !strings.ContainsAny(text, "\r\n\t") {
		return text
	}
	return strings.Join(strings.Fields(text), " ")
}
