package output

import (
	"encoding/csv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table is tabular command output.
type Table struct {
	Headers []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows.
	Empty string
	// Footer is printed under the table, e.g. a row count.
	Footer string
}

// Table renders t in the effective mode. JSON renders an array of objects keyed
// by header; CSV renders a header row and the rows with no footer.
func (r *Renderer) Table(t Table) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(t.objects())
	case ModeCSV:
		return r.csv(t)
	}

	if len(t.Rows) == 0 {
		if t.Empty != "" {
			r.Muted(t.Empty)
		}
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.w)
	tw.AppendHeader(toRow(t.Headers))
	for _, row := range t.Rows {
		tw.AppendRow(toRow(row))
	}

	if r.EffectiveMode() == ModeMarkdown {
		tw.RenderMarkdown()
		if t.Footer != "" {
			r.Println()
			r.Println(t.Footer)
		}
		return nil
	}

	tw.SetStyle(table.StyleLight)
	tw.Render()
	if t.Footer != "" {
		r.Muted(t.Footer)
	}
	return nil
}

// csv writes RFC 4180 records.
func (r *Renderer) csv(t Table) error {
	cw := csv.NewWriter(r.w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func (t Table) objects() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				obj[jsonKey(h)] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}

// jsonKey lower-cases a header and joins its words with underscores.
func jsonKey(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(header)), "_")
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
