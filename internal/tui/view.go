package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeebeez/another-signal/internal/columns"
	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/label"
	"github.com/jeebeez/another-signal/internal/magic"
	"github.com/jeebeez/another-signal/internal/pipeline"
	datatable "github.com/jeebeez/another-signal/internal/table"
)

const (
	maxCellWidth = 28
	minCellWidth = 3
	// chrome is the number of lines around the table.
	chrome = 12
)

// refresh reruns the pipeline of the current screen and refills the table.
func (m Model) refresh() Model {
	if m.screen == screenProspects {
		m.prospectsView = pipeline.Prospects(m.prospects, m.prospectsQuery)
		m.prospectsQuery.State = m.prospectsView.State
		m.headers, m.grid = fill(&m.table, m.prospectsView.Columns, m.prospectsView.Page.Rows, m.prospectsView.State)
		return m
	}
	m.accountsView = pipeline.Accounts(m.accounts, m.accountsQuery)
	m.accountsQuery.State = m.accountsView.State
	m.headers, m.grid = fill(&m.table, m.accountsView.Columns, m.accountsView.Page.Rows, m.accountsView.State)
	return m
}

// fill replaces the table's columns and rows and returns the headers and full
// cells of the page.
func fill[T any](t *table.Model, cols columns.Set[T], rows []T, state datatable.State) ([]string, [][]columns.Cell) {
	headers := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		headers[i] = header(c.Header, c.Kind, state.SortDirection(c.ID))
		widths[i] = label.Width(headers[i])
	}

	grid := make([][]columns.Cell, len(rows))
	for r, row := range rows {
		grid[r] = make([]columns.Cell, len(cols))
		for i, c := range cols {
			cell := c.Render(row)
			grid[r][i] = cell
			widths[i] = max(widths[i], label.Width(cell.Text))
		}
	}

	tcols := make([]table.Column, len(cols))
	for i := range cols {
		widths[i] = min(max(widths[i], minCellWidth), maxCellWidth)
		tcols[i] = table.Column{Title: label.Fit(headers[i], widths[i]).Text, Width: widths[i]}
	}
	trows := make([]table.Row, len(grid))
	for r, cells := range grid {
		trows[r] = make(table.Row, len(cells))
		for i, cell := range cells {
			trows[r][i] = label.Fit(cell.Text, widths[i]).Text
		}
	}

	// Rows must go first: the table renders existing rows against the new columns.
	t.SetRows(nil)
	t.SetColumns(tcols)
	t.SetRows(trows)
	return headers, grid
}

func header(text string, kind columns.Kind, dir string) string {
	if kind == columns.KindMagic {
		text = "✦ " + text
	}
	switch dir {
	case "asc":
		return text + " ▲"
	case "desc":
		return text + " ▼"
	}
	return text
}

func (m Model) tableHeight() int {
	h := m.state().Pagination.PageSize
	if m.height > 0 {
		h = min(h, max(m.height-chrome, 3))
	}
	return h
}

// View renders the browser.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.controlsLine())
	b.WriteString("\n\n")

	if msg := m.placeholder(); msg != "" {
		b.WriteString(m.styles.muted.Render(msg))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.footerLine())
		b.WriteString("\n")
		if d := m.detail(); d != "" {
			b.WriteString(m.styles.detail.Render(d))
			b.WriteString("\n")
		}
	}

	if m.err != nil && m.hasData() {
		b.WriteString(m.styles.err.Render(gateway.Message(m.err)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}
	if m.focus == focusPrompt {
		b.WriteString(m.promptView())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.forScreen(m.screen)))
	return b.String()
}

func (m Model) titleLine() string {
	if m.screen == screenProspects {
		return m.styles.title.Render(pipeline.ProspectsTitle(m.account))
	}
	title := m.styles.title.Render("Accounts")
	if n := m.accountsQuery.ActiveFilterCount(); n > 0 {
		title += " " + m.styles.badge.Render(strconv.Itoa(n)+" filter")
	}
	if m.loading && m.hasData() {
		title += " " + m.styles.muted.Render("Refreshing…")
	}
	return title
}

func (m Model) controlsLine() string {
	parts := []string{m.search.View()}
	if m.screen == screenAccounts {
		stage := m.stage
		if stage == "" {
			stage = "All"
		}
		parts = append(parts, "Funding Stage: "+stage)
	}
	st := m.state()
	sortText := "none"
	if active, ok := st.ActiveSort(); ok {
		sortText = m.columnHeader(active.ColumnID) + " " + st.SortDirection(active.ColumnID)
	}
	parts = append(parts, "Sort: "+sortText, fmt.Sprintf("Per page: %d", st.Pagination.PageSize))
	return strings.Join(parts, m.styles.muted.Render("  │  "))
}

func (m Model) columnHeader(id string) string {
	if m.screen == screenProspects {
		if c, ok := m.prospectsView.Columns.Lookup(id); ok {
			return c.Header
		}
		return id
	}
	if c, ok := m.accountsView.Columns.Lookup(id); ok {
		return c.Header
	}
	return id
}

func (m Model) hasData() bool {
	if m.screen == screenProspects {
		return m.prospects != nil
	}
	return m.accounts != nil
}

// placeholder is the message shown instead of the table, if any.
func (m Model) placeholder() string {
	if !m.hasData() {
		switch {
		case m.err != nil:
			return gateway.Message(m.err)
		case m.screen == screenProspects:
			return pipeline.MsgLoadingProspects
		default:
			return pipeline.MsgLoadingAccounts
		}
	}
	if m.screen == screenProspects {
		if m.prospectsView.Page.Empty() {
			return m.prospectsView.EmptyMessage()
		}
		return ""
	}
	if m.accountsView.Page.Empty() {
		return m.accountsView.EmptyMessage()
	}
	return ""
}

func (m Model) footerLine() string {
	showing, pager := m.accountsView.Showing(), m.accountsView.Pager
	if m.screen == screenProspects {
		showing, pager = m.prospectsView.Showing(), m.prospectsView.Pager
	}
	line := showing
	if len(pager) > 0 {
		var pages []string
		for _, it := range pager {
			switch {
			case it.Ellipsis:
				pages = append(pages, "…")
			case it.Current:
				pages = append(pages, lipgloss.NewStyle().Bold(true).Render("["+strconv.Itoa(it.Page)+"]"))
			default:
				pages = append(pages, strconv.Itoa(it.Page))
			}
		}
		line += "  ·  " + strings.Join(pages, " ")
	}
	return m.styles.muted.Render(line)
}

// detail shows the full text of truncated cells in the selected row and the
// reasoning of its magic answers.
func (m Model) detail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.grid) {
		return ""
	}
	cols := m.table.Columns()
	var lines []string
	for c, cell := range m.grid[i] {
		if !cell.Present || c >= len(cols) {
			continue
		}
		fitted := label.Fit(cell.Text, cols[c].Width)
		switch {
		case cell.Detail != "":
			lines = append(lines, fmt.Sprintf("%s: %s (%s)", m.headers[c], cell.Text, cell.Detail))
		case fitted.Truncated:
			lines = append(lines, fmt.Sprintf("%s: %s", m.headers[c], fitted.Tooltip))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) promptView() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Add Magic Column"))
	b.WriteString("\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n")

	counter := magic.Remaining(m.prompt.Value())
	count := fmt.Sprintf("%d/%d", counter.Length, magic.MaxLength)
	if counter.Near {
		b.WriteString(m.styles.warn.Render(count))
	} else {
		b.WriteString(m.styles.muted.Render(count))
	}

	switch {
	case m.submitting:
		b.WriteString("  " + m.styles.muted.Render("Submitting…"))
	case m.promptErr != "":
		b.WriteString("  " + m.styles.err.Render(m.promptErr))
	default:
		b.WriteString("  " + m.styles.muted.Render("enter to submit, esc to cancel"))
	}
	return m.styles.prompt.Render(b.String())
}
