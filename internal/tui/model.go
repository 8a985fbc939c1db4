// Package tui is a terminal browser over accounts and their prospects.
//
// It runs the same facet, query, column and table pipeline as the web UI and
// renders each page into a bubbles table.
package tui

import (
	"context"
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeebeez/another-signal/internal/columns"
	"github.com/jeebeez/another-signal/internal/facets"
	"github.com/jeebeez/another-signal/internal/magic"
	"github.com/jeebeez/another-signal/internal/pipeline"
	datatable "github.com/jeebeez/another-signal/internal/table"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Source is the data the browser reads and the magic column endpoint it writes to.
type Source interface {
	magic.Requester
	ListAccounts(ctx context.Context) ([]core.Account, error)
	// ReloadAccounts bypasses any cached account list.
	ReloadAccounts(ctx context.Context) ([]core.Account, error)
	ListProspects(ctx context.Context, accountName string) ([]core.Prospect, error)
}

type screen int

const (
	screenAccounts screen = iota
	screenProspects
)

type focus int

const (
	focusTable focus = iota
	focusSearch
	focusPrompt
)

type accountsMsg struct {
	accounts []core.Account
	err      error
}

type prospectsMsg struct {
	account   string
	prospects []core.Prospect
	err       error
}

type magicMsg struct {
	question string
	err      error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx       context.Context
	src       Source
	submitter *magic.Submitter
	keys      keyMap
	styles    styles
	help      help.Model
	table     table.Model
	search    textinput.Model
	prompt    textinput.Model

	screen     screen
	focus      focus
	pageSize   int
	width      int
	height     int
	loading    bool
	submitting bool
	err        error
	status     string
	promptErr  string

	accounts      []core.Account
	accountsQuery pipeline.AccountsQuery
	accountsView  pipeline.AccountsView
	stage         string

	account        string
	prospects      []core.Prospect
	prospectsQuery pipeline.ProspectsQuery
	prospectsView  pipeline.ProspectsView

	// grid holds the full cells of the rendered page, one row per table row.
	grid    [][]columns.Cell
	headers []string
}

// Option configures a Model.
type Option func(*Model)

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// New creates the browser model over src.
func New(ctx context.Context, src Source, opts ...Option) Model {
	m := Model{
		ctx:       ctx,
		src:       src,
		submitter: magic.NewSubmitter(src),
		keys:      newKeyMap(),
		styles:    newStyles(),
		help:      help.New(),
		pageSize:  datatable.DefaultPageSize,
		loading:   true,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.search = textinput.New()
	m.search.Prompt = "Search: "
	m.search.Placeholder = "press / to search"

	m.prompt = textinput.New()
	m.prompt.Prompt = "> "
	m.prompt.Placeholder = "Ask a question about every account"
	m.prompt.CharLimit = magic.MaxLength

	m.table = table.New(
		table.WithFocused(true),
		table.WithHeight(m.pageSize),
		table.WithStyles(m.styles.table),
	)
	m.table.KeyMap = table.KeyMap{
		LineUp:     key.NewBinding(key.WithKeys("up", "k")),
		LineDown:   key.NewBinding(key.WithKeys("down", "j")),
		GotoTop:    key.NewBinding(key.WithKeys("home", "g")),
		GotoBottom: key.NewBinding(key.WithKeys("end", "G")),
	}

	m.accountsQuery = pipeline.AccountsQuery{State: datatable.DefaultState().SetPageSize(m.pageSize)}
	return m.refresh()
}

// Init loads the account list.
func (m Model) Init() tea.Cmd {
	return m.loadAccounts(false)
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case accountsMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.accounts = msg.accounts
		}
		return m.refresh(), nil

	case prospectsMsg:
		if m.screen != screenProspects || msg.account != m.account {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.prospects = msg.prospects
		}
		return m.refresh(), nil

	case magicMsg:
		m.submitting = false
		if msg.err != nil {
			m.promptErr = magicMessage(msg.err)
			return m, nil
		}
		m.prompt.Reset()
		m.prompt.Blur()
		m.focus = focusTable
		m.status = "Magic column added: " + msg.question
		m.loading = true
		return m, m.loadAccounts(true)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.focus {
	case focusSearch:
		return m.updateSearch(msg)
	case focusPrompt:
		return m.updatePrompt(msg)
	}

	keys := m.keys.forScreen(m.screen)
	m.status = ""

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, keys.stage):
		m.cycleStage()
	case key.Matches(msg, keys.sort):
		m.cycleSort()
	case key.Matches(msg, keys.order):
		m.toggleOrder()
	case key.Matches(msg, keys.nextPage):
		m.setState(m.state().Next(m.pageCount()))
	case key.Matches(msg, keys.prevPage):
		m.setState(m.state().Prev(m.pageCount()))
	case key.Matches(msg, keys.pageSize):
		m.cyclePageSize()
	case key.Matches(msg, keys.open):
		name, ok := m.selectedAccount()
		if !ok {
			return m, nil
		}
		return m.openProspects(name)
	case key.Matches(msg, keys.back):
		return m.closeProspects(), nil
	case key.Matches(msg, keys.magic):
		m.focus = focusPrompt
		m.promptErr = ""
		return m, m.prompt.Focus()
	case key.Matches(msg, keys.reload):
		m.loading = true
		if m.screen == screenProspects {
			return m, m.loadProspects(m.account)
		}
		return m, m.loadAccounts(true)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m.refresh(), nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.focus = focusTable
		return m, nil
	case tea.KeyEsc:
		m.search.Reset()
		m.search.Blur()
		m.focus = focusTable
		m.setSearch("")
		return m.refresh(), nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.setSearch(m.search.Value())
	return m.refresh(), cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt.Reset()
		m.prompt.Blur()
		m.focus = focusTable
		m.promptErr = ""
		return m, nil
	case tea.KeyEnter:
		if m.submitting {
			return m, nil
		}
		q, err := magic.Validate(m.prompt.Value())
		if err != nil {
			m.promptErr = err.Error()
			return m, nil
		}
		m.submitting = true
		m.promptErr = ""
		return m, m.submitMagic(q)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.promptErr = ""
	return m, cmd
}

func (m Model) openProspects(name string) (tea.Model, tea.Cmd) {
	m.screen = screenProspects
	m.account = name
	m.prospects = nil
	m.err = nil
	m.loading = true
	m.prospectsQuery = pipeline.ProspectsQuery{State: datatable.DefaultState().SetPageSize(m.accountsQuery.State.Pagination.PageSize)}
	m.search.SetValue("")
	m.table.SetCursor(0)
	return m.refresh(), m.loadProspects(name)
}

func (m Model) closeProspects() Model {
	m.screen = screenAccounts
	m.account = ""
	m.prospects = nil
	m.err = nil
	m.loading = false
	m.search.SetValue(m.accountsQuery.Search)
	m.table.SetCursor(0)
	return m.refresh()
}

func (m Model) loadAccounts(reload bool) tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		load := src.ListAccounts
		if reload {
			load = src.ReloadAccounts
		}
		accounts, err := load(ctx)
		return accountsMsg{accounts: accounts, err: err}
	}
}

func (m Model) loadProspects(name string) tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		prospects, err := src.ListProspects(ctx, name)
		return prospectsMsg{account: name, prospects: prospects, err: err}
	}
}

func (m Model) submitMagic(question string) tea.Cmd {
	ctx, submitter := m.ctx, m.submitter
	return func() tea.Msg {
		q, err := submitter.Submit(ctx, question)
		return magicMsg{question: q, err: err}
	}
}

func magicMessage(err error) string {
	var failed *magic.FailedError
	if errors.As(err, &failed) {
		return magic.MsgFailed
	}
	return err.Error()
}

func (m Model) state() datatable.State {
	if m.screen == screenProspects {
		return m.prospectsQuery.State
	}
	return m.accountsQuery.State
}

func (m *Model) setState(st datatable.State) {
	if m.screen == screenProspects {
		m.prospectsQuery.State = st
		return
	}
	m.accountsQuery.State = st
}

func (m *Model) setSearch(term string) {
	if m.screen == screenProspects {
		m.prospectsQuery.Search = term
		m.prospectsQuery.State = m.prospectsQuery.State.ResetPage()
		return
	}
	m.accountsQuery.Search = term
	m.accountsQuery.State = m.accountsQuery.State.ResetPage()
}

func (m Model) pageCount() int {
	if m.screen == screenProspects {
		return m.prospectsView.Page.PageCount
	}
	return m.accountsView.Page.PageCount
}

func (m Model) columnIDs() []string {
	if m.screen == screenProspects {
		return m.prospectsView.Columns.IDs()
	}
	return m.accountsView.Columns.IDs()
}

// cycleStage steps the funding stage filter through every option and back to none.
func (m *Model) cycleStage() {
	var options []string
	for _, f := range m.accountsView.Facets {
		if f.ID == facets.FundingStage.ID {
			options = f.Options
		}
	}
	next := ""
	switch i := slices.Index(options, m.stage); {
	case m.stage == "" && len(options) > 0:
		next = options[0]
	case i >= 0 && i+1 < len(options):
		next = options[i+1]
	}

	m.stage = next
	m.accountsQuery.Filters = nil
	if next != "" {
		m.accountsQuery.Filters = []core.Filter{{
			ID:      facets.FundingStage.ID,
			Label:   facets.FundingStage.Label,
			Options: []string{next},
		}}
	}
	m.accountsQuery.State = m.accountsQuery.State.ResetPage()
}

// cycleSort moves the sort to the next column, ascending.
func (m *Model) cycleSort() {
	ids := m.columnIDs()
	if len(ids) == 0 {
		return
	}
	st := m.state()
	next := 0
	if active, ok := st.ActiveSort(); ok {
		next = (slices.Index(ids, active.ColumnID) + 1) % len(ids)
	}
	m.setState(st.WithSort(ids[next], false).ResetPage())
}

// toggleOrder flips the active sort from ascending to descending to unsorted.
func (m *Model) toggleOrder() {
	st := m.state()
	active, ok := st.ActiveSort()
	if !ok {
		m.setState(st.WithSort(datatable.DefaultSortColumn, false).ResetPage())
		return
	}
	m.setState(st.ToggleSort(active.ColumnID))
}

func (m *Model) cyclePageSize() {
	st := m.state()
	i := (slices.Index(datatable.PageSizes, st.Pagination.PageSize) + 1) % len(datatable.PageSizes)
	m.setState(st.SetPageSize(datatable.PageSizes[i]))
	m.table.SetHeight(m.tableHeight())
}

func (m Model) selectedAccount() (string, bool) {
	rows := m.accountsView.Page.Rows
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return "", false
	}
	return rows[i].Name, true
}
