package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit       key.Binding
	search     key.Binding
	stage      key.Binding
	sort       key.Binding
	order      key.Binding
	nextPage   key.Binding
	prevPage   key.Binding
	pageSize   key.Binding
	open       key.Binding
	back       key.Binding
	magic      key.Binding
	reload     key.Binding
	toggleHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		stage: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "funding stage"),
		),
		sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort order"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "next page"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		pageSize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "page size"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "prospects"),
		),
		back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		magic: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "magic column"),
		),
		reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// forScreen enables the bindings that apply to screen.
func (k keyMap) forScreen(s screen) keyMap {
	accounts := s == screenAccounts
	k.stage.SetEnabled(accounts)
	k.open.SetEnabled(accounts)
	k.magic.SetEnabled(accounts)
	k.back.SetEnabled(!accounts)
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.stage, k.sort, k.nextPage, k.open, k.back, k.magic, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.search, k.stage, k.sort, k.order},
		{k.nextPage, k.prevPage, k.pageSize},
		{k.open, k.back, k.magic, k.reload},
		{k.toggleHelp, k.quit},
	}
}
