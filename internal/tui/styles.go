package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title  lipgloss.Style
	muted  lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	badge  lipgloss.Style
	detail lipgloss.Style
	prompt lipgloss.Style
	table  table.Styles
}

func newStyles() styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		badge:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("13")).Padding(0, 1),
		detail: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(2),
		prompt: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("13")).
			Padding(0, 1),
		table: ts,
	}
}
