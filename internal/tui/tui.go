package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// RunOptions configures Run.
type RunOptions struct {
	PageSize int
	// Input and Output override the terminal.
	Input  io.Reader
	Output io.Writer
	// AltScreen runs the browser full screen.
	AltScreen bool
}

// Run starts the browser and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, src Source, opts RunOptions) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(New(ctx, src, WithPageSize(opts.PageSize)), progOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
