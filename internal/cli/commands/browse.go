package commands

import (
	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/tui"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	var inline bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse accounts and prospects in the terminal",
		Long: `Open an interactive table of accounts.

Search with /, cycle the funding stage filter with f, change the sort with s
and o, and press enter to drill into the prospects of the selected account.
Press m to add a magic column and ? for every key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), cc.Gateway, tui.RunOptions{
				PageSize:  cc.Cfg.PageSize,
				Input:     cmd.InOrStdin(),
				Output:    cmd.OutOrStdout(),
				AltScreen: !inline,
			})
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "Render below the prompt instead of the full screen")
	return cmd
}
