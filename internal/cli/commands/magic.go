package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/cli/output"
	"github.com/jeebeez/another-signal/internal/columns"
	"github.com/jeebeez/another-signal/internal/magic"
)

// NewMagicCommand creates the magic command.
func NewMagicCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "magic",
		Short: "Manage magic columns",
		Long: `Magic columns are free-text questions the backend answers for every account.
Each distinct question becomes a column of the accounts table.`,
	}
	cmd.AddCommand(newMagicAddCommand(), newMagicListCommand())
	return cmd
}

func newMagicAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <question>",
		Short: "Ask a question for every account",
		Example: `  anothersignal magic add "Is the company hiring?"
  anothersignal magic add What is the funding stage`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMagicAdd(cmd, strings.Join(args, " "))
		},
	}
}

func runMagicAdd(cmd *cobra.Command, question string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	q, err := magic.NewSubmitter(cc.Gateway).Submit(cmd.Context(), question)
	if err != nil {
		var failed *magic.FailedError
		if errors.As(err, &failed) {
			return fmt.Errorf("%s: %s", failed.Error(), failed.Detail())
		}
		return err
	}

	cc.Logger.Info("magic column created", "question", q)
	cc.Renderer.Success(fmt.Sprintf("Magic column added: %s", q))
	return nil
}

func newMagicListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the magic column questions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			accounts, err := cc.Gateway.ListAccounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load accounts: %w", err)
			}

			questions := columns.Questions(accounts)
			t := output.Table{Headers: []string{"Question", "Answered"}, Empty: "No magic columns yet"}
			for _, q := range questions {
				n := 0
				for _, a := range accounts {
					if _, ok := a.MagicColumn(q); ok {
						n++
					}
				}
				t.Rows = append(t.Rows, []string{q, fmt.Sprintf("%d/%d", n, len(accounts))})
			}
			return cc.Renderer.Table(t)
		},
	}
}
