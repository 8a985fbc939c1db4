package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/cli/output"
	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/identity"
	"github.com/jeebeez/another-signal/internal/pipeline"
	"github.com/jeebeez/another-signal/pkg/core"
)

// ProspectPage is the JSON form of one page of prospects.
type ProspectPage struct {
	Account   string          `json:"account"`
	Prospects []core.Prospect `json:"prospects"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	PageCount int             `json:"pageCount"`
}

// NewProspectsCommand creates the prospects command.
func NewProspectsCommand() *cobra.Command {
	opts := &PageOptions{}
	cmd := &cobra.Command{
		Use:   "prospects <account-or-token>",
		Short: "List the prospects of an account",
		Long: `List the prospects of one account.

The account is given by name or by the token used in prospects page links
(/accounts/<token>). A name that matches an account wins over a token.`,
		Example: `  anothersignal prospects "Acme Corporation"
  anothersignal prospects QWNtZSBDb3Jwb3JhdGlvbg --search berlin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProspects(cmd, args[0], opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func runProspects(cmd *cobra.Command, arg string, opts *PageOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	state, err := opts.state(cc.Cfg.PageSize)
	if err != nil {
		return err
	}

	name, err := resolveAccount(cmd.Context(), cc.Gateway, arg)
	if err != nil {
		return err
	}

	prospects, err := cc.Gateway.ListProspects(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to load prospects of %q: %w", name, err)
	}

	q := pipeline.ProspectsQuery{Search: opts.Search, State: state}
	view := pipeline.Prospects(prospects, q)
	q.State, err = sortFlag(view.Columns, q.State, opts.Sort, opts.Desc)
	if err != nil {
		return err
	}
	view = pipeline.Prospects(prospects, q)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ProspectPage{
			Account:   name,
			Prospects: nonNil(view.Page.Rows),
			Total:     view.Page.Total,
			Page:      view.Page.CurrentPage(),
			PageCount: view.Page.PageCount,
		})
	}

	if r.EffectiveMode() != output.ModeCSV {
		r.Header(1, pipeline.ProspectsTitle(name))
	}
	t := buildTable(r, view.Columns, view.Page.Rows)
	t.Empty = view.EmptyMessage()
	t.Footer = footer(view.Showing(), view.Pager)
	return r.Table(t)
}

// resolveAccount maps a command argument onto an account name: an exact name
// first, then a decoded token.
func resolveAccount(ctx context.Context, gw *gateway.Gateway, arg string) (string, error) {
	accounts, err := gw.ListAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, a := range accounts {
		if a.Name == arg {
			return arg, nil
		}
	}
	name, err := identity.Decode(arg)
	if err != nil {
		return "", fmt.Errorf("no account named %q and not a valid account token", arg)
	}
	return name, nil
}
