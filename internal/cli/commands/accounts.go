package commands

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/cli/output"
	"github.com/jeebeez/another-signal/internal/columns"
	"github.com/jeebeez/another-signal/internal/facets"
	"github.com/jeebeez/another-signal/internal/identity"
	"github.com/jeebeez/another-signal/internal/pipeline"
	"github.com/jeebeez/another-signal/internal/table"
	"github.com/jeebeez/another-signal/pkg/core"
)

// PageOptions are the paging and sorting flags shared by the list commands.
type PageOptions struct {
	Search   string
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

func (o *PageOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Search, "search", "s", "", "Case-insensitive search across all fields")
	cmd.Flags().StringVar(&o.Sort, "sort", "", "Column to sort by (default: name)")
	cmd.Flags().BoolVar(&o.Desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&o.Page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&o.PageSize, "page-size", 0, "Rows per page (10, 20 or 50; default from config)")
}

// state builds the table state from the flags; defaultSize applies when no page size was given.
func (o *PageOptions) state(defaultSize int) (table.State, error) {
	if o.Page < 1 {
		return table.State{}, fmt.Errorf("--page must be at least 1, got %d", o.Page)
	}
	size := o.PageSize
	if size == 0 {
		size = defaultSize
	}
	if size < 0 {
		return table.State{}, fmt.Errorf("--page-size must be positive, got %d", size)
	}
	st := table.DefaultState().SetPageSize(size)
	st.Pagination.PageIndex = o.Page - 1
	return st, nil
}

// AccountsListOptions holds options for the accounts list command.
type AccountsListOptions struct {
	PageOptions
	Stages []string
}

// AccountPage is the JSON form of one page of accounts.
type AccountPage struct {
	Accounts  []core.Account `json:"accounts"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PageCount int            `json:"pageCount"`
	Columns   []string       `json:"columns"`
}

// NewAccountsCommand creates the accounts command.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Browse accounts",
	}
	cmd.AddCommand(newAccountsListCommand(), newAccountsShowCommand())
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	opts := &AccountsListOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts with search, filters, sorting and pagination",
		Long: `List one page of accounts.

Search matches any field, ignoring case. --stage keeps accounts in any of the
given funding stages and may be repeated. Magic columns appear as extra columns
and can be sorted by their question.`,
		Example: `  # First page, sorted by name
  anothersignal accounts list

  # Seed and Series A accounts mentioning "hiring"
  anothersignal accounts list --search hiring --stage Seed --stage "Series A"

  # Largest companies first, 20 per page
  anothersignal accounts list --sort employees --desc --page-size 20

  # Sort by a magic column
  anothersignal accounts list --sort "Is hiring?"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAccountsList(cmd, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringArrayVar(&opts.Stages, "stage", nil, "Funding stage to keep (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("sort", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return columns.Base().IDs(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runAccountsList(cmd *cobra.Command, opts *AccountsListOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	state, err := opts.state(cc.Cfg.PageSize)
	if err != nil {
		return err
	}

	all, err := cc.Gateway.ListAccounts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	q := pipeline.AccountsQuery{Search: opts.Search, State: state}
	if len(opts.Stages) > 0 {
		q.Filters = []core.Filter{{ID: facets.FundingStage.ID, Options: opts.Stages}}
		warnUnknownStages(r, all, opts.Stages)
	}

	view := pipeline.Accounts(all, q)
	q.State, err = sortFlag(view.Columns, q.State, opts.Sort, opts.Desc)
	if err != nil {
		return err
	}
	view = pipeline.Accounts(all, q)
	cc.Logger.Debug("accounts listed", "loaded", view.Loaded, "matched", view.Page.Total, "page", view.Page.CurrentPage())

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(AccountPage{
			Accounts:  nonNil(view.Page.Rows),
			Total:     view.Page.Total,
			Page:      view.Page.CurrentPage(),
			PageCount: view.Page.PageCount,
			Columns:   view.Columns.IDs(),
		})
	}

	t := buildTable(r, view.Columns, view.Page.Rows)
	t.Empty = view.EmptyMessage()
	t.Footer = footer(view.Showing(), view.Pager)
	return r.Table(t)
}

func warnUnknownStages(r *output.Renderer, all []core.Account, stages []string) {
	known := facets.Compute(all, facets.FundingStage)
	for _, s := range stages {
		if len(known) == 0 || !slices.Contains(known[0].Options, s) {
			r.Warning(fmt.Sprintf("no account has funding stage %q", s))
		}
	}
}

func newAccountsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one account with its magic column answers",
		Example: `  anothersignal accounts show "Acme Corporation"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountsShow(cmd, args[0])
		},
	}
}

func runAccountsShow(cmd *cobra.Command, name string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cc.Renderer

	account, err := cc.Gateway.GetAccount(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to load account %q: %w", name, err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(account)
	}
	if r.EffectiveMode() == output.ModeCSV {
		return errors.New("csv output is not supported for a single account")
	}

	r.Header(1, account.Name)
	for _, c := range columns.Base() {
		if c.ID == "name" {
			continue
		}
		r.KeyValue(c.Header, c.Render(account).Text)
	}
	r.KeyValue("Prospects", "/accounts/"+identity.Encode(account.Name))

	if len(account.MagicColumns) > 0 {
		r.Println()
		r.Header(2, "Magic Columns")
		for _, mc := range account.MagicColumns {
			r.KeyValue(mc.Question, mc.Generated.Answer)
			r.Muted(mc.Generated.ReasoningOrDefault())
		}
	}
	return nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
