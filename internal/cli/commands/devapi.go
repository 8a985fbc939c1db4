package commands

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/devapi"
)

// DevAPIOptions holds options for the devapi command.
type DevAPIOptions struct {
	Host     string
	Port     int
	Database string
	Fixture  string
	Prefix   string
	NoWatch  bool
	Latency  time.Duration
}

// NewDevAPICommand creates the devapi command.
func NewDevAPICommand() *cobra.Command {
	opts := &DevAPIOptions{}

	cmd := &cobra.Command{
		Use:   "devapi",
		Short: "Start the reference accounts backend",
		Long: `Start a local backend serving accounts, prospects and magic columns.

Data lives in SQLite (in memory unless --database is set) and is seeded from a
YAML fixture. With --fixture, edits to the file are picked up while running.
Magic column answers survive reseeding.`,
		Example: `  # Built-in sample data on :4000
  anothersignal devapi

  # Own fixture, persisted database, slow responses
  anothersignal devapi --fixture accounts.yaml --database devapi.db --latency 800ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDevAPI(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Host to bind (default: localhost)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 4000)")
	cmd.Flags().StringVar(&opts.Database, "database", "", "SQLite database path (default: in memory)")
	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "YAML fixture to seed from (default: built-in sample data)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", devapi.DefaultPrefix, "Path prefix of every route")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Don't reload the fixture when it changes")
	cmd.Flags().DurationVar(&opts.Latency, "latency", 0, "Delay every response")

	return cmd
}

func runDevAPI(cmd *cobra.Command, opts *DevAPIOptions) error {
	cc := NewCommandContextWithoutGateway(cmd)
	devCfg := cc.Cfg.DevAPI
	ctx := cmd.Context()

	host := firstNonEmpty(opts.Host, devCfg.Host)
	port := devCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	database := firstNonEmpty(opts.Database, devCfg.Database)
	fixturePath := firstNonEmpty(opts.Fixture, devCfg.Fixture)
	latency := devCfg.Latency
	if cmd.Flags().Changed("latency") {
		latency = opts.Latency
	}
	watch := devCfg.Watch && !opts.NoWatch

	fixture, err := devapi.LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	store, err := devapi.OpenStore(ctx, database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Seed(ctx, fixture); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}

	server := devapi.NewServer(devapi.Config{
		Store:       store,
		Host:        host,
		Port:        port,
		Prefix:      opts.Prefix,
		FixturePath: fixturePath,
		Watch:       watch,
		Latency:     latency,
		Logger:      cc.Logger,
	})

	r := cc.Renderer
	r.Printf("Serving %d accounts on http://%s%s\n", len(fixture.Accounts), net.JoinHostPort(host, strconv.Itoa(port)), opts.Prefix)
	if fixturePath != "" && watch {
		r.Muted("Watching " + fixturePath)
	}
	r.Println("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
