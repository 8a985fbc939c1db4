package commands

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/ui"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Host      string
	Port      int
	NoBrowser bool
	Dev       bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the accounts web UI",
		Long: `Start a local web server with the accounts table.

The UI provides:
- Accounts table with search, funding stage filters, sorting and pagination
- Magic columns, added from the "Add Magic Column" sheet
- Prospects of each account, one click away`,
		Example: `  # Start UI on default port
  anothersignal ui

  # Start on custom port against another backend
  anothersignal ui --port 3000 --api-url https://signals.example.com/api

  # Start without auto-opening browser
  anothersignal ui --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Host to bind (default: localhost)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable the live reload endpoints")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cc := NewCommandContextWithoutGateway(cmd)
	uiCfg := cc.Cfg.UI

	// CLI flags override config file
	host := uiCfg.Host
	if opts.Host != "" {
		host = opts.Host
	}
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	autoOpen := uiCfg.AutoOpen && !opts.NoBrowser
	dev := uiCfg.Dev || opts.Dev

	notify := notifier.New()
	gw, err := newGateway(cc.Cfg, cc.Logger, notify.CacheHook())
	if err != nil {
		return err
	}

	server := ui.NewServer(ui.Config{
		Gateway:         gw,
		Notifier:        notify,
		Host:            host,
		Port:            port,
		Dev:             dev,
		SessionSecret:   uiCfg.SessionSecret,
		RefreshInterval: uiCfg.RefreshInterval,
		Logger:          cc.Logger,
	})

	url := "http://" + net.JoinHostPort(host, strconv.Itoa(port))
	if autoOpen {
		go openBrowser(url)
	}

	r := cc.Renderer
	r.Printf("Starting UI server on %s\n", url)
	r.Muted(fmt.Sprintf("Backend: %s", cc.Cfg.API.BaseURL))
	r.Println("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
