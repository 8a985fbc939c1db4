package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/cli/config"
	"github.com/jeebeez/another-signal/internal/cli/output"
	"github.com/jeebeez/another-signal/internal/gateway"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Gateway  *gateway.Gateway
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a gateway to the configured backend.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc := NewCommandContextWithoutGateway(cmd)

	gw, err := newGateway(cc.Cfg, cc.Logger, nil)
	if err != nil {
		return nil, err
	}
	cc.Gateway = gw
	return cc, nil
}

// NewCommandContextWithoutGateway creates a CommandContext without a gateway.
// Useful for commands that never talk to the backend.
func NewCommandContextWithoutGateway(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// newGateway builds the gateway for cfg. onUpdate, when set, is called after
// every background refresh.
func newGateway(cfg *config.Config, logger *slog.Logger, onUpdate func(key []string)) (*gateway.Gateway, error) {
	client, err := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Token:   cfg.API.Token,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	return gateway.New(client, gateway.Config{
		StaleTime: cfg.Cache.StaleTime,
		OnUpdate:  onUpdate,
		Logger:    logger,
	}), nil
}
