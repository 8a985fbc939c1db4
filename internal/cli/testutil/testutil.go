// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"context"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeebeez/another-signal/internal/cli/config"
	"github.com/jeebeez/another-signal/internal/cli/output"
	"github.com/jeebeez/another-signal/internal/devapi"
)

// Backend is a reference backend running in-process.
type Backend struct {
	URL   string
	Store *devapi.Store
}

// StartBackend serves fixture from an in-memory store for the duration of the
// test. A nil fixture seeds the built-in sample data.
func StartBackend(t *testing.T, fixture *devapi.Fixture) *Backend {
	t.Helper()
	ctx := context.Background()

	if fixture == nil {
		var err error
		fixture, err = devapi.DefaultFixture()
		require.NoError(t, err)
	}

	store, err := devapi.OpenStore(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Seed(ctx, fixture))

	srv := httptest.NewServer(devapi.NewServer(devapi.Config{Store: store}).Handler())
	t.Cleanup(srv.Close)

	return &Backend{URL: srv.URL + devapi.DefaultPrefix, Store: store}
}

// Config returns a configuration pointed at the backend with the given output mode.
func (b *Backend) Config(mode output.OutputMode) *config.Config {
	cfg := config.Default()
	cfg.API.BaseURL = b.URL
	cfg.OutputFormat = string(mode)
	return cfg
}

// Context returns a context carrying cfg, as the root command would set it up.
func Context(cfg *config.Config) context.Context {
	return config.WithConfig(context.Background(), cfg)
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that s carries no terminal escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	assert.False(t, ansiPattern.MatchString(s), "unexpected ANSI escape codes in %q", s)
}

// AssertValidMarkdown checks for balanced code fences and non-empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()
	assert.Zero(t, strings.Count(md, "```")%2, "unbalanced code fences")
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			assert.NotEmpty(t, strings.TrimLeft(trimmed, "# "), "empty header at line %d", i+1)
		}
	}
}
