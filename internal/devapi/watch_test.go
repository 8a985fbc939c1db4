package devapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeebeez/another-signal/internal/testutil"
)

func TestWatch_ReloadsFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - name: First\n"), 0o600))

	store := newTestStore(t)
	srv := NewServer(Config{Store: store, FixturePath: path, Watch: true, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, srv.Reload(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Watch(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	names := func() []string {
		accounts, err := store.ListAccounts(context.Background())
		if err != nil {
			return nil
		}
		out := make([]string, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, a.Name)
		}
		return out
	}
	require.Equal(t, []string{"First"}, names())

	// The watcher may not be registered yet; keep rewriting until it notices.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("accounts:\n  - name: Second\n  - name: Third\n"), 0o600)
		n := names()
		return len(n) == 2 && n[0] == "Second"
	}, 3*time.Second, 150*time.Millisecond)
}

func TestWatch_InvalidFixtureKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - name: Keep\n"), 0o600))

	store := newTestStore(t)
	srv := NewServer(Config{Store: store, FixturePath: path})
	require.NoError(t, srv.Reload(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - name: A\n  - name: A\n"), 0o600))
	assert.Error(t, srv.Reload(context.Background()))

	accounts, err := store.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Keep", accounts[0].Name)
}
