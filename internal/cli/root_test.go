package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeebeez/another-signal/internal/cli/commands"
	"github.com/jeebeez/another-signal/internal/cli/testutil"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "anothersignal", root.Use)
	for _, flag := range []string{"config", "api-url", "token", "timeout", "verbose", "output", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"accounts", "prospects", "magic", "token", "browse", "ui", "devapi", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestRoot_Version(t *testing.T) {
	out, _, err := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "anothersignal "+Version+"\n", out)
}

func TestRoot_Completion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := executeRoot(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "anothersignal")
		})
	}

	_, _, err := executeRoot(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, _, err := executeRoot(t, "--output", "xml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRoot_AccountsAgainstBackend(t *testing.T) {
	b := testutil.StartBackend(t, nil)
	t.Setenv("ANOTHERSIGNAL_OUTPUT", "json")

	out, _, err := executeRoot(t, "--api-url", b.URL, "accounts", "list", "--stage", "Seed")
	require.NoError(t, err)

	var page commands.AccountPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.NotEmpty(t, page.Accounts)
	for _, a := range page.Accounts {
		assert.Equal(t, "Seed", a.FundingStage)
	}
}

func TestRoot_BackendDown(t *testing.T) {
	_, _, err := executeRoot(t, "--api-url", "http://127.0.0.1:1/api", "--timeout", "1s", "accounts", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load accounts")
}
