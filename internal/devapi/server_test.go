package devapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/testutil"
	"github.com/jeebeez/another-signal/pkg/core"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	store := newTestStore(t)
	require.NoError(t, store.Seed(context.Background(), testFixture()))

	cfg.Store = store
	cfg.Logger = testutil.NewTestLogger(t)
	srv := NewServer(cfg)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestServer_Errors(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"unknown account", http.MethodGet, "/api/accounts/Nobody", "", http.StatusNotFound, "Account not found"},
		{"blank question", http.MethodPost, "/api/magic/generate", `{"question":"  "}`, http.StatusUnprocessableEntity, "Question is required"},
		{"bad body", http.MethodPost, "/api/magic/generate", `{`, http.StatusBadRequest, "Invalid request body"},
		{"unknown route", http.MethodGet, "/api/nope", "", http.StatusNotFound, "Not found"},
		{"wrong method", http.MethodDelete, "/api/accounts/all", "", http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

// The gateway is the production client of this API.
func TestServer_WithGateway(t *testing.T) {
	ctx := context.Background()
	_, ts := newTestServer(t, Config{})

	client, err := gateway.NewClient(gateway.ClientConfig{BaseURL: ts.URL + "/api"})
	require.NoError(t, err)
	gw := gateway.New(client, gateway.Config{})
	t.Cleanup(gw.Wait)

	accounts, err := gw.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	account, err := gw.GetAccount(ctx, "Globex")
	require.NoError(t, err)
	assert.Equal(t, "globex.test", account.Domain)

	prospects, err := gw.ListProspects(ctx, "Globex")
	require.NoError(t, err)
	assert.Len(t, prospects, 2)

	_, err = gw.GetAccount(ctx, "Nobody")
	assert.True(t, gateway.IsKind(err, gateway.KindNotFound))
	assert.Equal(t, "Account not found", gateway.Message(err))

	ok, err := gw.RequestMagicColumn(ctx, "How many employees?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, gw.PeekAccounts().Stale, "the account list is invalidated")
	snap := gw.RefreshAccounts(ctx)
	require.NoError(t, snap.Err)
	mc, ok := snap.Data[0].MagicColumn("How many employees?")
	require.True(t, ok)
	assert.Equal(t, "250-999", mc.Generated.Answer)

	_, err = gw.RequestMagicColumn(ctx, " ")
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
}

func TestServer_EscapedCompanyNames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Seed(ctx, &Fixture{Accounts: []FixtureAccount{
		{Account: core.Account{Name: "Acme Inc/EU"}, Prospects: []core.Prospect{{Name: "Jane", Role: "CTO"}}},
		{Account: core.Account{Name: ".."}, Prospects: []core.Prospect{{Name: "Dot", Role: "CEO"}}},
		{Account: core.Account{Name: "50% Off"}},
	}}))
	ts := httptest.NewServer(NewServer(Config{Store: store, Logger: testutil.NewTestLogger(t)}).Handler())
	t.Cleanup(ts.Close)

	client, err := gateway.NewClient(gateway.ClientConfig{BaseURL: ts.URL + "/api"})
	require.NoError(t, err)
	gw := gateway.New(client, gateway.Config{})
	t.Cleanup(gw.Wait)

	account, err := gw.GetAccount(ctx, "Acme Inc/EU")
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc/EU", account.Name)

	prospects, err := gw.ListProspects(ctx, "Acme Inc/EU")
	require.NoError(t, err)
	require.Len(t, prospects, 1)
	assert.Equal(t, "Jane", prospects[0].Name)

	prospects, err = gw.ListProspects(ctx, "..")
	require.NoError(t, err)
	require.Len(t, prospects, 1)
	assert.Equal(t, "Dot", prospects[0].Name)

	account, err = gw.GetAccount(ctx, "50% Off")
	require.NoError(t, err)
	assert.Equal(t, "50% Off", account.Name)
}

func TestServer_CustomPrefix(t *testing.T) {
	_, ts := newTestServer(t, Config{Prefix: "v1/"})


	resp, err := http.Get(ts.URL + "/v1/accounts/all")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accounts []core.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accounts))
	assert.Len(t, accounts, 2)
}

func TestServer_Latency(t *testing.T) {
	_, ts := newTestServer(t, Config{Latency: 30 * time.Millisecond})

	start := time.Now()
	resp, err := http.Get(ts.URL + "/api/accounts/all")
	require.NoError(t, err)
	resp.Body.Close()
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/accounts/all")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
