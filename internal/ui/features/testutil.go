// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/testutil"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Backend is an in-memory stand-in for the accounts API.
type Backend struct {
	mu        sync.Mutex
	accounts  []core.Account
	prospects map[string][]core.Prospect
	// magicStatus and accountsStatus, when non-zero, replace a successful response.
	magicStatus    int
	accountsStatus int
	delay          time.Duration

	MagicCalls    atomic.Int32
	AccountsCalls atomic.Int32
}

// NewBackend creates a backend serving accounts and the prospects keyed by account name.
func NewBackend(accounts []core.Account, prospects map[string][]core.Prospect) *Backend {
	if prospects == nil {
		prospects = map[string][]core.Prospect{}
	}
	return &Backend{accounts: accounts, prospects: prospects}
}

// SetAccounts replaces the served accounts.
func (b *Backend) SetAccounts(accounts []core.Account) {
	b.mu.Lock()
	b.accounts = accounts
	b.mu.Unlock()
}

// SetMagicStatus makes the magic endpoint answer with status.
func (b *Backend) SetMagicStatus(status int) {
	b.mu.Lock()
	b.magicStatus = status
	b.mu.Unlock()
}

// SetAccountsStatus makes the account list endpoint answer with status.
func (b *Backend) SetAccountsStatus(status int) {
	b.mu.Lock()
	b.accountsStatus = status
	b.mu.Unlock()
}

// SetDelay holds every response back, to observe loading states.
func (b *Backend) SetDelay(d time.Duration) {
	b.mu.Lock()
	b.delay = d
	b.mu.Unlock()
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	delay := b.delay
	b.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	path := strings.TrimPrefix(r.URL.Path, "/api/")
	switch {
	case r.Method == http.MethodGet && path == "accounts/all":
		b.AccountsCalls.Add(1)
		if b.accountsStatus != 0 {
			w.WriteHeader(b.accountsStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(b.accounts)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "accounts/"):
		name := strings.TrimPrefix(path, "accounts/")
		for _, a := range b.accounts {
			if a.Name == name {
				_ = json.NewEncoder(w).Encode(a)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Account not found"}`))
	case r.Method == http.MethodGet && strings.HasPrefix(path, "prospects/"):
		_ = json.NewEncoder(w).Encode(b.prospects[strings.TrimPrefix(path, "prospects/")])
	case r.Method == http.MethodPost && path == "magic/generate":
		b.MagicCalls.Add(1)
		if b.magicStatus != 0 {
			w.WriteHeader(b.magicStatus)
			return
		}
		_, _ = w.Write([]byte("true"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// TestFixture holds the dependencies of UI handler tests.
type TestFixture struct {
	Backend      *Backend
	Gateway      *gateway.Gateway
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture starts backend on an httptest server and wires a gateway to it.
func SetupTestFixture(t *testing.T, backend *Backend) *TestFixture {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := testutil.NewTestLogger(t)
	client, err := gateway.NewClient(gateway.ClientConfig{BaseURL: srv.URL + "/api", Logger: logger})
	require.NoError(t, err)

	notify := notifier.New()
	gw := gateway.New(client, gateway.Config{Logger: logger, OnUpdate: notify.CacheHook()})
	t.Cleanup(gw.Wait)

	return &TestFixture{
		Backend:      backend,
		Gateway:      gw,
		Notifier:     notify,
		SessionStore: NewTestSessionStore(),
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context that is cancelled after timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// SignalsQuery encodes signals as the datastar query parameter of a GET request.
func SignalsQuery(t *testing.T, signals any) string {
	t.Helper()
	raw, err := json.Marshal(signals)
	require.NoError(t, err)
	return "datastar=" + url.QueryEscape(string(raw))
}
