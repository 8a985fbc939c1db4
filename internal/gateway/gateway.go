// Package gateway fetches accounts and prospects from the backend and caches them
// with stale-while-revalidate semantics.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jeebeez/another-signal/pkg/core"
)

// Cache key heads.
const (
	KeyAccounts         = "accounts"
	KeyAccount          = "account"
	KeyAccountProspects = "account-prospects"
)

// Config configures a Gateway.
type Config struct {
	StaleTime time.Duration
	// OnUpdate is called with the cache key after a background refresh stored a result.
	OnUpdate func(key []string)
	Logger   *slog.Logger
	// Now replaces time.Now (tests).
	Now func() time.Time
}

// Gateway is the single entry point to remote data.
type Gateway struct {
	client    *Client
	accounts  *Cache[[]core.Account]
	account   *Cache[core.Account]
	prospects *Cache[[]core.Prospect]
	logger    *slog.Logger
}

// New creates a gateway over client.
func New(client *Client, cfg Config) *Gateway {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Gateway{
		client:    client,
		accounts:  NewCache[[]core.Account](cacheOptions[[]core.Account](cfg, now, logger)...),
		account:   NewCache[core.Account](cacheOptions[core.Account](cfg, now, logger)...),
		prospects: NewCache[[]core.Prospect](cacheOptions[[]core.Prospect](cfg, now, logger)...),
		logger:    logger,
	}
}

func cacheOptions[T any](cfg Config, now func() time.Time, logger *slog.Logger) []CacheOption[T] {
	opts := []CacheOption[T]{
		WithStaleTime[T](cfg.StaleTime),
		WithClock[T](now),
		WithLogger[T](logger),
	}
	if cfg.OnUpdate != nil {
		opts = append(opts, WithOnUpdate[T](cfg.OnUpdate))
	}
	return opts
}

// Accounts returns the snapshot of the full account list.
func (g *Gateway) Accounts(ctx context.Context) Snapshot[[]core.Account] {
	return g.accounts.Get(ctx, []string{KeyAccounts}, g.fetchAccounts)
}

// PeekAccounts returns the cached account list without fetching.
func (g *Gateway) PeekAccounts() Snapshot[[]core.Account] {
	return g.accounts.Peek([]string{KeyAccounts})
}

// PeekProspects returns the cached prospects of an account without fetching.
func (g *Gateway) PeekProspects(accountName string) Snapshot[[]core.Prospect] {
	return g.prospects.Peek([]string{KeyAccountProspects, accountName})
}

// RefreshAccounts refetches the account list regardless of freshness.
func (g *Gateway) RefreshAccounts(ctx context.Context) Snapshot[[]core.Account] {
	return g.accounts.Refetch(ctx, []string{KeyAccounts}, g.fetchAccounts)
}

// Account returns the snapshot of a single account.
func (g *Gateway) Account(ctx context.Context, name string) Snapshot[core.Account] {
	return g.account.Get(ctx, []string{KeyAccount, name}, func(ctx context.Context) (core.Account, error) {
		var account core.Account
		err := g.client.Get(ctx, "accounts/"+pathSegment(name), &account)
		return account, err
	})
}

// Prospects returns the snapshot of the prospects of an account.
func (g *Gateway) Prospects(ctx context.Context, accountName string) Snapshot[[]core.Prospect] {
	return g.prospects.Get(ctx, []string{KeyAccountProspects, accountName}, func(ctx context.Context) ([]core.Prospect, error) {
		var prospects []core.Prospect
		if err := g.client.Get(ctx, "prospects/"+pathSegment(accountName), &prospects); err != nil {
			return nil, err
		}
		if prospects == nil {
			prospects = []core.Prospect{}
		}
		return prospects, nil
	})
}

// pathSegment escapes name as a single path segment. Dot segments are
// percent-encoded so joining them onto the base URL cannot climb out of it.
func pathSegment(name string) string {
	if name == "." || name == ".." {
		return strings.Repeat("%2E", len(name))
	}
	return url.PathEscape(name)
}

// ListAccounts returns the account list or the fetch error.
func (g *Gateway) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return value(g.Accounts(ctx))
}

// ReloadAccounts refetches the account list and returns it. When the refetch
// fails but older data exists, the older data is returned.
func (g *Gateway) ReloadAccounts(ctx context.Context) ([]core.Account, error) {
	return value(g.RefreshAccounts(ctx))
}

// GetAccount returns one account or the fetch error.
func (g *Gateway) GetAccount(ctx context.Context, name string) (core.Account, error) {
	return value(g.Account(ctx, name))
}

// ListProspects returns the prospects of an account or the fetch error.
func (g *Gateway) ListProspects(ctx context.Context, accountName string) ([]core.Prospect, error) {
	return value(g.Prospects(ctx, accountName))
}

// RequestMagicColumn asks the backend to generate a magic column for every account.
// On success the account list is invalidated so the next read refetches it.
func (g *Gateway) RequestMagicColumn(ctx context.Context, question string) (bool, error) {
	var ok bool
	if err := g.client.Post(ctx, "magic/generate", magicRequest{Question: question}, &ok); err != nil {
		return false, err
	}
	n := g.accounts.Invalidate(KeyAccounts)
	g.logger.Debug("magic column requested", "question", question, "invalidated", n)
	return ok, nil
}

// Invalidate marks every cached entry whose key starts with prefix stale.
func (g *Gateway) Invalidate(prefix ...string) {
	if len(prefix) == 0 {
		return
	}
	switch prefix[0] {
	case KeyAccounts:
		g.accounts.Invalidate(prefix...)
	case KeyAccount:
		g.account.Invalidate(prefix...)
	case KeyAccountProspects:
		g.prospects.Invalidate(prefix...)
	}
}

// Wait blocks until background refreshes have finished.
func (g *Gateway) Wait() {
	g.accounts.Wait()
	g.account.Wait()
	g.prospects.Wait()
}

// Client returns the underlying HTTP client.
func (g *Gateway) Client() *Client {
	return g.client
}

var errNoData = errors.New("no data")

type magicRequest struct {
	Question string `json:"question"`
}

func (g *Gateway) fetchAccounts(ctx context.Context) ([]core.Account, error) {
	var accounts []core.Account
	if err := g.client.Get(ctx, "accounts/all", &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	return accounts, nil
}

func value[T any](snap Snapshot[T]) (T, error) {
	if !snap.HasData {
		var zero T
		if snap.Err != nil {
			return zero, snap.Err
		}
		return zero, errNoData
	}
	return snap.Data, nil
}
