package accounts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jeebeez/another-signal/internal/testutil"
	"github.com/jeebeez/another-signal/internal/ui/features"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
	"github.com/jeebeez/another-signal/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func sampleAccounts() []core.Account {
	return []core.Account{
		{Name: "Globex", Domain: "globex.test", FundingStage: "Series B", Employees: 900},
		{Name: "Acme", Domain: "acme.test", FundingStage: "Seed", Employees: 12, MagicColumns: []core.MagicColumn{
			{Question: "Is hiring?", Generated: core.Generated{Answer: "Yes", Reasoning: "Open roles"}},
		}},
		{Name: "Initech", FundingStage: "Seed", Employees: 40},
	}
}

func setupTestHandlers(t *testing.T, accounts []core.Account) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, features.NewBackend(accounts, nil))
	h := NewHandlers(fixture.Gateway, fixture.SessionStore, fixture.Notifier, testutil.NewTestLogger(t))
	return h, fixture
}

func viewRequest(t *testing.T, action string, signals Signals) *http.Request {
	t.Helper()
	target := "/accounts/view?action=" + action + "&" + features.SignalsQuery(t, signals)
	return httptest.NewRequest(http.MethodGet, target, nil)
}

// rowIDs returns the data-testid of every table row in document order.
func rowIDs(t *testing.T, markup string) []string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)

	var ids []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			for _, a := range n.Attr {
				if a.Key == "data-testid" {
					ids = append(ids, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ids
}

// =============================================================================
// AccountsPage Tests
// =============================================================================

func TestAccountsPage(t *testing.T) {
	h, _ := setupTestHandlers(t, sampleAccounts())

	rec := httptest.NewRecorder()
	h.AccountsPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Accounts - Another Signal</title>",
		"data-init",
		"/accounts/updates",
		"Add Magic Column",
		"Showing 3 of 3 accounts",
		"Filter Accounts",
		"Is hiring?",
		`src="/static/app.js"`,
	} {
		assert.Contains(t, body, want)
	}

	assert.Equal(t,
		[]string{"account-row-Acme", "account-row-Globex", "account-row-Initech"},
		rowIDs(t, body), "rows start sorted by name")
	assert.Contains(t, body, `data-href="/accounts/QWNtZQ"`, "rows link to the encoded account")
}

func TestAccountsPage_BackendFailure(t *testing.T) {
	h, fixture := setupTestHandlers(t, sampleAccounts())
	fixture.Backend.SetAccountsStatus(http.StatusInternalServerError)

	rec := httptest.NewRecorder()
	h.AccountsPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server error. Please try again later")
	assert.Empty(t, rowIDs(t, rec.Body.String()))
}

func TestAccountsPage_EmptyBackend(t *testing.T) {
	h, _ := setupTestHandlers(t, []core.Account{})

	rec := httptest.NewRecorder()
	h.AccountsPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "No accounts found")
	assert.NotContains(t, body, "Showing")
	assert.NotContains(t, body, "Filter Accounts", "no facets, no filter popover")
}

// =============================================================================
// AccountsView Tests - SSE transitions
// =============================================================================

func TestAccountsView_Transitions(t *testing.T) {
	tests := []struct {
		name        string
		action      string
		signals     func(s *Signals)
		wantRows    []string
		wantBody    []string
		notWantBody []string
	}{
		{
			name:     "search",
			action:   "search",
			signals:  func(s *Signals) { s.Search = "ACME" },
			wantRows: []string{"account-row-Acme"},
			wantBody: []string{"Showing 1 of 1 accounts", `"pageIndex":0`},
		},
		{
			name:     "search without match",
			action:   "search",
			signals:  func(s *Signals) { s.Search = "nothing-like-this" },
			wantBody: []string{"No matching accounts found"},
		},
		{
			name:   "apply filter",
			action: "filter",
			signals: func(s *Signals) {
				s.Draft = map[string][]string{"fundingStage": {"Seed"}}
				s.FilterOpen = true
			},
			wantRows:    []string{"account-row-Acme", "account-row-Initech"},
			wantBody:    []string{`"filters":{"fundingStage":["Seed"]}`, `"filterOpen":false`, `data-testid="filter-count"`},
			notWantBody: []string{"account-row-Globex"},
		},
		{
			name:   "reset filter",
			action: "reset",
			signals: func(s *Signals) {
				s.Filters = map[string][]string{"fundingStage": {"Seed"}}
				s.Draft = map[string][]string{"fundingStage": {"Seed"}}
			},
			wantRows: []string{"account-row-Acme", "account-row-Globex", "account-row-Initech"},
			wantBody: []string{`"filters":{}`, `"draft":{}`},
		},
		{
			name:     "sort descending",
			action:   "sort:name",
			wantRows: []string{"account-row-Initech", "account-row-Globex", "account-row-Acme"},
			wantBody: []string{`"desc":true`, `aria-sort="descending"`},
		},
		{
			name:     "sort by employees",
			action:   "sort:employees",
			wantRows: []string{"account-row-Acme", "account-row-Initech", "account-row-Globex"},
		},
		{
			name:     "filtered magic column disappears",
			action:   "filter",
			signals:  func(s *Signals) { s.Draft = map[string][]string{"fundingStage": {"Series B"}} },
			wantRows: []string{"account-row-Globex"},
			notWantBody: []string{"Is hiring?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, sampleAccounts())

			signals := DefaultSignals()
			if tt.signals != nil {
				tt.signals(&signals)
			}

			rec := httptest.NewRecorder()
			h.AccountsView(rec, viewRequest(t, tt.action, signals))

			body := rec.Body.String()
			assert.Contains(t, body, "datastar-patch-elements")
			if tt.wantRows != nil {
				assert.Equal(t, tt.wantRows, rowIDs(t, lastSection(body)))
			}
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, nope := range tt.notWantBody {
				assert.NotContains(t, lastSection(body), nope)
			}
		})
	}
}

func TestAccountsView_Pagination(t *testing.T) {
	var accounts []core.Account
	for i := range 25 {
		accounts = append(accounts, core.Account{Name: fmt.Sprintf("Account %02d", i+1)})
	}
	h, _ := setupTestHandlers(t, accounts)

	rec := httptest.NewRecorder()
	h.AccountsView(rec, viewRequest(t, "page:3", DefaultSignals()))
	body := rec.Body.String()
	assert.Contains(t, body, "Showing 5 of 25 accounts")
	assert.Contains(t, body, `"pageIndex":2`)
	assert.Contains(t, body, `aria-current="page"`)

	rec = httptest.NewRecorder()
	h.AccountsView(rec, viewRequest(t, "page:99", DefaultSignals()))
	assert.Contains(t, rec.Body.String(), `"pageIndex":2`, "page moves are clamped")

	signals := DefaultSignals()
	signals.Pagination.PageIndex = 2
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/accounts/view?action=pagesize&size=20&"+features.SignalsQuery(t, signals), nil)
	h.AccountsView(rec, req)
	body = rec.Body.String()
	assert.Contains(t, body, `"pageIndex":0`, "page size change resets the page")
	assert.Contains(t, body, `"pageSize":20`)
	assert.Contains(t, body, "Showing 20 of 25 accounts")
}

func TestAccountsView_LoadingPatchedFirst(t *testing.T) {
	h, _ := setupTestHandlers(t, sampleAccounts())

	rec := httptest.NewRecorder()
	h.AccountsView(rec, viewRequest(t, "refresh", DefaultSignals()))

	body := rec.Body.String()
	loading := strings.Index(body, "Loading accounts...")
	rows := strings.Index(body, "account-row-Acme")
	require.NotEqual(t, -1, loading)
	require.NotEqual(t, -1, rows)
	assert.Less(t, loading, rows)

	rec = httptest.NewRecorder()
	h.AccountsView(rec, viewRequest(t, "refresh", DefaultSignals()))
	assert.NotContains(t, rec.Body.String(), "Loading accounts...", "cached data renders directly")
}

func TestAccountsView_UnknownAction(t *testing.T) {
	h, _ := setupTestHandlers(t, sampleAccounts())

	rec := httptest.NewRecorder()
	h.AccountsView(rec, viewRequest(t, "explode", DefaultSignals()))
	assert.Contains(t, rec.Body.String(), "unknown action")
}

// =============================================================================
// SubmitMagic Tests
// =============================================================================

func magicRequest(question string) *http.Request {
	body := fmt.Sprintf(`{"question":%q}`, question)
	req := httptest.NewRequest(http.MethodPost, "/magic", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSubmitMagic_BlankQuestion(t *testing.T) {
	h, fixture := setupTestHandlers(t, sampleAccounts())
	updates := fixture.Notifier.Subscribe()
	defer fixture.Notifier.Unsubscribe(updates)

	rec := httptest.NewRecorder()
	h.SubmitMagic(rec, magicRequest("   "))

	assert.Contains(t, rec.Body.String(), "Please enter a question")
	assert.Equal(t, int32(0), fixture.Backend.MagicCalls.Load(), "no network call")
	assert.Empty(t, updates, "no invalidation broadcast")
}

func TestSubmitMagic_Success(t *testing.T) {
	h, fixture := setupTestHandlers(t, sampleAccounts())
	updates := fixture.Notifier.Subscribe()
	defer fixture.Notifier.Unsubscribe(updates)

	_, err := fixture.Gateway.ListAccounts(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.SubmitMagic(rec, magicRequest("Uses Go?"))

	body := rec.Body.String()
	assert.Contains(t, body, `"sheetOpen":false`)
	assert.NotContains(t, body, "Failed to create magic column")
	assert.Equal(t, int32(1), fixture.Backend.MagicCalls.Load())

	select {
	case ev := <-updates:
		assert.Equal(t, notifier.TopicAccounts, ev.Topic)
	case <-time.After(time.Second):
		t.Fatal("expected an accounts broadcast")
	}
	assert.True(t, fixture.Gateway.PeekAccounts().Stale, "account list invalidated")
}

func TestSubmitMagic_Failure(t *testing.T) {
	h, fixture := setupTestHandlers(t, sampleAccounts())
	fixture.Backend.SetMagicStatus(http.StatusInternalServerError)

	rec := httptest.NewRecorder()
	h.SubmitMagic(rec, magicRequest("Uses Go?"))

	body := rec.Body.String()
	assert.Contains(t, body, "Failed to create magic column")
	assert.Contains(t, body, `id="toast"`)
	assert.NotContains(t, body, `"sheetOpen":false`, "sheet stays open")
}

// =============================================================================
// AccountsUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestAccountsUpdates_PatchesRefreshTriggerOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t, sampleAccounts())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/accounts/updates", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.AccountsUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return fixture.Notifier.Listeners() == 1 }, time.Second, 5*time.Millisecond)
	fixture.Notifier.Broadcast(notifier.Event{Topic: notifier.TopicProspects, Key: "Acme"})
	fixture.Notifier.Broadcast(notifier.Event{Topic: notifier.TopicAccounts})

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, `id="accounts-refresh"`)
	assert.Contains(t, body, "action=refresh")
	assert.Equal(t, 1, strings.Count(body, "accounts-refresh"), "prospects events are ignored")
	assert.Equal(t, 0, fixture.Notifier.Listeners())
}

// lastSection returns the markup of the last accounts section patch.
func lastSection(body string) string {
	i := strings.LastIndex(body, `<section id="accounts-section"`)
	if i < 0 {
		return ""
	}
	rest := body[i:]
	if j := strings.Index(rest, "</section>"); j >= 0 {
		return rest[:j+len("</section>")]
	}
	return rest
}
