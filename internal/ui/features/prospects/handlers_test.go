package prospects

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jeebeez/another-signal/internal/identity"
	"github.com/jeebeez/another-signal/internal/testutil"
	"github.com/jeebeez/another-signal/internal/ui/features"
	"github.com/jeebeez/another-signal/internal/ui/features/common"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
	"github.com/jeebeez/another-signal/pkg/core"
)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	backend := features.NewBackend(
		[]core.Account{{Name: "Acme", FundingStage: "Seed"}, {Name: "Globex"}},
		map[string][]core.Prospect{
			"Acme": {
				{Name: "Jane Doe", Role: "CTO", Company: "Acme", Location: "Berlin"},
				{Name: "Ann Lee", Role: "VP Sales", Company: "Acme", Location: "Austin"},
			},
		},
	)
	fixture := features.SetupTestFixture(t, backend)
	return NewHandlers(fixture.Gateway, fixture.SessionStore, fixture.Notifier, testutil.NewTestLogger(t)), fixture
}

// textOf returns the text content of the first element named tag.
func textOf(t *testing.T, markup, tag string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)

	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == nil {
		return ""
	}

	var b strings.Builder
	var text func(n *html.Node)
	text = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			text(c)
		}
	}
	text(found)
	return b.String()
}

func pageRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/accounts/token", nil)
	return features.RequestWithPathParam(req, "token", token)
}

func TestProspectsPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ProspectsPage(rec, pageRequest(identity.Encode("Acme")))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "Acme's Prospects", textOf(t, body, "h1"))
	assert.Equal(t, "Acme's Prospects - Another Signal", textOf(t, body, "title"))
	assert.Contains(t, body, "Showing 2 of 2 prospects")
	assert.Contains(t, body, "/accounts/QWNtZQ/updates")
	assert.Less(t, strings.Index(body, "prospect-row-Ann Lee"), strings.Index(body, "prospect-row-Jane Doe"))
}

func TestProspectsPage_PaddedTokenFromBrowser(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ProspectsPage(rec, pageRequest("QWNtZQ=="))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme's Prospects", textOf(t, rec.Body.String(), "h1"))
}

func TestProspectsPage_UnknownAccount(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ProspectsPage(rec, pageRequest(identity.Encode("Nobody")))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "Prospects", textOf(t, body, "h1"), "title falls back without account data")
	assert.Contains(t, body, "No prospects found")
}

func TestProspectsPage_InvalidToken(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ProspectsPage(rec, pageRequest("%%%not-base64"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "flash is stored in the session cookie")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	flashes := common.Flashes(fixture.SessionStore, httptest.NewRecorder(), next)
	assert.Equal(t, []string{MsgInvalidLink}, flashes)
}

func TestProspectsView(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		search   string
		wantBody []string
		notWant  []string
	}{
		{
			name:     "search by location",
			action:   "search",
			search:   "berlin",
			wantBody: []string{"prospect-row-Jane Doe", "Showing 1 of 1 prospects"},
			notWant:  []string{"prospect-row-Ann Lee"},
		},
		{
			name:     "no match",
			action:   "search",
			search:   "zzz",
			wantBody: []string{"No matching prospects found"},
		},
		{
			name:     "sort toggles",
			action:   "sort:name",
			wantBody: []string{`"desc":true`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)
			token := identity.Encode("Acme")

			signals := DefaultSignals()
			signals.Search = tt.search
			target := "/accounts/" + token + "/view?action=" + tt.action + "&" + features.SignalsQuery(t, signals)
			req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, target, nil), "token", token)

			rec := httptest.NewRecorder()
			h.ProspectsView(rec, req)

			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, nope := range tt.notWant {
				assert.NotContains(t, body, nope)
			}
		})
	}
}

func TestProspectsView_InvalidTokenRedirects(t *testing.T) {
	h, _ := setupTestHandlers(t)

	target := "/accounts/bad/view?" + features.SignalsQuery(t, DefaultSignals())
	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, target, nil), "token", "%%%")

	rec := httptest.NewRecorder()
	h.ProspectsView(rec, req)
	assert.Contains(t, rec.Body.String(), "window.location")
}

func TestProspectsUpdates_FiltersByAccount(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	token := identity.Encode("Acme")

	ctx, cancel := context.WithCancel(context.Background())
	req := features.RequestWithPathParam(
		httptest.NewRequest(http.MethodGet, "/accounts/"+token+"/updates", nil).WithContext(ctx), "token", token)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ProspectsUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return fixture.Notifier.Listeners() == 1 }, time.Second, 5*time.Millisecond)
	fixture.Notifier.Broadcast(notifier.Event{Topic: notifier.TopicProspects, Key: "Globex"})
	fixture.Notifier.Broadcast(notifier.Event{Topic: notifier.TopicAccounts})
	fixture.Notifier.Broadcast(notifier.Event{Topic: notifier.TopicProspects, Key: "Acme"})

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `id="prospects-refresh"`))
	assert.Contains(t, body, "/accounts/QWNtZQ/view?action=refresh")
}
