package prospects

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/identity"
	"github.com/jeebeez/another-signal/internal/pipeline"
	"github.com/jeebeez/another-signal/internal/ui/features/common"
	"github.com/jeebeez/another-signal/internal/ui/features/common/components"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Handlers provides HTTP handlers for the prospects feature.
type Handlers struct {
	gateway      *gateway.Gateway
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	seq          atomic.Int64
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(gw *gateway.Gateway, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		gateway:      gw,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
	}
}

// ProspectsPage renders the prospects page of the account named by the token.
// An undecodable token redirects to the accounts page with a flash message.
func (h *Handlers) ProspectsPage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	name, err := identity.Decode(token)
	if err != nil {
		h.logger.Debug("invalid account token", "token", token, "error", err)
		common.AddFlash(h.sessionStore, w, r, MsgInvalidLink)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	signals := DefaultSignals()
	model := h.buildModel(r.Context(), token, name, signals)
	signals.TableSignals = signals.WithState(model.View.State)

	raw, err := json.Marshal(signals)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := components.Page{
		Title:   model.Title,
		Signals: string(raw),
		Init:    "@get(" + components.JSString(updatesEndpoint(token)) + ")",
		Flash:   common.Flashes(h.sessionStore, w, r),
		Body:    Body(model),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Layout(page).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ProspectsView applies the requested transition and patches the section.
func (h *Handlers) ProspectsView(w http.ResponseWriter, r *http.Request) {
	signals := DefaultSignals()
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)
	token := chi.URLParam(r, "token")
	name, err := identity.Decode(token)
	if err != nil {
		_ = sse.Redirect("/")
		return
	}

	if peek := h.gateway.PeekProspects(name); !peek.HasData {
		loading := Model{Token: token, View: pipeline.Prospects(nil, signals.Query()), Message: pipeline.MsgLoadingProspects}
		if err := sse.PatchElementTempl(Section(loading)); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}

	snap := h.gateway.Prospects(r.Context(), name)
	pageCount := 1
	if snap.HasData {
		pageCount = pipeline.Prospects(snap.Data, signals.Query()).Page.PageCount
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	action := common.ParseAction(r.URL.Query().Get("action"))
	next, ok := signals.ApplyAction(action, size, pageCount)
	if !ok {
		_ = sse.ConsoleError(fmt.Errorf("unknown action %q", r.URL.Query().Get("action")))
		return
	}
	signals.TableSignals = next

	model := h.modelFromSnapshot(token, name, name, snap, signals)
	signals.TableSignals = signals.WithState(model.View.State)

	if err := sse.PatchElementTempl(Section(model)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(map[string]any{
		"sorting":    signals.Sorting,
		"pagination": signals.Pagination,
	}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ProspectsUpdates is the long-lived SSE endpoint of the prospects page.
func (h *Handlers) ProspectsUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	token := chi.URLParam(r, "token")
	name, err := identity.Decode(token)
	if err != nil {
		return
	}

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			if ev.Topic != notifier.TopicProspects || ev.Key != name {
				continue
			}
			if err := sse.PatchElementTempl(RefreshTrigger(token, int(h.seq.Add(1)))); err != nil {
				return
			}
		}
	}
}

// buildModel loads the account and its prospects.
func (h *Handlers) buildModel(ctx context.Context, token, name string, signals Signals) Model {
	title := ""
	if account := h.gateway.Account(ctx, name); account.HasData {
		title = account.Data.Name
	} else if account.Err != nil {
		h.logger.Warn("failed to load account", "account", name, "error", account.Err)
	}
	return h.modelFromSnapshot(token, name, title, h.gateway.Prospects(ctx, name), signals)
}

func (h *Handlers) modelFromSnapshot(token, name, title string, snap gateway.Snapshot[[]core.Prospect], signals Signals) Model {
	m := Model{
		Token:       token,
		AccountName: name,
		Title:       pipeline.ProspectsTitle(title),
		Refreshing:  snap.HasData && snap.Fetching,
	}
	if !snap.HasData {
		m.View = pipeline.Prospects(nil, signals.Query())
		if snap.Err != nil {
			h.logger.Warn("failed to load prospects", "account", name, "error", snap.Err)
			m.Message = gateway.Message(snap.Err)
		} else {
			m.Message = pipeline.MsgLoadingProspects
		}
		return m
	}

	m.View = pipeline.Prospects(snap.Data, signals.Query())
	if m.View.Page.Empty() {
		m.Message = m.View.EmptyMessage()
	}
	return m
}
