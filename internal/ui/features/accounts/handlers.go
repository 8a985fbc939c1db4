package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/magic"
	"github.com/jeebeez/another-signal/internal/pipeline"
	"github.com/jeebeez/another-signal/internal/ui/features/common"
	"github.com/jeebeez/another-signal/internal/ui/features/common/components"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
	"github.com/jeebeez/another-signal/pkg/core"
)

// Handlers provides HTTP handlers for the accounts feature.
type Handlers struct {
	gateway      *gateway.Gateway
	submitter    *magic.Submitter
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
		submitter:    magic.NewSubmitter(gw),
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
	}
}

// AccountsPage renders the full accounts page with the first table page.
func (h *Handlers) AccountsPage(w http.ResponseWriter, r *http.Request) {
	signals := DefaultSignals()
	model := h.buildModel(h.gateway.Accounts(r.Context()), signals)
	signals.TableSignals = signals.WithState(model.View.State)

	raw, err := json.Marshal(signals)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := components.Page{
		Title:   "Accounts",
		Signals: string(raw),
		Init:    "@get('" + updatesEndpoint + "')",
		Flash:   common.Flashes(h.sessionStore, w, r),
		Body:    Body(model),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Layout(page).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// AccountsView applies the requested transition and patches the table section,
// the filter bar and the table signals.
func (h *Handlers) AccountsView(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE generator.
	signals := DefaultSignals()
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()
	action := common.ParseAction(r.URL.Query().Get("action"))

	switch action.Name {
	case common.ActionFilter:
		signals.Filters = cloneOptions(signals.Draft)
		signals.FilterOpen = false
	case common.ActionReset:
		signals.Filters = map[string][]string{}
		signals.Draft = map[string][]string{}
		signals.FilterOpen = false
	}

	if peek := h.gateway.PeekAccounts(); !peek.HasData {
		loading := Model{View: pipeline.Accounts(nil, signals.Query()), Message: pipeline.MsgLoadingAccounts, Signals: signals}
		if err := sse.PatchElementTempl(Section(loading)); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}

	var snap gateway.Snapshot[[]core.Account]
	if action.Name == common.ActionRefresh && r.URL.Query().Get("force") == "1" {
		snap = h.gateway.RefreshAccounts(ctx)
	} else {
		snap = h.gateway.Accounts(ctx)
	}

	pageCount := 1
	if snap.HasData {
		pageCount = pipeline.Accounts(snap.Data, signals.Query()).Page.PageCount
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	next, ok := signals.ApplyAction(action, size, pageCount)
	if !ok {
		_ = sse.ConsoleError(fmt.Errorf("unknown action %q", r.URL.Query().Get("action")))
		return
	}
	signals.TableSignals = next

	model := h.buildModel(snap, signals)
	signals.TableSignals = signals.WithState(model.View.State)
	model.Signals = signals

	if err := sse.PatchElementTempl(Section(model)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(FilterBar(model)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(signals.patch()); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// AccountsUpdates is the long-lived SSE endpoint of the accounts page. When the
// account list changes it patches in a trigger that re-requests the view with the
// page's current signals.
func (h *Handlers) AccountsUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			if ev.Topic != notifier.TopicAccounts {
				continue
			}
			seq := int(h.seq.Add(1))
			if err := sse.PatchElementTempl(RefreshTrigger(seq)); err != nil {
				h.logger.Debug("updates stream closed", "error", err)
				return
			}
		}
	}
}

type magicSignals struct {
	Question string `json:"question"`
}

// SubmitMagic handles the magic column sheet.
func (h *Handlers) SubmitMagic(w http.ResponseWriter, r *http.Request) {
	var signals magicSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	question, err := h.submitter.Submit(r.Context(), signals.Question)
	switch {
	case errors.Is(err, magic.ErrPending):
		return
	case errors.Is(err, magic.ErrEmptyQuestion), errors.Is(err, magic.ErrTooLong):
		_ = sse.PatchElementTempl(components.Toast(err.Error(), components.ToastError))
		return
	case err != nil:
		h.logger.Warn("magic column request failed", "question", signals.Question, "error", err)
		_ = sse.PatchElementTempl(components.Toast(magic.MsgFailed, components.ToastError))
		return
	}

	h.logger.Info("magic column requested", "question", question)
	if err := sse.MarshalAndPatchSignals(map[string]any{"sheetOpen": false, "question": ""}); err != nil {
		_ = sse.ConsoleError(err)
	}
	h.notifier.Broadcast(notifier.Event{Topic: notifier.TopicAccounts})
}

// buildModel runs the pipeline over a gateway snapshot.
func (h *Handlers) buildModel(snap gateway.Snapshot[[]core.Account], signals Signals) Model {
	m := Model{Signals: signals, Refreshing: snap.HasData && snap.Fetching}
	if !snap.HasData {
		m.View = pipeline.Accounts(nil, signals.Query())
		if snap.Err != nil {
			h.logger.Warn("failed to load accounts", "error", snap.Err)
			m.Message = gateway.Message(snap.Err)
		} else {
			m.Message = pipeline.MsgLoadingAccounts
		}
		return m
	}

	m.View = pipeline.Accounts(snap.Data, signals.Query())
	if m.View.Page.Empty() {
		m.Message = m.View.EmptyMessage()
	}
	return m
}
