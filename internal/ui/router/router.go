// Package router mounts the feature routes of the UI server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/jeebeez/another-signal/internal/gateway"
	accountsFeature "github.com/jeebeez/another-signal/internal/ui/features/accounts"
	"github.com/jeebeez/another-signal/internal/ui/features/common/components"
	prospectsFeature "github.com/jeebeez/another-signal/internal/ui/features/prospects"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
	"github.com/jeebeez/another-signal/internal/ui/resources"
)

// Deps are the shared dependencies handed to every feature.
type Deps struct {
	Gateway  *gateway.Gateway
	Sessions sessions.Store
	Notifier *notifier.Notifier
	Logger   *slog.Logger
	// Dev mounts the live reload endpoints.
	Dev bool
}

type feature func(chi.Router, *gateway.Gateway, sessions.Store, *notifier.Notifier, *slog.Logger) error

var features = []feature{
	accountsFeature.SetupRoutes,
	prospectsFeature.SetupRoutes,
}

// Mount registers static assets, the health check and every feature on r.
func Mount(r chi.Router, d Deps) error {
	if d.Dev {
		r.Use(components.LiveReload)
		mountReload(r)
	}
	r.Handle(resources.StaticPath("*"), resources.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, setup := range features {
		if err := setup(r, d.Gateway, d.Sessions, d.Notifier, d.Logger); err != nil {
			return err
		}
	}
	return nil
}

// mountReload wires /reload, an SSE stream that reloads the page, and /hotreload,
// which the asset watcher calls after a rebuild. The first page to connect reloads
// once so a restarted server picks up fresh assets.
func mountReload(r chi.Router) {
	trigger := make(chan struct{}, 1)
	first := make(chan struct{}, 1)
	first <- struct{}{}

	r.Get("/reload", func(w http.ResponseWriter, req *http.Request) {
		sse := datastar.NewSSE(w, req)
		select {
		case <-first:
		case <-trigger:
		case <-req.Context().Done():
			return
		}
		_ = sse.ExecuteScript("window.location.reload()")
	})

	r.Post("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case trigger <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
