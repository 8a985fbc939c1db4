package prospects

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
)

// SetupRoutes configures routes for the prospects feature.
func SetupRoutes(
	router chi.Router,
	gw *gateway.Gateway,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(gw, sessionStore, notify, logger)

	router.Route("/accounts/{token}", func(r chi.Router) {
		r.Get("/", handlers.ProspectsPage)
		r.Get("/view", handlers.ProspectsView)
		r.Get("/updates", handlers.ProspectsUpdates)
	})

	return nil
}
