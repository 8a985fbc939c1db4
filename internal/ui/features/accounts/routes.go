package accounts

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
)

// SetupRoutes configures routes for the accounts feature.
func SetupRoutes(
	router chi.Router,
	gw *gateway.Gateway,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(gw, sessionStore, notify, logger)

	router.Get("/", handlers.AccountsPage)
	router.Get(viewEndpoint, handlers.AccountsView)
	router.Get(updatesEndpoint, handlers.AccountsUpdates)
	router.Post(magicEndpoint, handlers.SubmitMagic)

	return nil
}
