// Package ui serves the accounts web UI.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/jeebeez/another-signal/internal/gateway"
	"github.com/jeebeez/another-signal/internal/ui/notifier"
	"github.com/jeebeez/another-signal/internal/ui/router"
)

// Server is the web UI server.
type Server struct {
	gateway      *gateway.Gateway
	sessionStore *sessions.CookieStore
	host         string
	port         int
	dev          bool
	refresh      time.Duration
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Gateway       *gateway.Gateway
	Notifier      *notifier.Notifier
	Host          string
	Port          int
	Dev           bool
	SessionSecret string
	// RefreshInterval, when positive, invalidates the account list periodically so
	// open pages pick up backend changes.
	RefreshInterval time.Duration
	Logger          *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(3600)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	// The server listens on plain http; a Secure cookie would never come back.
	sessionStore.Options.Secure = false
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	notify := cfg.Notifier
	if notify == nil {
		notify = notifier.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		gateway:      cfg.Gateway,
		sessionStore: sessionStore,
		host:         cfg.Host,
		port:         cfg.Port,
		dev:          cfg.Dev,
		refresh:      cfg.RefreshInterval,
		logger:       logger,
		notifier:     notify,
	}
}

// Handler builds the router with middleware and all feature routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.Mount(r, router.Deps{
		Gateway:  s.gateway,
		Sessions: s.sessionStore,
		Notifier: s.notifier,
		Logger:   s.logger,
		Dev:      s.dev,
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.host, fmt.Sprint(s.port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.serve(ctx, ln, handler)
}

func (s *Server) serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	s.logger.Info("starting UI server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.refresh > 0 {
		eg.Go(func() error {
			return s.refreshLoop(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	err := eg.Wait()
	s.gateway.Wait()
	return err
}

// refreshLoop marks the account list stale on every tick and tells open pages to
// re-request their view, which serves stale data and revalidates in the background.
func (s *Server) refreshLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.notifier.Listeners() == 0 {
				continue
			}
			s.gateway.Invalidate(gateway.KeyAccounts)
			s.logger.Debug("account list invalidated", "listeners", s.notifier.Listeners())
			s.notifier.Broadcast(notifier.Event{Topic: notifier.TopicAccounts})
		}
	}
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}
