package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// DefaultPrefix is the path prefix of every API route.
const DefaultPrefix = "/api"

// Config holds configuration for the reference backend.
type Config struct {
	Store     *Store
	Generator Generator
	Host      string
	Port      int
	// Prefix is mounted in front of every route. Defaults to DefaultPrefix.
	Prefix string
	// FixturePath is reloaded into the store when it changes and Watch is set.
	FixturePath string
	Watch       bool
	// Latency delays every response, to exercise client loading states.
	Latency time.Duration
	Logger  *slog.Logger
}

// Server serves the accounts API from a Store.
type Server struct {
	store       *Store
	gen         Generator
	host        string
	port        int
	prefix      string
	fixturePath string
	watch       bool
	latency     time.Duration
	logger      *slog.Logger
}

// NewServer creates a reference backend server.
func NewServer(cfg Config) *Server {
	gen := cfg.Generator
	if gen == nil {
		gen = KeywordGenerator{}
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		store:       cfg.Store,
		gen:         gen,
		host:        cfg.Host,
		port:        cfg.Port,
		prefix:      "/" + strings.Trim(prefix, "/"),
		fixturePath: cfg.FixturePath,
		watch:       cfg.Watch,
		latency:     cfg.Latency,
		logger:      logger,
	}
}

// errorBody is the JSON error shape clients read the message from.
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Handler builds the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	if s.latency > 0 {
		r.Use(s.delay)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route(s.prefix, func(r chi.Router) {
		r.Get("/accounts/all", s.listAccounts)
		r.Get("/accounts/{companyName}", s.getAccount)
		r.Get("/prospects/{companyName}", s.listProspects)
		r.Post("/magic/generate", s.generateMagic)
	})
	return r
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.GetAccount(r.Context(), companyName(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) listProspects(w http.ResponseWriter, r *http.Request) {
	prospects, err := s.store.ListProspects(r.Context(), companyName(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prospects)
}

// companyName reads the route parameter. chi matches on the raw path when the
// request carries escapes the default encoding would not produce, such as %2F.
func companyName(r *http.Request) string {
	name := chi.URLParam(r, "companyName")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

type generateRequest struct {
	Question string `json:"question"`
}

func (s *Server) generateMagic(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := s.store.AddMagicColumn(r.Context(), req.Question, s.gen)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("magic column generated", "question", strings.TrimSpace(req.Question), "answers", n)
	writeJSON(w, http.StatusOK, true)
}

// fail maps store errors onto API error responses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrBlankQuestion):
		writeError(w, http.StatusUnprocessableEntity, "Question is required")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(s.latency):
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Status: status, Message: message})
}

// Serve starts the backend and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(s.host, fmt.Sprint(s.port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting reference backend", "addr", "http://"+ln.Addr().String()+s.prefix)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.fixturePath != "" {
		eg.Go(func() error {
			return s.Watch(egctx)
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

		s.logger.Debug("shutting down reference backend...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
