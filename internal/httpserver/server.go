// internal/httpserver/server.go
//
// HTTP server wiring for the Color Trainer backend.
// Responsibilities:
//   - Router + middleware (access log, request IDs, JSON, CORS, timeouts, panic recovery).
//   - Public endpoints: "/", "/health".
//   - Color core endpoints: /color/validate, /color/score, /color/decode, /color/random.
//   - Round endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily color endpoint (optional auth): POST /daily/new.
//   - Auth endpoints: /auth/*, and the gated /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     guests are identified by an anonymous cookie instead.
//   - Errors are JSON: {"error": "<code>", "message": "<detail>"}.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortrainer/internal/config"
	"github.com/robalobadob/colortrainer/internal/store"
)

// Server bundles router, round store, DB handle, and configuration.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	cfg   config.Config
	daily *dailyServer

	// guessMu serializes the load-apply-save cycle of /game/guess.
	guessMu sync.Mutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, cfg: cfg}

	// --- middleware ---
	s.r.Use(hlog.NewHandler(log.Logger))                     // request-scoped logger
	s.r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id")) // add X-Request-Id
	s.r.Use(hlog.AccessHandler(accessLog))                   // one line per request
	s.r.Use(chimw.RealIP)                                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second))                 // bound handler time
	s.r.Use(jsonContentType)                                 // default JSON responses
	s.r.Use(s.cors)                                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "colortrainer",
			"endpoints": []string{
				"/health", "POST /color/validate", "POST /color/score", "/color/decode", "/color/random",
				"POST /game/new", "POST /game/guess", "/game/{id}", "POST /daily/new", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Pure color core; no state, no auth
	s.mountColor(s.r)

	// Rounds, optional auth (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountGame(r)
		s.mountDaily(r)
	})

	// Auth + gated routes
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

func accessLog(r *http.Request, status, size int, dur time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", dur).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- responses ---------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}
