// Package rest exposes the bridge comparison over HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/quotemesh/bridgequote/internal/config"
	"github.com/quotemesh/bridgequote/internal/logger"
)

// NewRouter builds the HTTP router with its middleware chain.
func NewRouter(h *Handler, cfg config.ServerConfig, log logger.LoggerInterface) chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(recoverer(log))
	if cfg.ThrottleRPS > 0 {
		r.Use(throttle(rate.NewLimiter(rate.Limit(cfg.ThrottleRPS), cfg.ThrottleBurst)))
	}

	r.Post("/compare", h.Compare)
	r.Get("/status", h.Status)
	r.Get("/providers", h.Providers)
	r.Get("/health", h.Health)

	return r
}

// NewServer wraps the router in an http.Server with the configured
// timeouts.
func NewServer(r chi.Router, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

const requestIDHeader = "X-Request-Id"

// requestID tags every request with an identifier, keeping one the
// client already sent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// recoverer turns handler panics into 500s instead of dropped
// connections.
func recoverer(log logger.LoggerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "handler panic",
						"panic", rec, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// throttle applies a global token-bucket limit to inbound traffic.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", time.Second.String())
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
