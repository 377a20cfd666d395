// Package web serves the churn assessment form and a JSON scoring API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ppiankov/churnwatch/internal/engine"
)

// SourceWeb tags assessments made through the form or the JSON API.
const SourceWeb = "web"

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Handler serves the HTTP routes.
type Handler struct {
	engine *engine.Engine
}

// NewHandler constructs an HTTP handler bound to an engine.
// /metrics serves the engine's registry and is not mounted when the engine
// has no metrics.
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{engine: eng}
}

// NewRouter registers the routes and middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/", h.index)
	r.Post("/", h.submit)
	r.Get("/healthz", h.healthz)
	if m := h.engine.Metrics(); m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", h.score)
		r.Get("/weights", h.weights)
	})
	return r
}

// Serve runs an HTTP server on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		httpLogger().Info("web server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
}
