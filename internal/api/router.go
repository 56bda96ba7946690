// Package api implements the versioned HTTP API handlers.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/demoapp/userapi/internal/httpd"
	"github.com/demoapp/userapi/internal/store"
)

// Handler holds all API handler state.
type Handler struct {
	store  store.Store
	logger *slog.Logger
	authmw func(http.Handler) http.Handler
}

// NewHandler creates a new API handler. authmw is the optional
// bearer-token middleware; pass nil to leave the route set open.
func NewHandler(s store.Store, logger *slog.Logger, authmw func(http.Handler) http.Handler) *Handler {
	return &Handler{store: s, logger: logger, authmw: authmw}
}

// Routes mounts the /v1 API routes. Health stays outside the auth group
// so probes work without credentials.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			if h.authmw != nil {
				r.Use(h.authmw)
			}

			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Get("/users/{id}", h.GetUser)
			r.Patch("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Get("/posts", h.ListPosts)
		})
	})
}

// serverError is the handler-level sink for unexpected store failures:
// log the cause, answer with a generic body.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	httpd.Error(w, http.StatusInternalServerError, "Internal server error")
}

// Health handles GET /v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("store unreachable", "err", err)
		httpd.Error(w, http.StatusServiceUnavailable, "Store unreachable")
		return
	}
	httpd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
