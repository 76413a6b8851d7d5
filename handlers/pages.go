package handlers

import (
	"context"
	"net/http"

	"blog-service/database"
	"blog-service/session"
)

// PageHandler serves the pages that are not part of the auth flow.
type PageHandler struct {
	store    *database.Store
	sessions *session.Manager
}

// NewPageHandler creates a new page handler.
func NewPageHandler(store *database.Store, sessions *session.Manager) *PageHandler {
	return &PageHandler{
		store:    store,
		sessions: sessions,
	}
}

// Index handles GET / — the home page. The current user is resolved from
// the session cookie once, at the start of the request; an invalid or stale
// cookie simply renders the anonymous view.
func (h *PageHandler) Index(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := h.store.Acquire(ctx)
	if err != nil {
		serverError(ctx, w, "Failed to acquire database connection", err)
		return
	}
	defer conn.Close()

	user, err := h.sessions.LoadCurrentUser(ctx, conn, r)
	if err != nil {
		serverError(ctx, w, "Failed to load current user", err)
		return
	}

	render(w, "index.html", indexData{Title: "Home", User: user})
}

// Ping handles GET /ping — liveness probe.
func (h *PageHandler) Ping(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
