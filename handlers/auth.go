package handlers

import (
	"context"
	"errors"
	"net/http"

	"blog-service/auth"
	"blog-service/database"
	"blog-service/session"

	"go.uber.org/zap"
)

// AuthHandler serves the registration, login and logout flows.
type AuthHandler struct {
	store    *database.Store
	sessions *session.Manager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(store *database.Store, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		store:    store,
		sessions: sessions,
	}
}

// RegisterForm handles GET /auth/register.
func (h *AuthHandler) RegisterForm(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	render(w, "register.html", formData{Title: "Register"})
}

// Register handles POST /auth/register: validate, hash, insert, then
// redirect to the login page. Validation failures re-render the form.
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	conn, err := h.store.Acquire(ctx)
	if err != nil {
		serverError(ctx, w, "Failed to acquire database connection", err)
		return
	}
	defer conn.Close()

	_, err = auth.Register(ctx, conn, username, password)
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		logRequest(ctx, "info", "Registration rejected", zap.String("reason", verr.Message))
		render(w, "register.html", formData{Title: "Register", Error: verr.Message, Username: username})
		return
	}
	if err != nil {
		serverError(ctx, w, "Failed to register user", err)
		return
	}

	logRequest(ctx, "info", "User registered", zap.String("username", username))
	http.Redirect(w, r, "/auth/login", http.StatusFound)
}

// LoginForm handles GET /auth/login.
func (h *AuthHandler) LoginForm(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	render(w, "login.html", formData{Title: "Log In"})
}

// Login handles POST /auth/login: look the user up, verify the password,
// establish the session and redirect home.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	conn, err := h.store.Acquire(ctx)
	if err != nil {
		serverError(ctx, w, "Failed to acquire database connection", err)
		return
	}
	defer conn.Close()

	user, err := auth.Login(ctx, conn, username, password)
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		logRequest(ctx, "info", "Login rejected", zap.String("reason", verr.Message))
		render(w, "login.html", formData{Title: "Log In", Error: verr.Message, Username: username})
		return
	}
	if err != nil {
		serverError(ctx, w, "Failed to log user in", err)
		return
	}

	if err := h.sessions.Establish(w, r, user.ID); err != nil {
		serverError(ctx, w, "Failed to establish session", err)
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int("user_id", user.ID))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles GET /auth/logout: clear the session, back to the home page.
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		serverError(ctx, w, "Failed to clear session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
