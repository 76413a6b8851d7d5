// Package session issues and reads the signed cookie that identifies the
// authenticated user. The cookie carries a single value, the user id; it is
// tamper-evident (HMAC-signed) and anything that fails verification is
// treated as an anonymous request.
package session

import (
	"context"
	"net/http"

	"blog-service/database"
	"blog-service/models"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "session"
	userIDKey  = "user_id"

	// Cookie lifetime, 24h.
	maxAge = 86400
)

// Manager wraps a CookieStore configured with the application secret.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a session manager signing cookies with secret.
func NewManager(secret []byte) *Manager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(maxAge)
	return &Manager{store: store}
}

// Establish resets the session and records the user id, sending a signed
// cookie with the response. Call before writing the response status.
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, userID int) error {
	session, _ := m.store.Get(r, cookieName)
	for key := range session.Values {
		delete(session.Values, key)
	}
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

// Clear invalidates the session, expiring the cookie on the client.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, cookieName)
	for key := range session.Values {
		delete(session.Values, key)
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// CurrentUserID extracts the user id from the request's session cookie.
// A missing, unsigned or malformed cookie reads as anonymous (ok=false);
// it is never surfaced as an error.
func (m *Manager) CurrentUserID(r *http.Request) (int, bool) {
	session, err := m.store.Get(r, cookieName)
	if err != nil {
		return 0, false
	}
	value, ok := session.Values[userIDKey]
	if !ok {
		return 0, false
	}
	id, ok := value.(int)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// LoadCurrentUser resolves the session cookie to a User through the store.
// It returns nil for anonymous requests, including sessions whose user row
// no longer exists; only storage failures return an error.
func (m *Manager) LoadCurrentUser(ctx context.Context, conn *database.Conn, r *http.Request) (*models.User, error) {
	id, ok := m.CurrentUserID(r)
	if !ok {
		return nil, nil
	}
	return conn.FindUserByID(ctx, id)
}
