package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"blog-service/database"
	"blog-service/handlers"
	"blog-service/security"
	"blog-service/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/logger"

	_ "github.com/mattn/go-sqlite3"
)

// Hash produced by the original application for the password "test".
const seededHash = "scrypt:32768:8:1$B6EWUB7sblZHpKwE$74951791e0ebcdcf91999e0e4c3e7768fcb87f994c35de0d80e99d83ec36e9f542b76c4d486c57ced5cea72fd76c3f5a64b0a2c31a89a02e3a86a52a6f52fb1c"

func TestMain(m *testing.M) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
	os.Exit(m.Run())
}

type testApp struct {
	store    *database.Store
	sessions *session.Manager
	auth     *handlers.AuthHandler
	pages    *handlers.PageHandler
}

func newTestApp(t *testing.T) *testApp {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	store := database.Open(dsn)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema(context.Background()))

	sessions := session.NewManager([]byte("test-secret"))
	return &testApp{
		store:    store,
		sessions: sessions,
		auth:     handlers.NewAuthHandler(store, sessions),
		pages:    handlers.NewPageHandler(store, sessions),
	}
}

type handlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request)

func get(handler handlerFunc, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler(context.Background(), w, r)
	return w
}

func postForm(handler handlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler(context.Background(), w, r)
	return w
}

func credentials(username, password string) url.Values {
	return url.Values{
		"username": {username},
		"password": {password},
	}
}

// seedUser inserts a user directly into the store, bypassing the handlers.
func (a *testApp) seedUser(t *testing.T, username, passwordHash string) int {
	ctx := context.Background()
	conn, err := a.store.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Close()

	user, err := conn.InsertUser(ctx, username, passwordHash)
	require.NoError(t, err)
	return user.ID
}

func (a *testApp) findUser(t *testing.T, username string) *databaseUser {
	ctx := context.Background()
	conn, err := a.store.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Close()

	user, err := conn.FindUserByUsername(ctx, username)
	require.NoError(t, err)
	if user == nil {
		return nil
	}
	return &databaseUser{ID: user.ID, Password: user.Password}
}

type databaseUser struct {
	ID       int
	Password string
}

func TestRegisterFormRenders(t *testing.T) {
	app := newTestApp(t)

	w := get(app.auth.RegisterForm, "/auth/register")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<form")
}

func TestRegisterCreatesUser(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.auth.Register, "/auth/register", credentials("a", "a"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))

	user := app.findUser(t, "a")
	require.NotNil(t, user)
	assert.NotEqual(t, "a", user.Password, "plaintext must never be stored")
	assert.True(t, security.CheckPassword("a", user.Password))
}

func TestRegisterMissingUsername(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.auth.Register, "/auth/register", credentials("", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username is required.")
}

func TestRegisterMissingPassword(t *testing.T) {
	app := newTestApp(t)

	w := postForm(app.auth.Register, "/auth/register", credentials("test", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password is required.")
	assert.Nil(t, app.findUser(t, "test"), "no row is inserted on validation failure")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newTestApp(t)

	first := postForm(app.auth.Register, "/auth/register", credentials("test", "a"))
	require.Equal(t, http.StatusFound, first.Code)

	second := postForm(app.auth.Register, "/auth/register", credentials("test", "b"))

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "User test is already registered.")

	user := app.findUser(t, "test")
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ID, "the first registration's row survives alone")
	assert.True(t, security.CheckPassword("a", user.Password))
}

func TestLoginFormRenders(t *testing.T) {
	app := newTestApp(t)

	w := get(app.auth.LoginForm, "/auth/login")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<form")
}

func TestLoginEstablishesSession(t *testing.T) {
	app := newTestApp(t)
	userID := app.seedUser(t, "test", seededHash)
	require.Equal(t, 1, userID)

	w := postForm(app.auth.Login, "/auth/login", credentials("test", "test"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "login must set the session cookie")

	// The cookie resolves back to the logged-in user.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	id, ok := app.sessions.CurrentUserID(r)
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	home := get(app.pages.Index, "/", cookies...)
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "test")
	assert.Contains(t, home.Body.String(), "Log Out")
}

func TestLoginValidateInput(t *testing.T) {
	cases := []struct {
		username string
		password string
		message  string
	}{
		{"a", "test", "Incorrect username."},
		{"test", "a", "Incorrect password."},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			app := newTestApp(t)
			app.seedUser(t, "test", seededHash)

			w := postForm(app.auth.Login, "/auth/login", credentials(tc.username, tc.password))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "test", seededHash)

	login := postForm(app.auth.Login, "/auth/login", credentials("test", "test"))
	require.Equal(t, http.StatusFound, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	logout := get(app.auth.Logout, "/auth/logout", cookies...)
	assert.Equal(t, http.StatusFound, logout.Code)
	assert.Equal(t, "/", logout.Header().Get("Location"))

	cleared := logout.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestIndexAnonymous(t *testing.T) {
	app := newTestApp(t)

	w := get(app.pages.Index, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Register")
	assert.Contains(t, w.Body.String(), "Log In")
}

func TestPing(t *testing.T) {
	app := newTestApp(t)

	w := get(app.pages.Ping, "/ping")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
