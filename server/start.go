package server

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"blog-service/config"
	"blog-service/database"
	"blog-service/handlers"
	"blog-service/session"

	"github.com/google/uuid"
	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// checkAuth reports the session identity, if any, for request logging.
// Pages decide for themselves how to treat anonymous requests, so every
// route is registered with AuthType "none".
func checkAuth(sessions *session.Manager) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		userID, ok := sessions.CurrentUserID(r)
		if !ok {
			return false, httpserver.RequestAuth{}
		}
		return true, httpserver.RequestAuth{
			Type:   "session",
			Client: strconv.Itoa(userID),
			Claims: map[string]interface{}{"user_id": userID},
		}
	}
}

// withRequestID tags every response with an X-Request-Id, reusing the
// incoming one when a proxy already assigned it.
func withRequestID(next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		next(ctx, w, r)
	})
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting blog service...")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	store := database.Open(cfg.Database)
	defer store.Close()

	// Initialize session manager
	sessions := session.NewManager([]byte(cfg.SessionSecret))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, sessions)
	pageHandler := handlers.NewPageHandler(store, sessions)

	server := httpserver.New(cfg.Port, checkAuth(sessions))

	server.Register(httpserver.Route{
		Name:     "Ping",
		Method:   "GET",
		Path:     "/ping",
		AuthType: "none",
	}, withRequestID(pageHandler.Ping))

	server.Register(httpserver.Route{
		Name:     "Index",
		Method:   "GET",
		Path:     "/",
		AuthType: "none",
	}, withRequestID(pageHandler.Index))

	server.Register(httpserver.Route{
		Name:     "RegisterForm",
		Method:   "GET",
		Path:     "/auth/register",
		AuthType: "none",
	}, withRequestID(authHandler.RegisterForm))

	server.Register(httpserver.Route{
		Name:     "Register",
		Method:   "POST",
		Path:     "/auth/register",
		AuthType: "none",
	}, withRequestID(authHandler.Register))

	server.Register(httpserver.Route{
		Name:     "LoginForm",
		Method:   "GET",
		Path:     "/auth/login",
		AuthType: "none",
	}, withRequestID(authHandler.LoginForm))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/auth/login",
		AuthType: "none",
	}, withRequestID(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "GET",
		Path:     "/auth/logout",
		AuthType: "none",
	}, withRequestID(authHandler.Logout))

	logger.Info("Blog service started", zap.String("port", cfg.Port))

	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}

// InitDB creates the schema against the configured database. Intended for a
// fresh database; it recreates the user table.
func InitDB() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	store := database.Open(cfg.Database)
	defer store.Close()

	if err := store.InitSchema(context.Background()); err != nil {
		logger.Error("Error while creating schema", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database schema created")
}
