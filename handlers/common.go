package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs a request-scoped message with the route details pulled
// from the httpserver context.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// serverError terminates the request with a generic 500. Storage failures
// and other unexpected errors land here; validation problems never do.
func serverError(ctx context.Context, w http.ResponseWriter, message string, err error) {
	logRequest(ctx, "error", message, zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
