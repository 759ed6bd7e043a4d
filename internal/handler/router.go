package handler

import (
	"log/slog"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires the client and health routes behind the middleware chain.
// Middleware runs in order: request id, access log, deadline.
func NewRouter(logger *slog.Logger, requestTimeout time.Duration, clients *ClientHandler, health *HealthHandler) *mux.Router {
	router := mux.NewRouter()

	clients.RegisterRoutes(router)
	health.RegisterRoutes(router)

	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(DeadlineMiddleware(requestTimeout))

	return router
}
