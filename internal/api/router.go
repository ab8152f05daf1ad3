package api

import (
	"net/http"

	"provider-locator-service/internal/api/handlers"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(routeHandler *handlers.RouteHandler, cors CORSPolicy) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.Rank)

	return loggingMiddleware(corsMiddleware(cors, mux))
}
