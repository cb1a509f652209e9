package router

import (
	"net/http"

	"nursery/internal/handler"
	"nursery/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	plantHandler *handler.PlantHandler,
	allowedOrigins []string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /plants", plantHandler.List)
	mux.HandleFunc("POST /plants", plantHandler.Create)
	mux.HandleFunc("GET /plants/{id}", plantHandler.Get)
	mux.HandleFunc("PATCH /plants/{id}", plantHandler.Update)
	mux.HandleFunc("DELETE /plants/{id}", plantHandler.Delete)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
