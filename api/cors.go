package api

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// WithCORS lets browsers on the given origins call h with credentials.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Accept", "Origin", "X-Requested-With"}),
		handlers.AllowCredentials(),
		handlers.MaxAge(600),
	)(h)
}
