package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/mygroup/mygroup-backend/pkg/config"
)

// TokenHeader echoes the session token on login and registration responses.
const TokenHeader = "X-MG-Token"

// CORS lets the configured web origins call the API and read the token and
// request id headers.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TokenHeader, requestIDHeader},
		ExposedHeaders:   []string{TokenHeader, requestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
