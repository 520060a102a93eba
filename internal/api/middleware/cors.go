package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// DefaultAllowedOrigins is the front end's development server
var DefaultAllowedOrigins = []string{"http://localhost:3000"}

// CORS wraps a handler so browsers on the allowed origins may call the API.
// It must wrap the whole router so that preflight requests are answered.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler
}
