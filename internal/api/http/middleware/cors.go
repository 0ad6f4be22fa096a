package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS настраивает CORS по списку origin через запятую.
// maxAge в секундах, 0 означает 24 часа.
func CORS(next http.Handler, allowedOrigins string, maxAge int) http.Handler {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	if maxAge == 0 {
		maxAge = 86400
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Requested-With",
			RequestIDHeader,
		},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})

	return c.Handler(next)
}
