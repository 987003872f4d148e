package middleware

import (
	"net/http"

	"fabric-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS allows the configured origins. Credentials are only allowed when
// origins are listed explicitly since browsers reject them with a wildcard.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			allowCredentials = false
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
