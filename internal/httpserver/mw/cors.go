package mw

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	"github.com/MrSnakeDoc/horizon/internal/logger"
)

// CORS allows browser clients from origins. A "*" entry allows any origin.
func CORS(origins []string, log logger.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}

	switch {
	case len(origins) == 0:
		// empty AllowedOrigins means "*" for go-chi/cors
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
		log.Debug("CORS: no origins configured, cross-origin requests denied")
	case slices.Contains(origins, "*"):
		options.AllowedOrigins = []string{"*"}
		log.Debug("CORS: any origin allowed")
	default:
		options.AllowedOrigins = origins
		log.Debug("CORS: explicit origins", logger.Strings("origins", origins))
	}

	return cors.Handler(options)
}
