package mw

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/utils"
)

// RateLimit limits each client IP to perMin requests per minute.
// perMin <= 0 disables limiting.
func RateLimit(perMin int, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	if perMin <= 0 {
		log.Debug("RateLimit: disabled")
		return func(next http.Handler) http.Handler { return next }
	}

	keyByClient := func(r *http.Request) (string, error) {
		return utils.ClientIP(r, trustProxy), nil
	}

	return httprate.Limit(
		perMin,
		time.Minute,
		httprate.WithKeyFuncs(keyByClient),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("rate limit exceeded",
				logger.String("path", r.URL.Path),
				logger.String("client_ip", utils.ClientIP(r, trustProxy)))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(60))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
		}),
	)
}
