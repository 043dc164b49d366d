package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// LoginRateLimit throttles credential attempts per client IP. In-memory
// store, so limits are per process. rateFormat uses the limiter notation,
// e.g. "10-M" for ten requests per minute.
func LoginRateLimit(rateFormat string, logger *slog.Logger) func(http.Handler) http.Handler {
	rate, err := limiter.NewRateFromFormatted(rateFormat)
	if err != nil {
		logger.Error("invalid rate limit format, rate limiting disabled", "error", err, "rate", rateFormat)
		return func(next http.Handler) http.Handler { return next }
	}

	instance := limiter.New(memory.NewStore(), rate, limiter.WithTrustForwardHeader(true))
	mw := stdlib.NewMiddleware(instance)
	return mw.Handler
}
