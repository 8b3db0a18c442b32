package handlers

import (
	"net/http"
	"time"

	"followerscope/internal/logger"
	"followerscope/internal/security"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(limiter *security.RateLimiter) *Middleware {
	return &Middleware{limiter: limiter}
}

// RateLimit rejects requests from IPs that exceed the per-IP budget.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			logger.Log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
