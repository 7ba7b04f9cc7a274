package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// post slugs come from blog.json as written, so the segment after these
// stays untouched
var caseSensitiveParents = map[string]bool{
	"p":     true,
	"b":     true,
	"posts": true,
}

// CaseSensitiveMiddleware is a middleware that makes all URL paths lowercase to ensure case insensitivity.
// Preserves case for post slugs in /p/{slug}, /b/{slug} and /api/posts/{slug}
func CaseSensitiveMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		for i, part := range parts {
			if i > 0 && caseSensitiveParents[strings.ToLower(parts[i-1])] {
				continue
			}
			parts[i] = strings.ToLower(part)
		}
		r.URL.Path = strings.Join(parts, "/")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs each request once it completes, at a level picked from
// the status code.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			}

			switch {
			case status >= 500:
				logger.Error("request completed with error", fields...)
			case status >= 400:
				logger.Warn("request completed with warning", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}
