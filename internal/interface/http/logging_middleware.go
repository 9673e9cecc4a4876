package httpadapter

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewLoggingMiddleware logs HTTP requests with method, path, status, duration and request_id(あれば).
func NewLoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			duration := time.Since(start)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", duration),
			}
			if rid, ok := RequestIDFromContext(r.Context()); ok && rid != "" {
				fields = append(fields, zap.String("request_id", rid))
			}

			// 5xx の詳細はハンドラ側で Error を出すので、ここは Warn に留める
			if rec.status >= http.StatusInternalServerError {
				logger.Warn("HTTP request", fields...)
			} else {
				logger.Info("HTTP request", fields...)
			}
		})
	}
}
