package httpadapter

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// panic を 500 {message} に変換する。1 リクエストの panic でプロセスを落とさない。
func NewRecoveryMiddleware(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}
					logger.Error("panic recovered in http handler",
						zap.Any("panic", rv),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stacktrace", debug.Stack()),
					)
					writeMessage(w, http.StatusInternalServerError, "internal error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
