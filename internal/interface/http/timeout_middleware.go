package httpadapter

import (
	"context"
	"net/http"
	"time"
)

// NewTimeoutMiddleware は、各リクエストの ctx にタイムアウトを付与する。
// - timeout <= 0 の場合は何もしない（デフォルト）
// - 既に ctx に deadline がある場合は「より短い方」を優先
//
// ctx deadline は usecase / repository まで伝播し、ストアへの呼び出しを切る。
// レスポンスへの変換は toHTTPError 側（ストアのエラーとして 500）。
func NewTimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if dl, ok := r.Context().Deadline(); ok && time.Until(dl) <= timeout {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
