package httpadapter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/hijjiri/todo-api/internal/telemetry"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigin  string
	RequestTimeout time.Duration
	ServiceName    string
}

type route struct {
	method string
	path   string
	fn     runtime.HandlerFunc
}

// NewRouter は REST API 全体の http.Handler を組み立てる。
// metrics が nil の場合は計測しない。
func NewRouter(
	uc todo_usecase.Usecase,
	metrics *telemetry.HTTPMetrics,
	logger *zap.Logger,
	cfg RouterConfig,
) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "todo-api"
	}

	h := NewTodoHandler(uc, logger)
	mux := runtime.NewServeMux(runtime.WithRoutingErrorHandler(routingErrorHandler))

	routes := []route{
		{http.MethodGet, "/test", h.Ping},
		{http.MethodGet, "/api/todos", h.ListTodos},
		{http.MethodPost, "/api/todos", h.CreateTodo},
		{http.MethodPut, "/api/todos/{id}", h.UpdateTodo},
		{http.MethodDelete, "/api/todos/{id}", h.DeleteTodo},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, instrument(metrics, rt)); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", rt.method, rt.path, err)
		}
	}

	return Chain(
		otelhttp.NewHandler(mux, cfg.ServiceName),
		NewCORSMiddleware(cfg.AllowedOrigin),
		NewRecoveryMiddleware(logger),
		NewRequestIDMiddleware(),
		NewLoggingMiddleware(logger),
		NewTimeoutMiddleware(cfg.RequestTimeout),
	), nil
}

// instrument はルートごとに Prometheus へ記録する（route ラベルはパスパターン）。
func instrument(metrics *telemetry.HTTPMetrics, rt route) runtime.HandlerFunc {
	if metrics == nil {
		return rt.fn
	}
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		start := time.Now()
		rec := newStatusRecorder(w)

		rt.fn(rec, r, pathParams)

		metrics.Observe(rt.method, rt.path, rec.status, time.Since(start))
	}
}

// 未登録パス / メソッド違いも {message} 形式で返す
func routingErrorHandler(
	_ context.Context,
	_ *runtime.ServeMux,
	_ runtime.Marshaler,
	w http.ResponseWriter,
	_ *http.Request,
	status int,
) {
	writeMessage(w, status, http.StatusText(status))
}
