package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hijjiri/todo-api/internal/config"
	mongorepo "github.com/hijjiri/todo-api/internal/infrastructure/mongodb"
	httpadapter "github.com/hijjiri/todo-api/internal/interface/http"
	"github.com/hijjiri/todo-api/internal/telemetry"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "todo-server",
		Short:         "REST API for todo items backed by MongoDB",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (yaml)")

	return cmd
}

func run(ctx context.Context, configPath string) error {
	// ---- Logger ----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	// ---- Config 読み込み ----
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	logger.Info("loaded config",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.String("mongodb_database", cfg.Mongo.Database),
		zap.String("mongodb_collection", cfg.Mongo.Collection),
		zap.Duration("mongodb_connect_timeout", cfg.Mongo.ConnectTimeout),
		zap.Duration("request_timeout", cfg.RequestTimeout),
		zap.Bool("tracing_enabled", cfg.Tracing.Enabled),
	)

	// ---- Tracing ----
	shutdownTracing, err := telemetry.SetupTracing(telemetry.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	}, os.Stdout, logger)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	// ---- DB 接続 ----
	// ストアが無いと何もできないので、失敗したらそのまま終了する（リトライしない）
	mongoClient, err := mongorepo.Connect(ctx, mongorepo.Options{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		Collection:     cfg.Mongo.Collection,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect MongoDB", zap.Error(err))
	}

	// ---- Todo Service ----
	uc := todo_usecase.New(mongoClient.TodoRepository(), logger)

	metrics := telemetry.NewHTTPMetrics(prometheus.DefaultRegisterer)
	handler, err := httpadapter.NewRouter(uc, metrics, logger, httpadapter.RouterConfig{
		AllowedOrigin:  cfg.CORSAllowedOrigin,
		RequestTimeout: cfg.RequestTimeout,
		ServiceName:    cfg.Tracing.ServiceName,
	})
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	// ---- metrics HTTP サーバ (/metrics) ----
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.Handler(prometheus.DefaultGatherer))

		logger.Info("metrics server started", zap.String("addr", cfg.MetricsAddr))

		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	// ---- REST API サーバ ----
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server is starting", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server exited with error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer provider", zap.Error(err))
	}
	return nil
}
