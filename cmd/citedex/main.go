package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/citedex/internal/config"
	"github.com/kailas-cloud/citedex/internal/library"
	libFile "github.com/kailas-cloud/citedex/internal/library/file"
	libRedis "github.com/kailas-cloud/citedex/internal/library/redis"
	logpkg "github.com/kailas-cloud/citedex/internal/logger"
	"github.com/kailas-cloud/citedex/internal/metrics"
	"github.com/kailas-cloud/citedex/internal/repository/snapshot"
	"github.com/kailas-cloud/citedex/internal/styles"
	chiTransport "github.com/kailas-cloud/citedex/internal/transport/chi"
	citationuc "github.com/kailas-cloud/citedex/internal/usecase/citation"
	healthuc "github.com/kailas-cloud/citedex/internal/usecase/health"
	renderuc "github.com/kailas-cloud/citedex/internal/usecase/render"
	resolveuc "github.com/kailas-cloud/citedex/internal/usecase/resolve"
	searchuc "github.com/kailas-cloud/citedex/internal/usecase/search"
	"github.com/kailas-cloud/citedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting citedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("library_driver", cfg.Library.Driver),
	)

	// Create library store based on driver
	var store library.Store
	switch cfg.Library.Driver {
	case "file":
		store, err = libFile.NewStore(cfg.Library.Path, logger)
	case "redis":
		var redisStore *libRedis.Store
		redisStore, err = libRedis.NewStore(libRedis.Config{
			Addrs:     cfg.Library.Addrs,
			Password:  cfg.Library.Password,
			KeyPrefix: cfg.Library.KeyPrefix,
		})
		if err == nil {
			readiness := time.Duration(cfg.Library.ReadinessTimeout) * time.Second
			if err = redisStore.WaitForReady(context.Background(), readiness); err == nil {
				store = redisStore
			}
		}
	default:
		logger.Fatal("Unknown library driver", zap.String("driver", cfg.Library.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create library store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Library store ready")

	// Register snapshot metrics explicitly (no init())
	metrics.RegisterSnapshotMetrics()

	// Snapshot provider over the store — every request resolves against one
	// immutable snapshot.
	snapshots := snapshot.NewProvider(store, logger)

	// Built-in author-date style processor; the usecases only see the
	// StyleProcessor seam, so a CSL engine can be swapped in here.
	styleProc := styles.NewAuthorDate()

	// Create use case services
	resolver := resolveuc.New(snapshots)
	renderer, err := renderuc.New(styleProc, cfg.Citation.DefaultStyle)
	if err != nil {
		logger.Fatal("Failed to create renderer", zap.Error(err))
	}
	citations := citationuc.New(resolver, styleProc, cfg.Citation.DefaultStyle)
	searchSvc := searchuc.New(snapshots, cfg.Search.MaxResults)
	healthSvc := healthuc.New(store, newSnapshotHealthChecker(snapshots))

	// Create chi server
	server := chiTransport.NewServer(resolver, renderer, citations, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// snapshotHealthChecker wraps the snapshot provider to implement health.SnapshotChecker.
type snapshotHealthChecker struct {
	snapshots *snapshot.Provider
}

func newSnapshotHealthChecker(snapshots *snapshot.Provider) *snapshotHealthChecker {
	return &snapshotHealthChecker{snapshots: snapshots}
}

func (h *snapshotHealthChecker) HealthCheck(ctx context.Context) error {
	if _, err := h.snapshots.Acquire(ctx); err != nil {
		return fmt.Errorf("snapshot health check: %w", err)
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
