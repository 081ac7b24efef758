package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SamueleCorsalini/outfit-chart/internal/adapters/http/api"
	"github.com/SamueleCorsalini/outfit-chart/internal/adapters/rowstore"
	app "github.com/SamueleCorsalini/outfit-chart/internal/app"
	"github.com/SamueleCorsalini/outfit-chart/internal/config"
	"github.com/SamueleCorsalini/outfit-chart/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := buildStore(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to open row store: " + err.Error() + "\n")
		return
	}
	log.Info(ctx, "row store ready", logger.String("backend", cfg.StoreBackend))

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithGoalScore(cfg.GoalScore),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	if cfg.AdminToken == "" {
		log.Warn(ctx, "admin_token is empty; mutating endpoints are unauthenticated")
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, cfg.AdminToken)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.RequestIDMiddleware(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", logger.Error(err))
	}
}

// buildStore constructs the configured row store backend.
func buildStore(cfg *config.Config) (rowstore.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return rowstore.NewMemoryStore(), nil
	case "sqlite":
		return rowstore.NewSQLiteStore(cfg.SQLitePath)
	default:
		return rowstore.NewCSVStore(cfg.DataDir)
	}
}
