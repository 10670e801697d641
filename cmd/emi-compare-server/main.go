package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/emi-compare/internal/config"
	"github.com/iwvelando/emi-compare/internal/logging"
	"github.com/iwvelando/emi-compare/internal/server"
	"github.com/iwvelando/emi-compare/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env file is not an error.
	envErr := godotenv.Load()
	if envErr != nil && errors.Is(envErr, fs.ErrNotExist) {
		envErr = nil
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid server environment\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	level := *logLevel
	if level == "" {
		level = strings.TrimSpace(os.Getenv(config.EnvPrefix + "_LOG_LEVEL"))
	}

	logger, err := logging.New(cfg.Logging, level)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if envErr != nil {
		logger.Warn("failed to load .env file",
			zap.String("op", "main"),
			zap.Error(envErr),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.Options(version)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
			zap.Int64("max_upload_size", cfg.UploadSizeBytes()),
			zap.Float64("rate_limit", cfg.RateLimit),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received",
			zap.String("op", "main"),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
