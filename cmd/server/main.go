package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ministry-site/core/internal/app"
	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/pkg/logger"
	"github.com/ministry-site/core/internal/pkg/proctitle"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (default "+config.DefaultConfigPath+" when present)")
	envFile := flag.String("env-file", config.DefaultEnvFile, "Path to dotenv file")
	flag.Parse()

	bootLog, _ := zap.NewProduction()
	if err := config.LoadDotEnv(*envFile); err != nil {
		bootLog.Fatal("failed to load env file", zap.Error(err))
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog.Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(logger.Options{Development: cfg.IsDev(), Dir: cfg.LogDir})
	if err != nil {
		log = bootLog
		log.Warn("log directory unavailable, logging to stdout only", zap.String("dir", cfg.LogDir), zap.Error(err))
	}
	defer log.Sync()

	if err := proctitle.Set(proctitle.Title("ministry", "api")); err != nil {
		log.Debug("set process title failed", zap.Error(err))
	}

	application, err := app.New(log, cfg)
	if err != nil {
		log.Fatal("failed to initialize app", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	application.Shutdown()
	log.Info("server exited")
}
