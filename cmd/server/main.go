package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/imtiaz478/Sellora-full/internal/auth"
	"github.com/imtiaz478/Sellora-full/internal/config"
	"github.com/imtiaz478/Sellora-full/internal/logger"
	"github.com/imtiaz478/Sellora-full/internal/server"
	"github.com/imtiaz478/Sellora-full/internal/storage/database"
	"github.com/imtiaz478/Sellora-full/internal/storage/redisstore"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code once deferred cleanup has finished.
func run() int {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		return 1
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if envErr != nil {
		log.Info("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("init database", "error", err)
		return 1
	}
	defer store.Close()

	var revoker auth.Revoker
	if cfg.RedisURL != "" {
		redisRevoker, err := redisstore.NewRevoker(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("init redis", "error", err)
			return 1
		}
		defer redisRevoker.Close()
		revoker = redisRevoker
	} else {
		log.Warn("REDIS_URL not set; logout will not revoke issued tokens")
	}

	srv := server.New(cfg, store, revoker, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Sellora backend listening", "addr", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case err := <-serveErr:
		log.Error("http server error", "error", err)
		return 1
	case <-sigCh:
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("graceful shutdown error", "error", err)
	}
	log.Info("server stopped")
	return 0
}
