package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hongminglow/vault-auth/internal/auth"
	"github.com/hongminglow/vault-auth/internal/config"
	"github.com/hongminglow/vault-auth/internal/logging"
	"github.com/hongminglow/vault-auth/internal/server"
	"github.com/hongminglow/vault-auth/internal/storage"
	"github.com/hongminglow/vault-auth/internal/storage/memory"
	"github.com/hongminglow/vault-auth/internal/storage/postgres"
)

// closableStore is a UserStore that owns resources released at shutdown.
type closableStore interface {
	storage.UserStore
	Close()
}

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return err
	}
	svc, err := auth.NewService(store, hasher, tokens, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, svc, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("vault-auth listening", "addr", cfg.HTTPAddress(), "storage", cfg.StorageDriver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (closableStore, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return memory.NewUserStore(), nil
	}
	return postgres.NewUserStore(ctx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
