// Command bookstore-api starts the bookstore REST API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/and161185/bookstore-api/internal/config"
	"github.com/and161185/bookstore-api/internal/crypto"
	"github.com/and161185/bookstore-api/internal/migrate"
	"github.com/and161185/bookstore-api/internal/repository/postgres"
	"github.com/and161185/bookstore-api/internal/server/httpapi"
	"github.com/and161185/bookstore-api/internal/service"
	"github.com/and161185/bookstore-api/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, prepares the store and serves HTTP until
// SIGINT or SIGTERM.
func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.Addr()),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCfg, err := postgres.ParseConfig(cfg.DBURL, cfg.DBName)
	if err != nil {
		logger.Fatal("parse db url", zap.Error(err))
	}

	if cfg.MigrateOnStart {
		if err := migrate.Up(ctx, poolCfg.ConnConfig, logger); err != nil {
			logger.Fatal("migrate up", zap.Error(err))
		}
	}

	// DB pool, shared by every repository
	db, err := postgres.New(ctx, poolCfg)
	if err != nil {
		logger.Fatal("db pool", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	logger.Info("connected to store", zap.String("database", poolCfg.ConnConfig.Database))

	// Repositories
	users := postgres.NewUserRepo(db)
	books := postgres.NewBookRepo(db)
	roles := postgres.NewRoleRepo(db)
	edits := postgres.NewEditRepo(db)

	// Services
	hasher := crypto.NewBcrypt(cfg.BcryptCost)
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	auditor := service.NewAuditor(edits)
	authSvc := service.NewAuthService(users, service.NewRoleResolver(roles), hasher, tokens)
	bookSvc := service.NewBookService(books, auditor)
	userSvc := service.NewUserService(users, hasher, auditor)

	api := httpapi.New(httpapi.Deps{
		Log:         logger,
		Auth:        authSvc,
		Books:       bookSvc,
		Users:       userSvc,
		Tokens:      tokens,
		Store:       db,
		Metrics:     httpapi.NewMetrics(),
		Cookie:      httpapi.CookieConfig{Secure: cfg.IsProduction(), MaxAge: tokens.TTL()},
		CORSOrigins: cfg.CORSOrigins,
		Production:  cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
