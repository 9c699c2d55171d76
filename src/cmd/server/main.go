package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/atomic-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atomic-ledger/src/internal/config"
	"github.com/api-sage/atomic-ledger/src/internal/domain"
	"github.com/api-sage/atomic-ledger/src/internal/logger"
	"github.com/api-sage/atomic-ledger/src/internal/usecase/services"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("server stopped with error", err, nil)
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("server stopped", nil)
}

func run(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	accounts := services.NewAccountService(store, bcrypt.DefaultCost)
	ledger := services.NewLedgerService(store)
	history := services.NewHistoryService(store)

	if err := seedAccounts(ctx, accounts, cfg.SeedAccounts); err != nil {
		return err
	}

	mux := router.New(
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		middleware.AccountAuth(accounts),
		controller.NewAccountController(accounts),
		controller.NewLedgerController(ledger),
		controller.NewHistoryController(history),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", logger.Fields{
			"addr":  cfg.HTTPAddr,
			"store": storeKind(cfg),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("http server shutting down", logger.Fields{"timeout": cfg.ShutdownTimeout.String()})

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (repo_interfaces.LedgerStore, func(), error) {
	if !cfg.UsesPostgres() {
		return memory.NewLedgerStore(), func() {}, nil
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := postgres.Open(openCtx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	if err := postgres.RunMigrations(openCtx, db, cfg.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("initial migrations completed successfully", nil)

	return postgres.NewLedgerStore(db), closeDB(db), nil
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("close database failed", err, nil)
		}
	}
}

func seedAccounts(ctx context.Context, accounts *services.AccountService, seeds []config.SeedAccount) error {
	for _, seed := range seeds {
		_, err := accounts.SeedAccount(ctx, seed.DisplayName, seed.Password, seed.Balance)
		switch {
		case err == nil:
			logger.Info("seed account created", logger.Fields{"displayName": seed.DisplayName})
		case errors.Is(err, domain.ErrDuplicateAccount):
			logger.Info("seed account already exists", logger.Fields{"displayName": seed.DisplayName})
		default:
			return fmt.Errorf("seed account %q: %w", seed.DisplayName, err)
		}
	}
	return nil
}

func storeKind(cfg config.Config) string {
	if cfg.UsesPostgres() {
		return "postgres"
	}
	return "memory"
}
