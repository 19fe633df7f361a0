package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/api-sage/core-ledger/internal/adapter/http/controller"
	"github.com/api-sage/core-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/internal/adapter/http/router"
	"github.com/api-sage/core-ledger/internal/adapter/repository/filestore"
	"github.com/api-sage/core-ledger/internal/adapter/repository/postgres"
	"github.com/api-sage/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/internal/config"
	"github.com/api-sage/core-ledger/internal/logger"
	"github.com/api-sage/core-ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	identityService, err := services.NewIdentityService(ctx, store)
	if err != nil {
		log.Fatalf("init identity service: %v", err)
	}

	ledgerService, err := services.NewLedgerService(ctx, store, cfg.PersistTimeout)
	if err != nil {
		log.Fatalf("init ledger service: %v", err)
	}

	reportingService := services.NewReportingService(ledgerService, identityService)

	mux := router.New(
		controller.NewUserController(identityService),
		controller.NewAccountController(ledgerService),
		controller.NewTransactionController(ledgerService),
		controller.NewReportingController(reportingService, ledgerService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("server listening", logger.Fields{
			"addr":          cfg.ListenAddr,
			"storageDriver": cfg.StorageDriver,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}

	logger.Info("server stopped", nil)
}

func openStore(ctx context.Context, cfg config.Config) (repo_interfaces.CollectionStore, error) {
	switch cfg.StorageDriver {
	case "file":
		return filestore.New(cfg.DataDir)
	case "postgres":
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return postgres.NewStore(db, cfg.DataDir), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
