package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/usecase/lock"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/authz"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/config"
)

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.logger.Flush() }()

		return a.serve(cmd.Context())
	},
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := a.openStorage(ctx, a.cfg.Database.AutoMigrate)
	if err != nil {
		a.logger.Error("Failed to open storage", map[string]any{"error": err.Error()})
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Error("Failed to close storage", map[string]any{"error": err.Error()})
		}
	}()

	escrow, err := entity.ParseAccount(a.cfg.Ledger.EscrowAccount)
	if err != nil {
		return fmt.Errorf("ledger.escrowAccount: %w", err)
	}
	authorizer, err := authz.NewStaticAuthorizer(a.cfg.Ledger.AuthorizedCallers)
	if err != nil {
		return err
	}
	if authorizer.Size() == 0 {
		a.logger.Warn("No authorized callers configured, every mutating request will be rejected", nil)
	}

	recorder, prom := a.newMetrics(store)

	ledger := lock.NewLedger(store.uow, authorizer, a.timeProvider, a.logger, recorder, lock.Config{
		EscrowAccount: escrow,
		MaxBatchSize:  a.cfg.Ledger.MaxBatchSize,
	})

	router := gin.New()
	routes.SetupMiddlewares(router, a.logger, a.timeProvider)

	handlers := routes.Handlers{
		Lock:    handler.NewLockHandler(ledger, a.logger),
		Account: handler.NewAccountHandler(ledger, a.logger),
	}
	if prom != nil {
		handlers.Metrics = prom.Handler()
		handlers.MetricsPath = a.cfg.Metrics.Path
	}
	routes.SetupRoutes(router, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting server", map[string]any{
			"addr":    server.Addr,
			"env":     a.cfg.Environment,
			"driver":  a.cfg.Database.Driver,
			"escrow":  escrow.Hex(),
			"metrics": prom != nil,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("Server stopped with error", map[string]any{"error": err.Error()})
		return err
	}

	a.logger.Info("Server exited gracefully", nil)
	return nil
}
