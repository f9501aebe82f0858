package main

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/metrics"
	timeprovider "github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/config"
)

// app holds the process-wide dependencies shared by the commands
type app struct {
	cfg          *config.Config
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// newApp loads and validates the configuration and builds the logger
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	opts := logger.Options{
		Production: cfg.Environment == config.Production || cfg.Logger.Format == "json",
		Level:      cfg.Logger.Level,
	}
	if cfg.Logger.Output != "" {
		opts.Outputs = []string{cfg.Logger.Output}
	}
	appLogger, err := logger.NewZapLogger(opts)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:          cfg,
		logger:       appLogger,
		timeProvider: timeprovider.NewRealTimeProvider(),
	}, nil
}

// storage is the persistence backend selected by database.driver
type storage struct {
	uow     persistence.UnitOfWork
	manager *database.Manager // nil for the memory driver
}

// Close releases the database connection, if any
func (s *storage) Close() error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Close()
}

// genesisBalances parses the configured genesis balances
func (a *app) genesisBalances() (map[entity.Account]*entity.Amount, error) {
	balances := make(map[entity.Account]*entity.Amount, len(a.cfg.Genesis.Balances))
	for raw, value := range a.cfg.Genesis.Balances {
		account, err := entity.ParseAccount(raw)
		if err != nil {
			return nil, fmt.Errorf("genesis balance: %w", err)
		}
		amount, err := entity.ParseAmount(value)
		if err != nil {
			return nil, fmt.Errorf("genesis balance for %s: %w", account.Hex(), err)
		}
		balances[account] = amount
	}
	return balances, nil
}

// openStorage connects the configured backend and, when allowed, migrates it
func (a *app) openStorage(ctx context.Context, migrate bool) (*storage, error) {
	genesis, err := a.genesisBalances()
	if err != nil {
		return nil, err
	}

	if a.cfg.Database.Driver == database.DriverMemory {
		store := memory.NewStore(a.logger)
		accounts := make([]entity.Account, 0, len(genesis))
		for account := range genesis {
			accounts = append(accounts, account)
		}
		slices.SortFunc(accounts, func(x, y entity.Account) int {
			return bytes.Compare(x[:], y[:])
		})
		for _, account := range accounts {
			if err := store.Credit(ctx, account, genesis[account]); err != nil {
				return nil, fmt.Errorf("failed to credit genesis balance: %w", err)
			}
		}
		a.logger.Warn("Using in-memory storage, state is lost on exit", map[string]any{
			"genesis_accounts": len(accounts),
		})
		return &storage{uow: store}, nil
	}

	manager := database.NewManager(database.CreateConfigFromViperConfig(a.cfg), a.logger, a.timeProvider)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, err
	}

	if migrate {
		if err := manager.Migrate(ctx); err != nil {
			_ = manager.Close()
			return nil, err
		}
		if err := manager.SeedGenesis(ctx, genesis); err != nil {
			_ = manager.Close()
			return nil, err
		}
	}

	return &storage{uow: manager.CreateUnitOfWork(), manager: manager}, nil
}

// newMetrics builds the recorder and its registry
// The prometheus recorder is nil when metrics are disabled.
func (a *app) newMetrics(s *storage) (coreport.Metrics, *metrics.PrometheusRecorder) {
	if !a.cfg.Metrics.Enabled {
		return metrics.NewNoopRecorder(), nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if s.manager != nil {
		if sqlDB, err := s.manager.SQLDB(); err == nil {
			registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "lockledger"))
		}
	}

	recorder := metrics.NewPrometheusRecorder(registry)
	return recorder, recorder
}
