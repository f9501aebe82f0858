package main

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Environment: config.Development,
		Server: config.ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         "lockledger.db",
			QueryTimeout: 5 * time.Second,
		},
		Logger: config.LoggerConfig{Level: "info"},
		Ledger: config.LedgerConfig{
			EscrowAccount: "0x000000000000000000000000000000000000e5c0",
			MaxBatchSize:  100,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:   "Valid sqlite configuration",
			mutate: func(cfg *config.Config) {},
		},
		{
			name: "Memory driver needs no connection settings",
			mutate: func(cfg *config.Config) {
				cfg.Database = config.DatabaseConfig{Driver: "memory"}
			},
		},
		{
			name: "Postgres requires connection settings",
			mutate: func(cfg *config.Config) {
				cfg.Database.Driver = "postgres"
			},
			wantErr: "database.host",
		},
		{
			name: "Unknown driver",
			mutate: func(cfg *config.Config) {
				cfg.Database.Driver = "mysql"
			},
			wantErr: "invalid database driver",
		},
		{
			name: "Missing escrow account",
			mutate: func(cfg *config.Config) {
				cfg.Ledger.EscrowAccount = ""
			},
			wantErr: "ledger.escrowAccount",
		},
		{
			name: "Malformed escrow account",
			mutate: func(cfg *config.Config) {
				cfg.Ledger.EscrowAccount = "escrow"
			},
			wantErr: "invalid account address",
		},
		{
			name: "Authorized callers",
			mutate: func(cfg *config.Config) {
				cfg.Ledger.AuthorizedCallers = []string{"0x00000000000000000000000000000000000000a1"}
			},
		},
		{
			name: "Escrow account as authorized caller",
			mutate: func(cfg *config.Config) {
				cfg.Ledger.AuthorizedCallers = []string{
					"0x00000000000000000000000000000000000000a1",
					"0x000000000000000000000000000000000000E5C0",
				}
			},
			wantErr: "must not contain the escrow account",
		},
		{
			name: "Malformed authorized caller",
			mutate: func(cfg *config.Config) {
				cfg.Ledger.AuthorizedCallers = []string{"alice"}
			},
			wantErr: "ledger.authorizedCallers",
		},
		{
			name: "Invalid environment",
			mutate: func(cfg *config.Config) {
				cfg.Environment = "staging"
			},
			wantErr: "invalid environment value",
		},
		{
			name: "Missing server port",
			mutate: func(cfg *config.Config) {
				cfg.Server.Port = 0
			},
			wantErr: "server.port",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := validateConfig(cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGenesisBalances(t *testing.T) {
	a := &app{cfg: validConfig()}
	a.cfg.Genesis.Balances = map[string]string{
		"0x00000000000000000000000000000000000000a1": "1000",
	}

	balances, err := a.genesisBalances()
	require.NoError(t, err)
	require.Len(t, balances, 1)
	for account, amount := range balances {
		assert.Equal(t, common.HexToAddress("0xa1"), account)
		assert.Equal(t, "1000", entity.FormatAmount(amount))
	}

	a.cfg.Genesis.Balances = map[string]string{"0xa1": "1"}
	_, err = a.genesisBalances()
	assert.Error(t, err)
}
