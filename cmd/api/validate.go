package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/config"
)

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration per driver
	switch cfg.Database.Driver {
	case database.DriverPostgres:
		required := []struct {
			key, value, env string
		}{
			{"database.host", cfg.Database.Host, "LL_DB_HOST"},
			{"database.port", cfg.Database.Port, "LL_DB_PORT"},
			{"database.username", cfg.Database.Username, "LL_DB_USERNAME"},
			{"database.password", cfg.Database.Password, "LL_DB_PASSWORD"},
			{"database.database", cfg.Database.Database, "LL_DB_NAME"},
		}
		for _, r := range required {
			if r.value != "" {
				continue
			}
			if cfg.Environment == config.Production && os.Getenv(r.env) == "" {
				missingConfigs = append(missingConfigs, fmt.Sprintf("%s (or %s environment variable)", r.key, r.env))
			} else if cfg.Environment != config.Production {
				missingConfigs = append(missingConfigs, r.key)
			}
		}
		if cfg.Database.QueryTimeout == 0 {
			missingConfigs = append(missingConfigs, "database.queryTimeout")
		}
	case database.DriverSQLite:
		if cfg.Database.Path == "" {
			missingConfigs = append(missingConfigs, "database.path")
		}
		if cfg.Database.QueryTimeout == 0 {
			missingConfigs = append(missingConfigs, "database.queryTimeout")
		}
	case database.DriverMemory:
	case "":
		missingConfigs = append(missingConfigs, "database.driver")
	default:
		return fmt.Errorf("invalid database driver: %s, must be one of: %s, %s, or %s",
			cfg.Database.Driver, database.DriverPostgres, database.DriverSQLite, database.DriverMemory)
	}

	// Validate ledger configuration
	if cfg.Ledger.EscrowAccount == "" {
		missingConfigs = append(missingConfigs, "ledger.escrowAccount (or LL_LEDGER_ESCROW_ACCOUNT environment variable)")
	} else {
		escrow, err := entity.ParseAccount(cfg.Ledger.EscrowAccount)
		if err != nil {
			return fmt.Errorf("ledger.escrowAccount: %w", err)
		}
		// Compare parsed addresses so checksum and case variants still match
		for _, caller := range cfg.Ledger.AuthorizedCallers {
			account, err := entity.ParseAccount(caller)
			if err != nil {
				return fmt.Errorf("ledger.authorizedCallers: %w", err)
			}
			if account == escrow {
				return fmt.Errorf("ledger.authorizedCallers must not contain the escrow account %s", escrow.Hex())
			}
		}
	}
	if cfg.Ledger.MaxBatchSize < 0 {
		return fmt.Errorf("ledger.maxBatchSize must not be negative, got %d", cfg.Ledger.MaxBatchSize)
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		if cfg.Database.Driver == database.DriverPostgres {
			sslMode := strings.ToLower(cfg.Database.SSLMode)
			if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
				warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
			}
		}
		if cfg.Database.Driver == database.DriverMemory {
			warnings = append(warnings, "database.driver 'memory' loses every lock on restart")
		}

		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
