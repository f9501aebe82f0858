package database

import (
	"context"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
)

// NewTestManager connects a migrated in-memory SQLite database for tests
// The connection is closed when the test finishes.
func NewTestManager(t testing.TB, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	t.Helper()

	config := &Config{
		Driver:        DriverSQLite,
		Path:          memoryPath,
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 1,
	}

	manager := NewManager(config, logger, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return manager
}
