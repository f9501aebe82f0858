package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
)

// AdvancedIndexManager manages PostgreSQL-specific advanced indexes
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateAdvancedIndexes creates advanced PostgreSQL indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	db := m.db.WithContext(ctx)

	// Partial index over active locks, the rows unlock sweeps and balance summaries touch
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lock_records_active
		ON lock_records (account)
		WHERE claimed = false
	`).Error; err != nil {
		m.logger.Error("Failed to create partial index on active lock records", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// BRIN index for the append-only event log
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lock_events_created_at_brin
		ON lock_events USING BRIN (created_at)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		m.logger.Error("Failed to create BRIN index on lock_events.created_at", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Kind filter for event exports
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lock_events_kind
		ON lock_events (kind)
	`).Error; err != nil {
		m.logger.Error("Failed to create index on lock_events.kind", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL storage tweaks
// Failures are logged and ignored.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	db := m.db.WithContext(ctx)

	// Balances and lock records are updated in place on every operation
	for _, table := range []string{"accounts", "lock_records"} {
		if err := db.Exec("ALTER TABLE " + table + " SET (fillfactor = 90)").Error; err != nil {
			m.logger.Warn("Failed to set fillfactor", map[string]any{
				"table": table,
				"error": err.Error(),
			})
		}
	}

	if err := db.Exec(`
		ALTER TABLE lock_events ALTER COLUMN account SET STATISTICS 1000
	`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for lock_events.account", map[string]any{
			"error": err.Error(),
		})
	}
}
