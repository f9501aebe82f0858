package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/model"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/repository"
)

// SeedGenesis credits the configured balances once per database
// Later runs find the genesis marker and leave balances untouched.
func (m *MigrationManager) SeedGenesis(ctx context.Context, balances map[entity.Account]*entity.Amount) error {
	if len(balances) == 0 {
		return nil
	}

	accounts := make([]entity.Account, 0, len(balances))
	for account := range balances {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Cmp(accounts[j]) < 0
	})

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var marker model.MigrationVersion
		err := tx.Where("version = ?", GenesisVersion).First(&marker).Error
		if err == nil {
			m.logger.Info("Genesis balances already seeded, skipping", map[string]any{
				"applied_at": marker.AppliedAt,
			})
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		repo := repository.NewAccountRepository(tx, true, m.timeProvider, m.logger)
		for _, account := range accounts {
			if err := repo.Credit(ctx, account, balances[account]); err != nil {
				return fmt.Errorf("crediting genesis balance of %s: %w", account.Hex(), err)
			}
		}

		m.logger.Info("Genesis balances seeded", map[string]any{
			"accounts": len(accounts),
		})
		return recordVersion(tx, GenesisVersion, fmt.Sprintf("%d genesis balances", len(accounts)), m.timeProvider)
	})
}
