package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/database"
)

var cmdMigrate = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed the genesis balances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.logger.Flush() }()

		if a.cfg.Database.Driver == database.DriverMemory {
			return errors.New("the memory driver has no schema to migrate")
		}

		store, err := a.openStorage(cmd.Context(), true)
		if err != nil {
			a.logger.Error("Migration failed", map[string]any{"error": err.Error()})
			return err
		}
		defer func() { _ = store.Close() }()

		version, err := store.manager.MigrationManager().GetCurrentVersion(cmd.Context())
		if err != nil {
			return err
		}
		a.logger.Info("Database is up to date", map[string]any{"version": version})
		return nil
	},
}
