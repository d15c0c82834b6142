package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/internal/datastore"
	"github.com/huangsam/douremember/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads the minimal configuration needed to reach the database.
// Clear and migrate must not open the store through InitStore, which would
// create the tables they operate on.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("db-backend"))
	connStr := viper.GetString("db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.DBBackend = backend
	cfg.DBConnect = connStr
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeCmd focused on database management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the relational store",
	Long: `Manage the database holding reports, images, care groups and profiles.

Supported backends: SQLite (default), MySQL, PostgreSQL

Examples:
  # Check store status
  douremember store status

  # Apply schema migrations to a PostgreSQL store
  DOUREMEMBER_DB_BACKEND=postgresql DOUREMEMBER_DB_CONNECT="..." douremember store migrate`,
}

var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display store counts and connection details",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := dataStore()
		if err != nil {
			return err
		}
		status, err := store.GetStatus(rootCtx)
		if err != nil {
			return fmt.Errorf("failed to get store status: %w", err)
		}
		datastore.PrintStoreStatus(os.Stdout, status)
		return nil
	},
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored data",
	Long: `Delete all stored data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables and the migration bookkeeping`,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := datastore.ClearStore(cfg.DBBackend, cfg.DBConnect); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
		fmt.Println("Store cleared successfully.")
		return nil
	},
}

var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply versioned schema migrations",
	Long: `Run the embedded schema migrations against the configured backend.

  --target-version -1  migrate to the latest version (default)
  --target-version 0   roll back every migration
  --target-version N   migrate up or down to version N`,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		target := viper.GetInt("target-version")
		return datastore.MigrateStore(cfg.DBBackend, cfg.DBConnect, target, os.Stdout)
	},
}

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's stored reports to a Parquet file",
	Long: `Write every stored report of --user to --output-file as Parquet with the raw
stored scores, for offline analysis.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for store export")
		}
		store, err := dataStore()
		if err != nil {
			return err
		}
		n, err := datastore.ExportReportsParquet(rootCtx, store, cfg.UserID, cfg.OutputFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Exported %d reports to %s\n", n, cfg.OutputFile)
		return nil
	},
}
