package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/internal/history"
	"github.com/huangsam/cyclereport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConnSetup loads the history backend and connection string only.
// It does NOT initialize stores or create tables, so migrations and clears
// can run against a fresh or broken database.
func historyConnSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseDatabaseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration and opens the history store.
// This is used by commands that need history access without the API key.
func historySetup() error {
	if err := historyConnSetup(); err != nil {
		return err
	}
	if err := history.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyConnSetupWrapper wraps historyConnSetup to provide PreRunE for clear and migrate.
func historyConnSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyConnSetup()
}

// sqlitePath returns the SQLite database file for the configured connection.
func sqlitePath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return contract.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup used by report. They never need an API key.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored report runs and exports",
	Long: `Manage the run history written by "cyclereport report --history-backend ...".

When enabled, every report run stores:
- Run metadata (quarter, timestamps, duration, configuration)
- Every reported cycle row

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored history
  migrate - Run database schema migrations

Examples:
  # Check history status
  cyclereport history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  cyclereport history export --history-backend sqlite --output-file cycles`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored report runs and cycle rows",
	Long: `Delete all stored report runs and their cycle rows.

For SQLite the database file is removed. For MySQL and PostgreSQL the
history tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  cyclereport history export --history-backend sqlite --output-file backup
  cyclereport history clear --history-backend sqlite`,
	PreRunE: historyConnSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.Clear(cfg.HistoryBackend, sqlitePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, connection state, run counts and table sizes of the run history.

Examples:
  cyclereport history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports the run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored history to Parquet for BI tools and analytics",
	Long: `Export all stored history to two Parquet files:
- <output-file>.runs.parquet with one row per report run
- <output-file>.cycle_rows.parquet with every stored cycle row

Requires: --output-file parameter

Examples:
  cyclereport history export --history-backend sqlite --output-file cycles
  duckdb -c "SELECT * FROM read_parquet('cycles.cycle_rows.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(history.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  cyclereport history migrate --history-backend sqlite

  # Rollback to initial state
  cyclereport history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyConnSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend {
			connStr = sqlitePath()
		}
		if err := history.Migrate(cfg.HistoryBackend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
