// Package cmd defines the command-line interface for cyclereport.
package cmd

import (
	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("api-key", "", "Linear API key (prefer the LINEAR_API_KEY environment variable)")
	rootCmd.PersistentFlags().String("endpoint", contract.DefaultEndpoint, "GraphQL endpoint of the Linear API")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Timeout for each API request (Go duration)")
	rootCmd.PersistentFlags().String("output-file", "", "Path to write output to (default cycle-report-<QUARTER>.<ext>)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", string(schema.AutoLogFormat), "Log format: auto or console or json")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in printed tables (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().StringP("quarter", "q", "", "Quarter to report on, e.g. Q32026 (default current quarter)")
	reportCmd.Flags().StringP("output", "o", string(schema.CSVOut), "Output format: csv or text or json or parquet")
	reportCmd.Flags().Bool("print", false, "Also print the report to stdout")
	reportCmd.Flags().String("team-prefix", "", "Only include teams whose name starts with this prefix")
	reportCmd.Flags().String("exclude-team", contract.DefaultExcludeTeam, "Exclude the team with exactly this name")
	reportCmd.Flags().Int("page-size", contract.DefaultPageSize, "Maximum teams and cycles requested per connection")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
