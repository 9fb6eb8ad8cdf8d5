package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/internal/history"
	"github.com/huangsam/cyclereport/internal/logging"
	"github.com/huangsam/cyclereport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "cyclereport",
	Short:              "Report per-cycle delivery metrics from Linear for a quarter.",
	Long:               `Cyclereport pulls every finished cycle of a quarter from Linear and reports completion, scope change and capacity accuracy per team.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig wires defaults and environment variables into Viper.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("CYCLEREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// The API key is also read from the variable Linear documents
	if err := viper.BindEnv("api-key", "CYCLEREPORT_API_KEY", "LINEAR_API_KEY"); err != nil {
		contract.LogFatal("Error binding api-key env", err)
	}

	// Set defaults in Viper
	viper.SetDefault("endpoint", contract.DefaultEndpoint)
	viper.SetDefault("timeout", contract.DefaultTimeout.String())
	viper.SetDefault("output", schema.CSVOut)
	viper.SetDefault("exclude-team", contract.DefaultExcludeTeam)
	viper.SetDefault("page-size", contract.DefaultPageSize)
	viper.SetDefault("history-backend", schema.NoneBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-format", schema.AutoLogFormat)
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing before any network call.
	if err := contract.ProcessAndValidate(cfg, input, time.Now()); err != nil {
		return err
	}

	// 4. Diagnostics go to stderr so they never mix with a printed report
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// 5. Initialize persistence layer with validated config
	if err := history.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".cyclereport")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
