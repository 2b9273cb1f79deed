// =============================================================================
// Invoice Report Importer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (invoice-importer)
//   ├── processCmd  (invoice-importer process)
//   ├── validateCmd (invoice-importer validate)
//   ├── serveCmd    (invoice-importer serve)
//   └── versionCmd  (invoice-importer version)
//
// Before any subcommand runs, the root command loads the configuration and
// builds the logger. Both are shared through package variables.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/invoice-report-importer/internal/config"
	"github.com/ginjaninja78/invoice-report-importer/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// appConfig is the loaded configuration, set before any subcommand runs.
var appConfig *config.MainConfig

// logger is the application logger, set before any subcommand runs.
var logger *logrus.Logger

// closeLog releases the log file, if any.
var closeLog = func() error { return nil }

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "invoice-importer",
	Short: "Invoice Report Importer - Read monthly invoice reports into structured data",
	Long: `Invoice Report Importer reads monthly invoice reports exported from a
spreadsheet (.xlsx or .csv) and turns them into structured data.

A report holds, from top to bottom:
  - the invoicing period ("March 2024", "03/2024", ...)
  - a table of currency rates ("USD 1", "EUR Rate 0.92", ...)
  - a header row followed by invoice rows, ended by an empty row

Invoice rows marked "Ready" or carrying an invoice number are validated and
priced in the base currency.

Example Usage:
  invoice-importer process --month 2024-03          # Import every report in the input directory
  invoice-importer process --month 2024-03 --file r.xlsx
  invoice-importer serve                             # Accept uploads over HTTP
  invoice-importer validate                          # Check configuration without importing`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). Interrupts
// cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initApp loads the configuration and builds the logger. A missing config
// file is only an error when --config was given explicitly.
func initApp(cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed("config") {
		appConfig, err = config.LoadMainConfig(cfgFile)
	} else {
		appConfig, err = config.LoadOrDefault(cfgFile)
	}
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	logger, closeLog, err = logging.New(logging.Options{
		Level:   appConfig.LogLevel,
		Format:  appConfig.LogFormat,
		File:    appConfig.LogFile,
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}
