// =============================================================================
// Invoice Report Importer - Process Command
// =============================================================================
//
// This file defines the 'process' command, which imports the invoice reports
// of one invoicing month.
//
// COMMAND USAGE:
//   invoice-importer process --month YYYY-MM [flags]
//
// FLAGS:
//   --month    : The declared invoicing month (required)
//   --file     : Import only this file instead of scanning the input directory
//   --dry-run  : Parse and validate without writing or archiving anything
//   --format   : Output format (json, xml, xlsx), overriding the config
//
// PROCESSING PIPELINE:
//   1. Resolve the row schema and output writer
//   2. Discover report files in the input directory
//   3. Import files concurrently, at most max_concurrency at a time
//   4. Write the error log and the summary report
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/invoice-report-importer/internal/importer"
	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/ginjaninja78/invoice-report-importer/internal/period"
	"github.com/ginjaninja78/invoice-report-importer/internal/writer"
	"github.com/ginjaninja78/invoice-report-importer/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// monthFlag is the declared invoicing month.
var monthFlag string

// filePath is a single file to import instead of the input directory.
var filePath string

// dryRun simulates processing without writing output files.
var dryRun bool

// formatFlag overrides output_format.
var formatFlag string

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Import the invoice reports of one month",
	Long: `The process command scans the input directory for invoice reports and
imports each one for the declared invoicing month.

Files are imported concurrently. A file that fails does not stop the others.

On success:
  - The parsed report is written to the output directory
  - The report is moved to the input archive when archive_on_success is set
  - Validation errors of individual invoices go to an error log

On error:
  - The failure is added to the error log
  - The report stays in the input directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&monthFlag, "month", "", "Declared invoicing month (YYYY-MM)")
	processCmd.Flags().StringVar(&filePath, "file", "", "Import only this file")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and validate without writing output files")
	processCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: json, xml or xlsx (default from config)")
	processCmd.MarkFlagRequired("month")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: RESOLVE SCHEMA AND WRITER
	// =========================================================================
	month, err := period.ParseDeclared(monthFlag)
	if err != nil {
		return err
	}

	format := appConfig.OutputFormat
	if formatFlag != "" {
		format = formatFlag
	}
	w, err := writer.ForFormat(format)
	if err != nil {
		return err
	}

	schema, err := appConfig.ResolveSchema()
	if err != nil {
		return err
	}

	files := utils.NewFileManager(
		appConfig.InputDir,
		appConfig.OutputDir,
		appConfig.InputArchiveDir,
		appConfig.OutputArchiveDir,
	)
	files.ArchiveOnSuccess = appConfig.ArchiveOnSuccess
	if !dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================
	var inputFiles []string
	if filePath != "" {
		if !utils.FileExists(filePath) {
			return fmt.Errorf("file not found: %s", filePath)
		}
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = files.DiscoverInputFiles(appConfig.FilePatterns)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No reports found in the input directory.")
		return nil
	}
	fmt.Fprintf(out, "Found %d report(s) for %s\n", len(inputFiles), month)

	// =========================================================================
	// STEP 3: IMPORT FILES CONCURRENTLY
	// =========================================================================
	deps := importer.Deps{
		Config: appConfig,
		Schema: schema,
		Files:  files,
		Writer: w,
		Logger: logger,
		DryRun: dryRun,
	}
	results := importer.RunAll(cmd.Context(), inputFiles, month, deps, appConfig.MaxConcurrency)

	// =========================================================================
	// STEP 4: COLLECT RESULTS AND WRITE REPORTS
	// =========================================================================
	summary := utils.ProcessingSummary{
		StartTime:      startTime,
		InvoicingMonth: month.String(),
		TotalFiles:     len(inputFiles),
	}
	var errorEntries []utils.ErrorLogEntry

	for _, res := range results {
		name := filepath.Base(res.FilePath)
		if !res.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    res.FilePath,
				ErrorMessage: res.Error.Error(),
				ErrorType:    res.ErrorType(),
			})
			errorEntries = append(errorEntries, failureEntry(res))
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, res.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalRows += res.Stats.Rows
		summary.TotalInvoices += res.Stats.Invoices
		summary.InvoicesWithErrors += res.Stats.InvoicesWithErrors
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:          res.FilePath,
			OutputFile:         res.OutputFile,
			ArchivePath:        res.ArchivePath,
			Rows:               res.Stats.Rows,
			Invoices:           res.Stats.Invoices,
			InvoicesWithErrors: res.Stats.InvoicesWithErrors,
			ProcessTime:        res.Stats.ProcessingTime,
		})
		errorEntries = append(errorEntries, res.ValidationErrors...)

		target := res.OutputFile
		if dryRun {
			target = "(dry run)"
		}
		fmt.Fprintf(out, "  ✓ %s -> %s (%d invoices, %d with errors)\n",
			name, target, res.Stats.Invoices, res.Stats.InvoicesWithErrors)
	}
	summary.EndTime = time.Now()

	if !dryRun {
		if path, err := utils.WriteErrorLog(errorEntries, appConfig.OutputDir); err != nil {
			logger.WithError(err).Warn("failed to write error log")
		} else if path != "" {
			fmt.Fprintf(out, "Errors have been logged to %s\n", path)
		}
		if _, err := utils.WriteSummaryLog(summary, appConfig.OutputDir); err != nil {
			logger.WithError(err).Warn("failed to write summary log")
		}
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================
	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:          %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:           %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Failed:               %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Invoices:             %d\n", summary.TotalInvoices)
	fmt.Fprintf(out, "Invoices with errors: %d\n", summary.InvoicesWithErrors)
	fmt.Fprintf(out, "Time elapsed:         %s\n", summary.EndTime.Sub(startTime))

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d report(s) failed to import", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// failureEntry turns a failed import into an error log line.
func failureEntry(res importer.Result) utils.ErrorLogEntry {
	entry := utils.ErrorLogEntry{
		Timestamp:    time.Now(),
		FileName:     filepath.Base(res.FilePath),
		ErrorType:    res.ErrorType(),
		ErrorMessage: res.Error.Error(),
	}
	var parseErr *invoice.ParseError
	if errors.As(res.Error, &parseErr) {
		entry.RowNumber = parseErr.Row
	}
	return entry
}
