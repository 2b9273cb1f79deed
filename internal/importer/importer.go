// =============================================================================
// Invoice Report Importer - Importer Module
// =============================================================================
//
// This module orchestrates the import of one report file. It ties together
// decoding, parsing, output writing and archiving.
//
// IMPORT PIPELINE:
//   1. Decode the file into a grid (.xlsx or .csv, chosen by extension)
//   2. Parse the grid with the declared invoicing month
//   3. Collect per-invoice validation errors for the error log
//   4. Write the output file in the configured format
//   5. Archive the input and output files
//
// A failure in one file never affects another: every outcome, good or bad,
// is reported through Result.
//
// =============================================================================

package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ginjaninja78/invoice-report-importer/internal/cell"
	"github.com/ginjaninja78/invoice-report-importer/internal/config"
	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/ginjaninja78/invoice-report-importer/internal/period"
	"github.com/ginjaninja78/invoice-report-importer/internal/validation"
	"github.com/ginjaninja78/invoice-report-importer/internal/writer"
	"github.com/ginjaninja78/invoice-report-importer/pkg/utils"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// Result contains the outcome of importing a single file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// OutputFile is the path to the generated output file. Empty on failure
	// and in dry runs.
	OutputFile string

	// ArchivePath is where the input file was moved. Empty when archiving is
	// disabled or failed.
	ArchivePath string

	// Success is true when the file was parsed (and written, unless dry run).
	// Invoices with validation errors do not make an import fail.
	Success bool

	// Error describes the failure when Success is false.
	Error error

	// Report is the parsed report. Nil when parsing failed.
	Report *invoice.Result

	// ValidationErrors lists one entry per invoice validation error.
	ValidationErrors []utils.ErrorLogEntry

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ErrorType names the failure for logs and summaries: the parse error kind
// when there is one, otherwise "ImportError".
func (r Result) ErrorType() string {
	if r.Error == nil {
		return ""
	}
	if kind, ok := invoice.KindOf(r.Error); ok {
		return string(kind)
	}
	return "ImportError"
}

// ProcessingStats contains statistics about the import of one file.
type ProcessingStats struct {
	// Rows is the number of grid rows read from the file.
	Rows int

	// Invoices is the number of accepted invoice rows.
	Invoices int

	// InvoicesWithErrors is the number of invoices carrying validation errors.
	InvoicesWithErrors int

	// ProcessingTime is the total time taken.
	ProcessingTime time.Duration
}

// =============================================================================
// IMPORTER STRUCTURE
// =============================================================================

// Deps holds everything an Importer needs besides the file and month.
type Deps struct {
	Config *config.MainConfig
	Schema validation.Schema
	Files  *utils.FileManager
	Writer writer.Writer
	Logger logrus.FieldLogger

	// DryRun parses and validates without writing or archiving anything.
	DryRun bool
}

// Importer imports one report file.
type Importer struct {
	path  string
	month period.Period
	deps  Deps
	log   logrus.FieldLogger
}

// New creates an importer for the file at path, declared for month.
func New(path string, month period.Period, deps Deps) *Importer {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Importer{
		path:  path,
		month: month,
		deps:  deps,
		log: logger.WithFields(logrus.Fields{
			"file":            filepath.Base(path),
			"invoicing_month": month.String(),
		}),
	}
}

// Run executes the import pipeline. It stops between steps when ctx is
// cancelled.
func (im *Importer) Run(ctx context.Context) (result Result) {
	startTime := time.Now()
	result.FilePath = im.path

	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
		entry := im.log.WithFields(logrus.Fields{
			"rows":       result.Stats.Rows,
			"invoices":   result.Stats.Invoices,
			"elapsed_ms": result.Stats.ProcessingTime.Milliseconds(),
		})
		if result.Success {
			entry.Info("import finished")
		} else {
			entry.WithError(result.Error).WithField("kind", result.ErrorType()).Error("import failed")
		}
	}()

	// =========================================================================
	// STEP 1: DECODE
	// =========================================================================
	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	im.log.Debug("decoding report")
	grid, err := DecodeFile(im.path, im.deps.Config.CSVSettings)
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.Rows = len(grid)

	// =========================================================================
	// STEP 2: PARSE
	// =========================================================================
	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	im.log.WithField("rows", len(grid)).Debug("parsing report")
	report, err := invoice.Parse(grid, im.month, im.deps.Schema)
	if err != nil {
		result.Error = err
		return result
	}
	result.Report = report

	summary := report.Summary()
	result.Stats.Invoices = summary.Invoices
	result.Stats.InvoicesWithErrors = summary.InvoicesWithErrors

	// =========================================================================
	// STEP 3: COLLECT VALIDATION ERRORS
	// =========================================================================
	result.ValidationErrors = im.collectValidationErrors(report)
	if len(result.ValidationErrors) > 0 {
		im.log.WithField("invoices_with_errors", summary.InvoicesWithErrors).Warn("report has invoices with validation errors")
	}

	if im.deps.DryRun {
		im.log.Info("dry run, skipping output")
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================
	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	outputPath, err := im.writeOutput(report)
	if err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}
	result.OutputFile = outputPath
	im.log.WithField("output", outputPath).Debug("output written")

	// =========================================================================
	// STEP 5: ARCHIVE
	// =========================================================================
	// Archive failures are logged but do not fail the import.
	archivePath, err := im.archiveFiles(outputPath)
	if err != nil {
		im.log.WithError(err).Warn("failed to archive files")
	} else {
		result.ArchivePath = archivePath
	}

	result.Success = true
	return result
}

// collectValidationErrors turns the soft errors of every invoice into error
// log entries.
func (im *Importer) collectValidationErrors(report *invoice.Result) []utils.ErrorLogEntry {
	var entries []utils.ErrorLogEntry
	now := time.Now()
	for _, inv := range report.Invoices {
		number, _ := cell.Text(inv.Values[invoice.InvoiceNumberColumn])
		for _, msg := range inv.ValidationErrors {
			entries = append(entries, utils.ErrorLogEntry{
				Timestamp:     now,
				FileName:      filepath.Base(im.path),
				ErrorType:     "ValidationError",
				ErrorMessage:  msg,
				RowNumber:     inv.SourceRow,
				InvoiceNumber: strings.TrimSpace(number),
			})
		}
	}
	return entries
}

// writeOutput renders the report into the output directory and returns the
// path of the new file.
func (im *Importer) writeOutput(report *invoice.Result) (string, error) {
	base := filepath.Base(im.path)
	name := utils.GenerateOutputFileName(im.deps.Config.OutputNameFormat, im.deps.Writer.Extension(), map[string]string{
		"original": strings.TrimSuffix(base, filepath.Ext(base)),
		"month":    im.month.String(),
	})

	if err := os.MkdirAll(im.deps.Files.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(im.deps.Files.OutputDir, name)

	f, err := os.Create(outputPath)
	if err != nil {
		return "", err
	}
	if err := im.deps.Writer.Write(f, report); err != nil {
		f.Close()
		os.Remove(outputPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return outputPath, nil
}

// archiveFiles moves the input to the input archive and copies the output to
// the output archive, both under the invoicing month.
func (im *Importer) archiveFiles(outputPath string) (string, error) {
	if !im.deps.Files.ArchiveOnSuccess {
		return "", nil
	}

	if _, err := im.deps.Files.ArchiveOutputFile(outputPath, im.month.String()); err != nil {
		return "", fmt.Errorf("failed to archive output file: %w", err)
	}
	archivePath, err := im.deps.Files.ArchiveInputFile(im.path, im.month.String())
	if err != nil {
		return "", fmt.Errorf("failed to archive input file: %w", err)
	}
	return archivePath, nil
}

// =============================================================================
// BATCH PROCESSING
// =============================================================================

// RunAll imports files concurrently, at most workers at a time, and returns
// the results in the order of files.
func RunAll(ctx context.Context, files []string, month period.Period, deps Deps, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, filePath string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result{FilePath: filePath, Error: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			results[i] = New(filePath, month, deps).Run(ctx)
		}(i, file)
	}

	wg.Wait()
	return results
}
