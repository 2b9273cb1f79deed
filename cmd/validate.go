// =============================================================================
// Invoice Report Importer - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   invoice-importer validate
//
// Loads the configuration and the row schema, reports what would be used, and
// exits without importing anything.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/invoice-report-importer/internal/writer"
	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without importing",
	Long: `Load the main configuration and the row schema (from schema_template,
row_schema, or the built-in invoice schema) and print a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if _, err := writer.ForFormat(appConfig.OutputFormat); err != nil {
		return err
	}

	schema, err := appConfig.ResolveSchema()
	if err != nil {
		return err
	}

	source := "built-in invoice schema"
	switch {
	case appConfig.SchemaTemplate != "":
		source = appConfig.SchemaTemplate
	case len(appConfig.RowSchema) > 0:
		source = "row_schema"
	}

	fmt.Fprintln(out, "Configuration OK")
	fmt.Fprintf(out, "Input directory:  %s (%v)\n", appConfig.InputDir, appConfig.FilePatterns)
	fmt.Fprintf(out, "Output directory: %s\n", appConfig.OutputDir)
	fmt.Fprintf(out, "Output format:    %s\n", appConfig.OutputFormat)
	fmt.Fprintf(out, "Row schema:       %s, %d field(s)\n", source, len(schema))
	for _, field := range schema {
		required := "optional"
		if field.Required {
			required = "required"
		}
		fmt.Fprintf(out, "  - %-24s %-15s %s\n", field.Name, field.Kind, required)
	}

	logger.WithField("fields", len(schema)).Debug("configuration validated")
	return nil
}
