// =============================================================================
// Invoice Report Importer - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   invoice-importer serve [--addr :8080]
//
// Starts the HTTP upload server. Interrupts shut it down gracefully.
//
// =============================================================================

package cmd

import (
	"github.com/ginjaninja78/invoice-report-importer/internal/server"
	"github.com/spf13/cobra"
)

// addrFlag overrides http.addr.
var addrFlag string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept invoice reports over HTTP",
	Long: `Start an HTTP server that parses uploaded reports.

  POST /api/invoices/import   multipart form: file (.xlsx or .csv), invoicingMonth (YYYY-MM)
  GET  /health`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command) error {
	schema, err := appConfig.ResolveSchema()
	if err != nil {
		return err
	}

	addr := appConfig.HTTP.Addr
	if addrFlag != "" {
		addr = addrFlag
	}

	srv := server.New(appConfig, schema, logger)

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = srv.Shutdown()
	}()

	return srv.Listen(addr)
}
