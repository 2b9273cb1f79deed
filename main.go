// =============================================================================
// Invoice Report Importer - Main Entry Point
// =============================================================================
//
// USAGE:
//   invoice-importer process   - Import the reports of one invoicing month
//   invoice-importer serve     - Accept reports over HTTP
//   invoice-importer validate  - Validate configuration without importing
//   invoice-importer version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core parsing and the surfaces around it
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/invoice-report-importer/cmd"
)

func main() {
	cmd.Execute()
}
