package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
)

// JSON writes res as indented JSON. Output is byte-identical for equal
// results.
func JSON(w io.Writer, res *invoice.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
