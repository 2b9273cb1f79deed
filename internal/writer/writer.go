// Package writer renders a parsed invoice report as JSON, XML or XLSX.
package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/shopspring/decimal"
)

// Writer renders a result in one output format.
type Writer interface {
	Write(w io.Writer, res *invoice.Result) error
	// Extension is the file extension including the dot.
	Extension() string
	ContentType() string
}

type formatWriter struct {
	write       func(io.Writer, *invoice.Result) error
	extension   string
	contentType string
}

func (f formatWriter) Write(w io.Writer, res *invoice.Result) error { return f.write(w, res) }
func (f formatWriter) Extension() string                           { return f.extension }
func (f formatWriter) ContentType() string                         { return f.contentType }

// ForFormat returns the writer for "json", "xml" or "xlsx".
func ForFormat(name string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return formatWriter{JSON, ".json", "application/json"}, nil
	case "xml":
		return formatWriter{XML, ".xml", "application/xml"}, nil
	case "xlsx":
		return formatWriter{XLSX, ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

// formatCell renders a cell value as text. nil renders as "".
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case decimal.Decimal:
		return t.String()
	}
	return fmt.Sprint(v)
}
