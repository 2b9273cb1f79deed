package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/config"
	"github.com/ginjaninja78/invoice-report-importer/internal/csvparser"
	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/ginjaninja78/invoice-report-importer/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// DecodeFile reads the report at path into a grid.
func DecodeFile(path string, settings config.CSVSettings) (invoice.Grid, error) {
	var (
		grid invoice.Grid
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		grid, err = xlsxparser.ReadGridFile(path)
	case ".csv":
		grid, err = csvparser.ReadGridFile(path, settings)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return grid, nil
}

// DecodeReader reads a report from r. name is only used for its extension.
func DecodeReader(name string, r io.Reader, settings config.CSVSettings) (invoice.Grid, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return xlsxparser.ReadGrid(r)
	case ".csv":
		return csvparser.ReadGrid(r, settings)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}
