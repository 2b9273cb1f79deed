// =============================================================================
// Invoice Report Importer - HTTP Handlers
// =============================================================================
//
// Upload handler: reads the multipart form, parses the report and answers
// with the result or a structured error.
//
// =============================================================================

package server

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/importer"
	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/ginjaninja78/invoice-report-importer/internal/period"
	"github.com/ginjaninja78/invoice-report-importer/internal/writer"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// importInvoices parses an uploaded report. The response body is the parse
// result in the format picked by ?format= (json by default).
func (s *Server) importInvoices(c *fiber.Ctx) error {
	month, err := period.ParseDeclared(c.FormValue("invoicingMonth"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invoicingMonth must be given as YYYY-MM")
	}

	out, err := writer.ForFormat(c.Query("format", "json"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !s.extensionAllowed(ext) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("only %s files are accepted", strings.Join(s.cfg.HTTP.AllowedExtensions, ", ")))
	}
	if file.Size > int64(s.cfg.HTTP.UploadMaxSize) {
		return fiber.NewError(fiber.StatusBadRequest, "file size exceeds maximum limit")
	}

	log := s.log.WithFields(logrus.Fields{
		"request_id":      requestIDFrom(c),
		"file":            file.Filename,
		"invoicing_month": month.String(),
	})

	src, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open upload")
	}
	defer src.Close()

	grid, err := importer.DecodeReader(file.Filename, src, s.cfg.CSVSettings)
	if err != nil {
		log.WithError(err).Info("upload is not a readable report")
		return fiber.NewError(fiber.StatusBadRequest, "failed to read report: "+err.Error())
	}

	res, err := invoice.Parse(grid, month, s.schema)
	if err != nil {
		return err
	}

	summary := res.Summary()
	log.WithFields(logrus.Fields{
		"rows":                 len(grid),
		"invoices":             summary.Invoices,
		"invoices_with_errors": summary.InvoicesWithErrors,
	}).Info("report imported")

	var buf bytes.Buffer
	if err := out.Write(&buf, res); err != nil {
		return fmt.Errorf("render %s: %w", out.Extension(), err)
	}
	c.Set(fiber.HeaderContentType, out.ContentType())
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (s *Server) extensionAllowed(ext string) bool {
	for _, allowed := range s.cfg.HTTP.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
