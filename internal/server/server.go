// =============================================================================
// Invoice Report Importer - HTTP Server
// =============================================================================
//
// Fiber application exposing report parsing over HTTP.
//
// =============================================================================

// Package server exposes the invoice parser over HTTP.
//
// Routes:
//
//	GET  /health               liveness check
//	POST /api/invoices/import  multipart upload: file + invoicingMonth
package server

import (
	"errors"

	"github.com/ginjaninja78/invoice-report-importer/internal/config"
	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/ginjaninja78/invoice-report-importer/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// multipartOverhead is added to the upload limit to leave room for the
// multipart framing and the other form fields.
const multipartOverhead = 64 << 10

// Server is the HTTP front end of the importer.
type Server struct {
	app    *fiber.App
	cfg    *config.MainConfig
	schema validation.Schema
	log    logrus.FieldLogger
}

// New builds the fiber app with its middleware and routes.
func New(cfg *config.MainConfig, schema validation.Schema, logger logrus.FieldLogger) *Server {
	s := &Server{cfg: cfg, schema: schema, log: logger}

	s.app = fiber.New(fiber.Config{
		AppName:               "invoice-importer",
		BodyLimit:             cfg.HTTP.UploadMaxSize + multipartOverhead,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(requestID())
	s.app.Use(s.requestLogger())

	s.app.Get("/health", s.health)
	api := s.app.Group("/api")
	api.Post("/invoices/import", s.importInvoices)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.WithField("addr", addr).Info("server starting")
	return s.app.Listen(addr)
}

// Shutdown stops the server, letting in-flight requests finish.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// statusFor maps an error returned by a handler to its response status.
func statusFor(err error) int {
	var parseErr *invoice.ParseError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &parseErr):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// errorHandler renders every error as JSON. Hard parse errors carry their
// kind, stage and row.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	body := fiber.Map{
		"success": false,
		"message": "Internal Server Error",
		"error":   err.Error(),
	}

	var parseErr *invoice.ParseError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &parseErr):
		body["message"] = parseErr.Message
		body["kind"] = string(parseErr.Kind)
		body["stage"] = parseErr.Stage.String()
		if parseErr.Row > 0 {
			body["row"] = parseErr.Row
		}
	case errors.As(err, &fiberErr):
		body["message"] = fiberErr.Message
	}

	entry := s.log.WithFields(logrus.Fields{
		"request_id": requestIDFrom(c),
		"status":     code,
	}).WithError(err)
	if code >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	return c.Status(code).JSON(body)
}
