// =============================================================================
// Invoice Report Importer - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. Main config file (config.yaml)
//   3. Environment, optionally seeded from a .env file
//
// The row schema that invoice rows are validated against comes from, in
// order of preference: the schema_template workbook, the row_schema list,
// or the built-in invoice schema.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatXLSX = "xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for reports to import.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the parsed reports.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives reports after a successful import.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives copies of the generated output files.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// FilePatterns selects input files by glob.
	// Default: ["*.xlsx", "*.csv"]
	FilePatterns []string `yaml:"file_patterns"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the log file. Empty logs to stdout.
	LogFile string `yaml:"log_file"`

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "json" or "text".
	// Default: "json"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is json, xml or xlsx.
	// Default: "json"
	OutputFormat string `yaml:"output_format"`

	// OutputNameFormat names output files. Placeholders:
	//   {original}  - input file name without extension
	//   {month}     - invoicing month (YYYY-MM)
	//   {uuid}      - a random UUID
	//   {timestamp} - current time (YYYYMMDD_HHMMSS)
	//   {date}      - current date (YYYYMMDD)
	// The extension of the output format is appended.
	// Default: "{original}_{month}_{uuid}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency bounds how many files are imported at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ArchiveOnSuccess moves imported reports to InputArchiveDir.
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// CSVSettings applies to .csv reports.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// HTTP configures the upload server.
	HTTP HTTPSettings `yaml:"http"`

	// =========================================================================
	// ROW SCHEMA
	// =========================================================================

	// RowSchema lists the fields every invoice row is checked against.
	RowSchema []FieldRule `yaml:"row_schema"`

	// SchemaTemplate is an XLSX workbook with the row schema. It takes
	// precedence over RowSchema.
	SchemaTemplate string `yaml:"schema_template"`
}

// CSVSettings contains settings for reading CSV exports of a report.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Trim removes surrounding whitespace from every field.
	// Default: true
	Trim *bool `yaml:"trim"`
}

// TrimFields reports whether fields should be trimmed.
func (s CSVSettings) TrimFields() bool {
	return s.Trim == nil || *s.Trim
}

// HTTPSettings configures the upload endpoint.
type HTTPSettings struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// UploadMaxSize is the largest accepted upload in bytes.
	// Default: 10 MiB
	UploadMaxSize int `yaml:"upload_max_size"`

	// AllowedExtensions lists accepted upload extensions.
	// Default: [".xlsx", ".csv"]
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// FieldRule is one entry of the row_schema list.
type FieldRule struct {
	Name     string `yaml:"name" json:"name"`
	Required bool   `yaml:"required" json:"required"`
	Kind     string `yaml:"kind" json:"kind"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present, with
// environment overrides applied.
func Default() (*MainConfig, error) {
	var config MainConfig
	applyEnvOverrides(&config)
	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// LoadMainConfig loads the main configuration from a YAML file.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := checkRowSchemaDocument(data); err != nil {
		return nil, fmt.Errorf("invalid row_schema: %w", err)
	}

	applyEnvOverrides(&config)
	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Relative template paths are resolved against the config file.
	if config.SchemaTemplate != "" && !filepath.IsAbs(config.SchemaTemplate) {
		config.SchemaTemplate = filepath.Join(filepath.Dir(configPath), config.SchemaTemplate)
	}

	return &config, nil
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist. Use it when the path was not chosen explicitly by the user.
func LoadOrDefault(configPath string) (*MainConfig, error) {
	config, err := LoadMainConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return config, err
}

// applyEnvOverrides copies INVOICE_* environment variables over the file
// values. A .env file in the working directory is loaded first when present.
func applyEnvOverrides(config *MainConfig) {
	_ = godotenv.Load()

	config.LogLevel = getEnv("INVOICE_LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("INVOICE_LOG_FORMAT", config.LogFormat)
	config.OutputFormat = getEnv("INVOICE_OUTPUT_FORMAT", config.OutputFormat)
	config.HTTP.Addr = getEnv("INVOICE_HTTP_ADDR", config.HTTP.Addr)
	config.InputDir = getEnv("INVOICE_INPUT_DIR", config.InputDir)
	config.OutputDir = getEnv("INVOICE_OUTPUT_DIR", config.OutputDir)
	config.MaxConcurrency = getEnvAsInt("INVOICE_MAX_CONCURRENCY", config.MaxConcurrency)
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if len(config.FilePatterns) == 0 {
		config.FilePatterns = []string{"*.xlsx", "*.csv"}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "json"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = FormatJSON
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}_{month}_{uuid}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.HTTP.Addr == "" {
		config.HTTP.Addr = ":8080"
	}
	if config.HTTP.UploadMaxSize == 0 {
		config.HTTP.UploadMaxSize = 10 << 20
	}
	if len(config.HTTP.AllowedExtensions) == 0 {
		config.HTTP.AllowedExtensions = []string{".xlsx", ".csv"}
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	config.OutputFormat = strings.ToLower(strings.TrimSpace(config.OutputFormat))
	switch config.OutputFormat {
	case FormatJSON, FormatXML, FormatXLSX:
	default:
		return fmt.Errorf("output_format must be json, xml or xlsx, got %q", config.OutputFormat)
	}

	switch strings.ToLower(config.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", config.LogFormat)
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}
	if config.HTTP.UploadMaxSize < 0 {
		return fmt.Errorf("http.upload_max_size must not be negative")
	}

	for _, pattern := range config.FilePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("bad file pattern %q: %w", pattern, err)
		}
	}

	for i, ext := range config.HTTP.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		config.HTTP.AllowedExtensions[i] = ext
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
