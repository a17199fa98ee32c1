package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Config is the top-level configuration struct for importgroups.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Root          string              `mapstructure:"root"`
	Extensions    []string            `mapstructure:"extensions"`
	IgnoreDirs    []string            `mapstructure:"ignore_dirs"`
	Aliases       []string            `mapstructure:"aliases"`
	SkipVendored  bool                `mapstructure:"skip_vendored"`
	Output        OutputConfig        `mapstructure:"output"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// OutputConfig controls how the run summary is printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

// ObservabilityConfig holds logging, tracing and metrics settings.
type ObservabilityConfig struct {
	LogLevel     string `mapstructure:"log_level"`
	LogJSON      bool   `mapstructure:"log_json"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string `mapstructure:"otlp_headers"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	MetricsFile  string `mapstructure:"metrics_file"`
}

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatPlot  = "plot"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	validFormats   = []string{FormatText, FormatTable, FormatJSON, FormatYAML, FormatPlot}
	validColors    = []string{ColorAuto, ColorAlways, ColorNever}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Sentinel errors for configuration validation.
var (
	// ErrNoExtensions indicates an empty extension allow-list.
	ErrNoExtensions = errors.New("extensions must not be empty")
	// ErrInvalidExtension indicates an extension without a leading dot.
	ErrInvalidExtension = errors.New("extensions must start with a dot")
	// ErrEmptyIgnoreDir indicates a blank entry in ignore_dirs.
	ErrEmptyIgnoreDir = errors.New("ignore_dirs entries must not be empty")
	// ErrEmptyAlias indicates a blank entry in aliases.
	ErrEmptyAlias = errors.New("aliases entries must not be empty")
	// ErrInvalidFormat indicates an unknown output.format.
	ErrInvalidFormat = errors.New("output.format is not supported")
	// ErrInvalidColor indicates an unknown output.color.
	ErrInvalidColor = errors.New("output.color must be auto, always or never")
	// ErrInvalidLogLevel indicates an unknown observability.log_level.
	ErrInvalidLogLevel = errors.New("observability.log_level is not supported")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	err := c.validateSelection()
	if err != nil {
		return err
	}

	return c.validateOutput()
}

func (c *Config) validateSelection() error {
	if len(c.Extensions) == 0 {
		return ErrNoExtensions
	}

	for _, ext := range c.Extensions {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	if slices.ContainsFunc(c.IgnoreDirs, isBlank) {
		return ErrEmptyIgnoreDir
	}

	if slices.ContainsFunc(c.Aliases, isBlank) {
		return ErrEmptyAlias
	}

	return nil
}

func (c *Config) validateOutput() error {
	if !slices.Contains(validFormats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	if !slices.Contains(validColors, strings.ToLower(c.Output.Color)) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Output.Color)
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.Observability.LogLevel)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Observability.LogLevel)
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
