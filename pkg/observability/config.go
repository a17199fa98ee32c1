// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for importgroups runs.
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies how the annotator was launched.
type AppMode string

const (
	// ModeWrite rewrites files in place.
	ModeWrite AppMode = "write"
	// ModeDryRun plans changes without writing them.
	ModeDryRun AppMode = "dry-run"
	// ModeCheck plans changes and fails when any file would change.
	ModeCheck AppMode = "check"
)

const (
	defaultServiceName        = "importgroups"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// MetricsFile, when set, receives the run's metrics in Prometheus text
	// format on shutdown.
	MetricsFile string

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// LogOutput is where logs go. Nil means stderr.
	LogOutput io.Writer

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeWrite,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
