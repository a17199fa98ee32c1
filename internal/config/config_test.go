package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importgroups/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Root:       ".",
		Extensions: []string{".ts", ".tsx"},
		IgnoreDirs: []string{"node_modules"},
		Aliases:    []string{"@lib"},
		Output: config.OutputConfig{
			Format: config.FormatTable,
			Color:  config.ColorNever,
		},
		Observability: config.ObservabilityConfig{
			LogLevel: "debug",
		},
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".importgroups.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"no extensions", func(c *config.Config) { c.Extensions = nil }, config.ErrNoExtensions},
		{"extension without dot", func(c *config.Config) { c.Extensions = []string{"ts"} }, config.ErrInvalidExtension},
		{"bare dot", func(c *config.Config) { c.Extensions = []string{"."} }, config.ErrInvalidExtension},
		{"blank ignore dir", func(c *config.Config) { c.IgnoreDirs = []string{" "} }, config.ErrEmptyIgnoreDir},
		{"blank alias", func(c *config.Config) { c.Aliases = []string{""} }, config.ErrEmptyAlias},
		{"unknown format", func(c *config.Config) { c.Output.Format = "xml" }, config.ErrInvalidFormat},
		{"unknown color", func(c *config.Config) { c.Output.Color = "rainbow" }, config.ErrInvalidColor},
		{"unknown log level", func(c *config.Config) { c.Observability.LogLevel = "loud" }, config.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultRoot, cfg.Root)
	assert.Equal(t, config.DefaultExtensions(), cfg.Extensions)
	assert.Equal(t, config.DefaultIgnoreDirs(), cfg.IgnoreDirs)
	assert.Equal(t, config.DefaultAliases(), cfg.Aliases)
	assert.Equal(t, config.DefaultSkipVendored, cfg.SkipVendored)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultOutputColor, cfg.Output.Color)
	assert.Equal(t, config.DefaultLogLevel, cfg.Observability.LogLevel)
	assert.Empty(t, cfg.Observability.OTLPEndpoint)
	assert.Empty(t, cfg.Observability.MetricsFile)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `root: web
extensions: [".ts", ".tsx", ".mts"]
ignore_dirs: [node_modules, dist]
aliases: ["@app"]
skip_vendored: true
output:
  format: json
  color: never
observability:
  log_level: warn
  log_json: true
  metrics_file: /tmp/importgroups.prom
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "web", cfg.Root)
	assert.Equal(t, []string{".ts", ".tsx", ".mts"}, cfg.Extensions)
	assert.Equal(t, []string{"node_modules", "dist"}, cfg.IgnoreDirs)
	assert.Equal(t, []string{"@app"}, cfg.Aliases)
	assert.True(t, cfg.SkipVendored)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, config.ColorNever, cfg.Output.Color)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.LogJSON)
	assert.Equal(t, "/tmp/importgroups.prom", cfg.Observability.MetricsFile)
}

func TestLoadConfig_UnknownKey_FailsSchema(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "extentions: [\".ts\"]\n"))

	require.ErrorIs(t, err, config.ErrSchemaViolation)
	assert.Contains(t, err.Error(), "extentions")
}

func TestLoadConfig_WrongType_FailsSchema(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "output:\n  format: xml\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)

	_, err = config.LoadConfig(writeConfig(t, "skip_vendored: sometimes\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "extensions: [\n"))
	require.Error(t, err)
}

func TestLoadConfig_ExplicitEmptyExtensions_FailsValidation(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "extensions: []\n"))
	require.ErrorIs(t, err, config.ErrNoExtensions)
}

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel.
func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("IMPORTGROUPS_OUTPUT_FORMAT", "yaml")
	t.Setenv("IMPORTGROUPS_OBSERVABILITY_LOG_LEVEL", "error")
	t.Setenv("IMPORTGROUPS_EXTENSIONS", ".ts,.js")

	cfg, err := config.LoadConfig(writeConfig(t, "output:\n  format: table\n"))
	require.NoError(t, err)

	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.Equal(t, "error", cfg.Observability.LogLevel)
	assert.Equal(t, []string{".ts", ".js"}, cfg.Extensions)
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidateSettings(map[string]any{
		"extensions": []any{".ts"},
		"output":     map[string]any{"format": "plot"},
	}))

	err := config.ValidateSettings(map[string]any{"extensions": []any{"ts"}})
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}
