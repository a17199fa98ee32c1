// Package commands implements CLI command handlers for importgroups.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importgroups/internal/config"
	"github.com/Sumatoshi-tech/importgroups/pkg/annotate"
	"github.com/Sumatoshi-tech/importgroups/pkg/observability"
	"github.com/Sumatoshi-tech/importgroups/pkg/report"
	"github.com/Sumatoshi-tech/importgroups/pkg/runner"
	"github.com/Sumatoshi-tech/importgroups/pkg/version"
	"github.com/Sumatoshi-tech/importgroups/pkg/workspace"
)

const (
	annotateCmdUse   = "annotate [path]"
	annotateCmdShort = "Insert category headers above import groups"
	annotateCmdLong  = `Walk a source tree and insert a comment header above every group of
import statements at the top of each TypeScript file. Groups are labelled by
the module specifier of their first import: Styles, Parent Relative, Local
Relative, Project Aliases, or Framework and Third-Party.

Files that already carry headers are left untouched, so the command can be
run repeatedly.`
)

// ErrChangesNeeded is returned by --check when at least one file would change.
var ErrChangesNeeded = errors.New("import groups are not annotated")

// ErrConflictingFlags is returned when mutually exclusive flags are combined.
var ErrConflictingFlags = errors.New("conflicting flags")

type fsOpener func(root string) (workspace.FileSystem, error)

// AnnotateCommand holds flags and dependencies of the annotate command.
type AnnotateCommand struct {
	configPath   string
	extensions   []string
	ignoreDirs   []string
	aliases      []string
	dryRun       bool
	check        bool
	format       string
	noColor      bool
	skipVendored bool
	logLevel     string
	logJSON      bool
	verbose      bool
	quiet        bool
	metricsFile  string
	otlpEndpoint string

	openFS fsOpener
}

// NewAnnotateCommand creates the annotate command.
func NewAnnotateCommand() *cobra.Command {
	return newAnnotateCommandWithDeps(openOSFS)
}

func openOSFS(root string) (workspace.FileSystem, error) {
	return workspace.NewOSFS(root)
}

func newAnnotateCommandWithDeps(openFS fsOpener) *cobra.Command {
	ac := &AnnotateCommand{openFS: openFS}

	cmd := &cobra.Command{
		Use:   annotateCmdUse,
		Short: annotateCmdShort,
		Long:  annotateCmdLong,
		Args:  cobra.MaximumNArgs(1),
		RunE:  ac.run,
	}

	cmd.Flags().StringVarP(&ac.configPath, "config", "c", "", "Config file (default: .importgroups.yaml in CWD or $HOME)")
	cmd.Flags().StringSliceVar(&ac.extensions, "ext", nil, "File extensions to annotate (example: .ts,.tsx)")
	cmd.Flags().StringSliceVar(&ac.ignoreDirs, "ignore", nil, "Directory names to skip anywhere in the tree")
	cmd.Flags().StringSliceVar(&ac.aliases, "alias", nil, "Project alias prefixes (example: @lib,@components)")
	cmd.Flags().BoolVarP(&ac.dryRun, "dry-run", "n", false, "Print a diff of every change without writing files")
	cmd.Flags().BoolVar(&ac.check, "check", false, "Exit with an error when any file would change")
	cmd.Flags().StringVarP(&ac.format, "format", "f", "", "Summary format: text, table, json, yaml, plot")
	cmd.Flags().BoolVar(&ac.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&ac.skipVendored, "skip-vendored", false, "Skip paths recognized as vendored code")
	cmd.Flags().StringVar(&ac.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&ac.logJSON, "log-json", false, "Emit logs as JSON")
	cmd.Flags().BoolVarP(&ac.verbose, "verbose", "v", false, "Log every processed file")
	cmd.Flags().BoolVarP(&ac.quiet, "quiet", "q", false, "Only log errors")
	cmd.Flags().StringVar(&ac.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().StringVar(&ac.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for traces and metrics")

	return cmd
}

func (ac *AnnotateCommand) run(cmd *cobra.Command, args []string) (err error) {
	if ac.dryRun && ac.check {
		return fmt.Errorf("%w: --dry-run and --check", ErrConflictingFlags)
	}

	if ac.verbose && ac.quiet {
		return fmt.Errorf("%w: --verbose and --quiet", ErrConflictingFlags)
	}

	cfg, err := config.LoadConfig(ac.configPath)
	if err != nil {
		return err
	}

	ac.applyFlags(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}

	root := cfg.Root
	if len(args) > 0 {
		root = args[0]
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	classifier, err := annotate.NewClassifier(cfg.Aliases)
	if err != nil {
		return err
	}

	providers, err := ac.initObservability(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.WithoutCancel(cmd.Context())))
	}()

	fsys, err := ac.openFS(root)
	if err != nil {
		return err
	}

	metrics, err := observability.NewRunMetrics(providers.Meter)
	if err != nil {
		return err
	}

	eligibility := workspace.NewEligibility(cfg.Extensions, cfg.IgnoreDirs)
	eligibility.SkipVendored = cfg.SkipVendored

	r := runner.New(fsys, runner.Options{
		Root:        root,
		Eligibility: eligibility,
		Classifier:  classifier,
		DryRun:      ac.dryRun || ac.check,
		Logger:      providers.Logger,
		Tracer:      providers.Tracer,
		Metrics:     metrics,
	})

	summary, err := r.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("annotate %s: %w", root, err)
	}

	err = report.Write(cmd.OutOrStdout(), summary, report.Options{
		Format: format,
		Color:  useColor(cfg.Output.Color, ac.noColor, cmd.OutOrStdout()),
		Diffs:  ac.dryRun,
	})
	if err != nil {
		return err
	}

	if ac.check && summary.Changed > 0 {
		return fmt.Errorf("%w: %d files would change", ErrChangesNeeded, summary.Changed)
	}

	return nil
}

// applyFlags overrides config values with explicitly set flags.
func (ac *AnnotateCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("ext") {
		cfg.Extensions = ac.extensions
	}

	if flags.Changed("ignore") {
		cfg.IgnoreDirs = ac.ignoreDirs
	}

	if flags.Changed("alias") {
		cfg.Aliases = ac.aliases
	}

	if flags.Changed("format") {
		cfg.Output.Format = ac.format
	}

	if flags.Changed("skip-vendored") {
		cfg.SkipVendored = ac.skipVendored
	}

	if flags.Changed("log-level") {
		cfg.Observability.LogLevel = ac.logLevel
	}

	if flags.Changed("log-json") {
		cfg.Observability.LogJSON = ac.logJSON
	}

	if flags.Changed("metrics-file") {
		cfg.Observability.MetricsFile = ac.metricsFile
	}

	if flags.Changed("otlp-endpoint") {
		cfg.Observability.OTLPEndpoint = ac.otlpEndpoint
	}

	switch {
	case ac.verbose:
		cfg.Observability.LogLevel = "debug"
	case ac.quiet:
		cfg.Observability.LogLevel = "error"
	}
}

func (ac *AnnotateCommand) initObservability(logOutput io.Writer, cfg *config.Config) (observability.Providers, error) {
	level, err := observability.ParseLogLevel(cfg.Observability.LogLevel)
	if err != nil {
		return observability.Providers{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = ac.mode()
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Observability.LogJSON
	obsCfg.LogOutput = logOutput
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.MetricsFile = cfg.Observability.MetricsFile

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	slog.SetDefault(providers.Logger)

	return providers, nil
}

func (ac *AnnotateCommand) mode() observability.AppMode {
	switch {
	case ac.check:
		return observability.ModeCheck
	case ac.dryRun:
		return observability.ModeDryRun
	default:
		return observability.ModeWrite
	}
}

// useColor resolves the configured color mode. "auto" colors only a terminal
// stdout.
func useColor(mode string, noColor bool, w io.Writer) bool {
	if noColor {
		return false
	}

	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(*os.File)

	return ok && f == os.Stdout && !color.NoColor
}
