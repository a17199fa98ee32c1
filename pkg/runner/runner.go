// Package runner drives an annotation pass over a file tree: it walks the
// eligible files, plans each one, writes back the files that changed, and
// accumulates a Summary.
package runner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/importgroups/pkg/annotate"
	"github.com/Sumatoshi-tech/importgroups/pkg/observability"
	"github.com/Sumatoshi-tech/importgroups/pkg/textutil"
	"github.com/Sumatoshi-tech/importgroups/pkg/workspace"
)

// Options configures a Runner. Zero values of the optional fields disable
// the corresponding concern.
type Options struct {
	// Root is reported in the summary; the filesystem decides what is read.
	Root        string
	Eligibility workspace.Eligibility
	Classifier  *annotate.Classifier

	// DryRun plans every file without writing and keeps contents for diffs.
	DryRun bool

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.RunMetrics
}

// Runner annotates every eligible file of a FileSystem.
type Runner struct {
	fsys    workspace.FileSystem
	opts    Options
	planner *annotate.Planner
}

// New returns a Runner over fsys.
func New(fsys workspace.FileSystem, opts Options) *Runner {
	if opts.Classifier == nil {
		opts.Classifier = annotate.MustNewClassifier(annotate.DefaultAliases)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Runner{
		fsys:    fsys,
		opts:    opts,
		planner: annotate.NewPlanner(opts.Classifier),
	}
}

// Run processes every eligible file in lexical path order. Per-file failures
// are recorded in the summary and do not stop the run. The returned error is
// non-nil only when the walk itself fails (inaccessible root, cancellation);
// the summary then covers the files processed so far.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	ctx, span := r.opts.Tracer.Start(ctx, "importgroups.run",
		trace.WithAttributes(
			attribute.String("root", r.opts.Root),
			attribute.Bool("dry_run", r.opts.DryRun),
		))
	defer span.End()

	summary := newSummary(r.opts.Root, r.opts.DryRun)

	walker := workspace.Walker{
		Eligibility: r.opts.Eligibility,
		OnError: func(err *workspace.FileAccessError) {
			r.opts.Logger.WarnContext(ctx, "skipping unreadable directory", "path", err.Path, "error", err.Err)
			r.recordError(ctx, err.Op)
			summary.Errors = append(summary.Errors, err)
		},
	}

	err := walker.Walk(ctx, r.fsys, func(name string) error {
		summary.add(r.processFile(ctx, name))

		return nil
	})

	summary.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("files.scanned", summary.Scanned),
		attribute.Int("files.changed", summary.Changed),
		attribute.Int("files.failed", summary.Failed),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return summary, err
	}

	r.opts.Logger.InfoContext(ctx, "annotation pass complete",
		"scanned", summary.Scanned,
		"changed", summary.Changed,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	return summary, nil
}

// AnnotateFile plans and applies a single file and reports whether it
// changed. Read and write failures are returned as *workspace.FileAccessError.
func (r *Runner) AnnotateFile(ctx context.Context, name string) (bool, error) {
	fr := r.processFile(ctx, name)
	if fr.Err != nil {
		return false, fr.Err
	}

	return fr.Changed(), nil
}

func (r *Runner) processFile(ctx context.Context, name string) FileResult {
	start := time.Now()

	ctx, span := r.opts.Tracer.Start(ctx, "importgroups.file",
		trace.WithAttributes(attribute.String("path", name)))
	defer span.End()

	fr := r.planAndApply(ctx, name)

	span.SetAttributes(attribute.String("status", string(fr.Status)))

	if fr.Err != nil {
		span.RecordError(fr.Err)
		span.SetStatus(codes.Error, fr.Err.Error())
		r.opts.Logger.WarnContext(ctx, "file not annotated", "path", name, "error", fr.Err)
	} else {
		r.opts.Logger.DebugContext(ctx, "file processed", "path", name, "status", fr.Status, "groups", len(fr.Groups))
	}

	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordFile(ctx, string(fr.Status), time.Since(start))

		if fr.Changed() {
			for _, g := range fr.Groups {
				r.opts.Metrics.RecordGroup(ctx, g.Category)
			}

			r.opts.Metrics.RecordWrite(ctx, fr.BytesWritten)
		}
	}

	return fr
}

func (r *Runner) planAndApply(ctx context.Context, name string) FileResult {
	fr := FileResult{Path: name}

	data, err := r.fsys.ReadFile(name)
	if err != nil {
		return r.failed(ctx, fr, workspace.OpRead, err)
	}

	if textutil.IsBinary(data) {
		fr.Status = StatusSkippedBinary

		return fr
	}

	content := string(data)
	res := r.planner.Plan(content)

	fr.Status = statusOf(res.Outcome)
	fr.Groups = groupInfos(res.Groups)

	if !res.Changed() {
		return fr
	}

	if r.opts.DryRun {
		fr.Before = content
		fr.After = res.Content

		return fr
	}

	err = r.fsys.WriteFile(name, []byte(res.Content))
	if err != nil {
		return r.failed(ctx, fr, workspace.OpWrite, err)
	}

	fr.BytesWritten = len(res.Content)

	return fr
}

func (r *Runner) failed(ctx context.Context, fr FileResult, op string, err error) FileResult {
	accessErr := &workspace.FileAccessError{Op: op, Path: fr.Path, Err: unwrapPathError(err)}

	fr.Status = StatusFailed
	fr.Groups = nil
	fr.Err = accessErr
	fr.Error = accessErr.Error()

	r.recordError(ctx, op)

	return fr
}

func (r *Runner) recordError(ctx context.Context, op string) {
	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordError(ctx, op)
	}
}

// unwrapPathError drops the fs.PathError layer, whose path and op are
// already carried by FileAccessError.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}

	return err
}

func groupInfos(groups []annotate.Group) []GroupInfo {
	if len(groups) == 0 {
		return nil
	}

	infos := make([]GroupInfo, 0, len(groups))
	for _, g := range groups {
		infos = append(infos, GroupInfo{
			Category: g.Category.String(),
			Source:   g.Source,
			Lines:    len(g.Lines),
		})
	}

	return infos
}
