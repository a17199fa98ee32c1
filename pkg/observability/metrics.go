package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal   = "importgroups.files.total"
	metricGroupsTotal  = "importgroups.groups.total"
	metricErrorsTotal  = "importgroups.errors.total"
	metricFileDuration = "importgroups.file.duration.seconds"
	metricBytesWritten = "importgroups.bytes.written"

	attrStatus   = "status"
	attrCategory = "category"
	attrOp       = "op"
)

// fileDurationBoundaries covers 10us to 1s; files are planned in memory.
var fileDurationBoundaries = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 1}

// RunMetrics holds the instruments recorded while annotating a tree.
type RunMetrics struct {
	filesTotal   metric.Int64Counter
	groupsTotal  metric.Int64Counter
	errorsTotal  metric.Int64Counter
	bytesWritten metric.Int64Counter
	fileDuration metric.Float64Histogram
}

// NewRunMetrics creates the run instruments from mt.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Eligible files processed, by status"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	groups, err := mt.Int64Counter(metricGroupsTotal,
		metric.WithDescription("Import groups annotated, by category"),
		metric.WithUnit("{group}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricGroupsTotal, err)
	}

	errs, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("File access errors, by operation"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	written, err := mt.Int64Counter(metricBytesWritten,
		metric.WithDescription("Bytes written back to annotated files"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBytesWritten, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Time spent on a single file"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(fileDurationBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &RunMetrics{
		filesTotal:   files,
		groupsTotal:  groups,
		errorsTotal:  errs,
		bytesWritten: written,
		fileDuration: duration,
	}, nil
}

// RecordFile records one processed file with its final status.
func (rm *RunMetrics) RecordFile(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))

	rm.filesTotal.Add(ctx, 1, attrs)
	rm.fileDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGroup records one annotated import group.
func (rm *RunMetrics) RecordGroup(ctx context.Context, category string) {
	rm.groupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrCategory, category)))
}

// RecordWrite records bytes written back to disk.
func (rm *RunMetrics) RecordWrite(ctx context.Context, n int) {
	rm.bytesWritten.Add(ctx, int64(n))
}

// RecordError records a failed file operation.
func (rm *RunMetrics) RecordError(ctx context.Context, op string) {
	rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
}
