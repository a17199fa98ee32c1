package runner_test

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/importgroups/pkg/annotate"
	"github.com/Sumatoshi-tech/importgroups/pkg/runner"
	"github.com/Sumatoshi-tech/importgroups/pkg/workspace"
)

var (
	defaultExtensions = []string{".ts", ".tsx"}
	defaultIgnoreDirs = []string{".git", "node_modules", ".next", "out", "build"}
)

const (
	pageSource = "\"use client\";\n\nimport React from 'react';\n\nimport { Button } from '@components/button';\nimport styles from './page.module.css';\n\nexport default function Page() {}\n"
	utilSource = "export const add = (a: number, b: number) => a + b;\n"
)

func newRunner(fsys workspace.FileSystem, dryRun bool) *runner.Runner {
	return runner.New(fsys, runner.Options{
		Root:        ".",
		Eligibility: workspace.NewEligibility(defaultExtensions, defaultIgnoreDirs),
		DryRun:      dryRun,
	})
}

func TestRun_AnnotatesEligibleFiles(t *testing.T) {
	t.Parallel()

	mem := workspace.NewMemFS(map[string]string{
		"app/page.tsx":               pageSource,
		"lib/util.ts":                utilSource,
		"app/legacy.js":              pageSource,
		"node_modules/react/x.ts":    pageSource,
		"packages/ui/build/index.ts": pageSource,
	})

	summary, err := newRunner(mem, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Scanned)
	assert.Equal(t, 1, summary.Changed)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 1, summary.Categories[annotate.CategoryThirdParty.String()])
	assert.Equal(t, 1, summary.Categories[annotate.CategoryProjectAliases.String()])
	assert.Equal(t, int64(len(mem.Content("app/page.tsx"))), summary.BytesWritten)

	require.Len(t, summary.Files, 2)
	assert.Equal(t, "app/page.tsx", summary.Files[0].Path)
	assert.Equal(t, runner.StatusUpdated, summary.Files[0].Status)
	assert.Equal(t, "lib/util.ts", summary.Files[1].Path)
	assert.Equal(t, runner.StatusNoImports, summary.Files[1].Status)

	page := mem.Content("app/page.tsx")
	assert.True(t, strings.HasPrefix(page, "\"use client\";\n\n"+annotate.HeaderDelimiter))
	assert.Contains(t, page, " * Project Aliases\n")
	assert.Equal(t, utilSource, mem.Content("lib/util.ts"))
	assert.Zero(t, mem.Writes("lib/util.ts"))
}

func TestRun_NonEligibleFilesAreNeverTouched(t *testing.T) {
	t.Parallel()

	ignored := []string{
		"app/legacy.js",
		"node_modules/react/index.ts",
		".next/server/page.tsx",
		"out/index.ts",
		"build/index.ts",
		".git/hooks/x.ts",
		"styles/global.css",
	}

	files := map[string]string{"app/page.tsx": pageSource}
	for _, name := range ignored {
		files[name] = pageSource
	}

	mem := workspace.NewMemFS(files)

	_, err := newRunner(mem, false).Run(context.Background())
	require.NoError(t, err)

	for _, name := range ignored {
		assert.Zero(t, mem.Reads(name), name)
		assert.Zero(t, mem.Writes(name), name)
		assert.Equal(t, pageSource, mem.Content(name), name)
	}
}

func TestRun_SecondPassChangesNothing(t *testing.T) {
	t.Parallel()

	mem := workspace.NewMemFS(map[string]string{
		"a.ts":       "import a from 'a';\n\nimport b from './b';\n",
		"b/c.tsx":    pageSource,
		"b/d.ts":     "'use server'\n\nimport { db } from '@lib/db';\n",
		"b/e/f.tsx":  "import './f.scss';\nexport {};\n",
		"g/plain.ts": utilSource,
	})

	first, err := newRunner(mem, false).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.Changed)

	writes := mem.TotalWrites()

	second, err := newRunner(mem, false).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, second.Changed)
	assert.Equal(t, writes, mem.TotalWrites())

	for _, fr := range second.Files {
		assert.False(t, fr.Changed(), fr.Path)
	}

	assert.Equal(t, 4, second.CountByStatus()[runner.StatusAlreadyAnnotated])
}

func TestRun_FileAccessErrorsAreNotFatal(t *testing.T) {
	t.Parallel()

	mem := workspace.NewMemFS(map[string]string{
		"a.ts": pageSource,
		"b.ts": pageSource,
		"c.ts": pageSource,
	})
	mem.FailRead("a.ts", fs.ErrPermission)
	mem.FailWrite("b.ts", fs.ErrPermission)

	summary, err := newRunner(mem, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)

	var accessErr *workspace.FileAccessError

	require.ErrorAs(t, summary.Errors[0], &accessErr)
	assert.Equal(t, workspace.OpRead, accessErr.Op)
	assert.Equal(t, "a.ts", accessErr.Path)
	assert.ErrorIs(t, accessErr, fs.ErrPermission)

	require.ErrorAs(t, summary.Errors[1], &accessErr)
	assert.Equal(t, workspace.OpWrite, accessErr.Op)
	assert.Equal(t, "b.ts", accessErr.Path)

	assert.Equal(t, runner.StatusFailed, summary.Files[1].Status)
	assert.Equal(t, "write b.ts: permission denied", summary.Files[1].Error)
	assert.Empty(t, summary.Files[1].Groups)
	assert.Equal(t, 1, summary.Categories[annotate.CategoryProjectAliases.String()])
}

func TestRun_DryRunKeepsContentAndWritesNothing(t *testing.T) {
	t.Parallel()

	mem := workspace.NewMemFS(map[string]string{"app/page.tsx": pageSource})

	summary, err := newRunner(mem, true).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Changed)
	assert.Zero(t, summary.BytesWritten)
	assert.Zero(t, mem.TotalWrites())
	assert.Equal(t, pageSource, mem.Content("app/page.tsx"))

	changed := summary.ChangedFiles()
	require.Len(t, changed, 1)
	assert.Equal(t, pageSource, changed[0].Before)
	assert.Contains(t, changed[0].After, annotate.HeaderDelimiter)
}

func TestRun_BinaryFilesAreSkipped(t *testing.T) {
	t.Parallel()

	mem := workspace.NewMemFS(map[string]string{"blob.ts": "import a from 'a';\x00"})

	summary, err := newRunner(mem, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, runner.StatusSkippedBinary, summary.Files[0].Status)
	assert.Zero(t, mem.TotalWrites())
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	mem := workspace.NewMemFS(map[string]string{"a.ts": pageSource})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newRunner(mem, false).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Zero(t, summary.Scanned)
	assert.Zero(t, mem.TotalWrites())
}

func TestRun_LogsFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	mem := workspace.NewMemFS(map[string]string{"a.ts": pageSource})
	mem.FailRead("a.ts", fs.ErrPermission)

	r := runner.New(mem, runner.Options{
		Eligibility: workspace.NewEligibility(defaultExtensions, nil),
		Logger:      slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "file not annotated")
	assert.Contains(t, buf.String(), "path=a.ts")
}

func TestAnnotateFile(t *testing.T) {
	t.Parallel()

	mem := workspace.NewMemFS(map[string]string{"a.ts": pageSource, "b.ts": utilSource})
	mem.FailRead("c.ts", fs.ErrNotExist)

	r := newRunner(mem, false)
	ctx := context.Background()

	changed, err := r.AnnotateFile(ctx, "a.ts")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = r.AnnotateFile(ctx, "a.ts")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = r.AnnotateFile(ctx, "b.ts")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = r.AnnotateFile(ctx, "c.ts")

	var accessErr *workspace.FileAccessError
	require.ErrorAs(t, err, &accessErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRun_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		return path
	}

	pagePath := write("app/page.tsx", pageSource)
	jsPath := write("app/page.js", pageSource)
	modulePath := write("node_modules/pkg/index.ts", pageSource)

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	for _, path := range []string{jsPath, modulePath} {
		require.NoError(t, os.Chtimes(path, past, past))
	}

	osfs, err := workspace.NewOSFS(dir)
	require.NoError(t, err)

	summary, err := newRunner(osfs, false).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Changed)

	data, err := os.ReadFile(pagePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), annotate.HeaderDelimiter)

	for _, path := range []string{jsPath, modulePath} {
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.True(t, info.ModTime().Equal(past), path)
	}
}

func TestRun_RecordsSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	mem := workspace.NewMemFS(map[string]string{"a.ts": pageSource, "b.ts": utilSource})

	r := runner.New(mem, runner.Options{
		Root:        "web",
		Eligibility: workspace.NewEligibility(defaultExtensions, nil),
		Tracer:      tp.Tracer("test"),
	})

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	names := make([]string, 0, len(spans))
	for _, span := range spans {
		names = append(names, span.Name())
	}

	assert.Equal(t, []string{"importgroups.file", "importgroups.file", "importgroups.run"}, names)
	assert.Equal(t, spans[2].SpanContext().TraceID(), spans[0].Parent().TraceID())
}
