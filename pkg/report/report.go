// Package report renders the summary of an annotation pass.
package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/importgroups/pkg/runner"
)

// Format selects how a summary is rendered.
type Format string

// Output formats.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatPlot  Format = "plot"
)

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats returns every supported format name.
func Formats() []string {
	return []string{
		string(FormatText),
		string(FormatTable),
		string(FormatJSON),
		string(FormatYAML),
		string(FormatPlot),
	}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(Formats(), normalized) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}

	return Format(normalized), nil
}

// Options controls rendering.
type Options struct {
	Format Format
	Color  bool

	// Diffs prints a line diff for every changed file of a dry run before
	// the text summary.
	Diffs bool
}

// Write renders s to w.
func Write(w io.Writer, s *runner.Summary, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		if opts.Diffs {
			for _, fr := range s.ChangedFiles() {
				err := WriteDiff(w, fr.Path, fr.Before, fr.After, opts.Color)
				if err != nil {
					return err
				}
			}
		}

		return WriteText(w, s, opts.Color)
	case FormatTable:
		return WriteTable(w, s)
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	case FormatPlot:
		return WritePlot(w, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// Headline is the one-line outcome of a run.
func Headline(s *runner.Summary) string {
	verb := "Updated"
	if s.DryRun {
		verb = "Would update"
	}

	return fmt.Sprintf("%s %d files with import group comments.", verb, s.Changed)
}
