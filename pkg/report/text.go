package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/importgroups/pkg/runner"
)

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}

// WriteText prints the headline, followed by a warning line when some files
// could not be read or written.
func WriteText(w io.Writer, s *runner.Summary, useColor bool) error {
	headline := newColor(useColor, color.FgGreen)
	if s.Changed == 0 {
		headline = newColor(useColor, color.Faint)
	}

	_, err := headline.Fprintln(w, Headline(s))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if s.Failed == 0 {
		return nil
	}

	noun := "files"
	if s.Failed == 1 {
		noun = "file"
	}

	_, err = newColor(useColor, color.FgYellow).Fprintf(w,
		"Skipped %s %s that could not be read or written.\n", humanize.Comma(int64(s.Failed)), noun)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
