package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 2

// DiffLine is one line of a line-level diff.
type DiffLine struct {
	Op   diffmatchpatch.Operation
	Text string
}

// LineDiff computes a line-level diff between before and after.
func LineDiff(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine

	for _, d := range diffs {
		for _, line := range splitKeepingLast(d.Text) {
			out = append(out, DiffLine{Op: d.Type, Text: line})
		}
	}

	return out
}

// splitKeepingLast splits text into lines; a missing final newline still
// yields a last line.
func splitKeepingLast(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// WriteDiff prints the changes of one file with a few lines of context.
// Unchanged stretches longer than the context are collapsed to "@@".
func WriteDiff(w io.Writer, path, before, after string, useColor bool) error {
	lines := LineDiff(before, after)

	added := newColor(useColor, color.FgGreen)
	removed := newColor(useColor, color.FgRed)
	meta := newColor(useColor, color.FgCyan)
	bold := newColor(useColor, color.Bold)

	var b strings.Builder

	bold.Fprintf(&b, "--- a/%s\n", path)
	bold.Fprintf(&b, "+++ b/%s\n", path)

	skipped := false

	for i, line := range lines {
		switch line.Op {
		case diffmatchpatch.DiffInsert:
			added.Fprintf(&b, "+%s\n", line.Text)
		case diffmatchpatch.DiffDelete:
			removed.Fprintf(&b, "-%s\n", line.Text)
		case diffmatchpatch.DiffEqual:
			if !nearChange(lines, i) {
				if !skipped {
					meta.Fprintln(&b, "@@")

					skipped = true
				}

				continue
			}

			fmt.Fprintf(&b, " %s\n", line.Text)
		}

		skipped = false
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write diff for %s: %w", path, err)
	}

	return nil
}

func nearChange(lines []DiffLine, idx int) bool {
	lo := max(idx-diffContext, 0)
	hi := min(idx+diffContext, len(lines)-1)

	for j := lo; j <= hi; j++ {
		if lines[j].Op != diffmatchpatch.DiffEqual {
			return true
		}
	}

	return false
}
