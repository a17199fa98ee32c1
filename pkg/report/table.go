package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/importgroups/pkg/annotate"
	"github.com/Sumatoshi-tech/importgroups/pkg/runner"
)

// WriteTable prints one row per changed or failed file, a category table and
// the headline.
func WriteTable(w io.Writer, s *runner.Summary) error {
	files := table.NewWriter()
	files.SetStyle(table.StyleLight)
	files.AppendHeader(table.Row{"File", "Status", "Groups", "Categories"})

	shown := 0

	for _, fr := range s.Files {
		if fr.Status != runner.StatusUpdated && fr.Status != runner.StatusFailed {
			continue
		}

		detail := groupCategories(fr.Groups)
		if fr.Status == runner.StatusFailed {
			detail = fr.Error
		}

		files.AppendRow(table.Row{fr.Path, fr.Status, len(fr.Groups), detail})

		shown++
	}

	files.AppendFooter(table.Row{
		"Scanned " + humanize.Comma(int64(s.Scanned)),
		"Changed " + humanize.Comma(int64(s.Changed)),
		"",
		"Written " + humanize.Bytes(uint64(max(s.BytesWritten, 0))),
	})

	categories := table.NewWriter()
	categories.SetStyle(table.StyleLight)
	categories.AppendHeader(table.Row{"Category", "Groups"})

	total := 0

	for _, c := range annotate.Categories() {
		n := s.Categories[c.String()]
		total += n

		categories.AppendRow(table.Row{c.String(), humanize.Comma(int64(n))})
	}

	categories.AppendFooter(table.Row{"Total", humanize.Comma(int64(total))})

	var b strings.Builder

	if shown > 0 {
		b.WriteString(files.Render())
		b.WriteString("\n\n")
	}

	b.WriteString(categories.Render())
	b.WriteString("\n\n")
	b.WriteString(Headline(s))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

func groupCategories(groups []runner.GroupInfo) string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Category)
	}

	return strings.Join(names, ", ")
}
