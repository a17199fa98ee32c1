package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/importgroups/pkg/annotate"
	"github.com/Sumatoshi-tech/importgroups/pkg/runner"
)

const (
	plotTitle  = "Import groups by category"
	plotWidth  = "900px"
	plotHeight = "500px"
)

// categoryColors follows the Category order.
var categoryColors = []string{"#c678dd", "#e5c07b", "#98c379", "#61afef", "#56b6c2"}

// NewCategoryChart builds a bar chart of annotated groups per category.
func NewCategoryChart(s *runner.Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: plotTitle,
			Width:     plotWidth,
			Height:    plotHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    plotTitle,
			Subtitle: Headline(s),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Groups"}),
	)

	categories := annotate.Categories()
	labels := make([]string, 0, len(categories))
	data := make([]opts.BarData, 0, len(categories))

	for i, c := range categories {
		labels = append(labels, c.String())
		data = append(data, opts.BarData{
			Name:      c.String(),
			Value:     s.Categories[c.String()],
			ItemStyle: &opts.ItemStyle{Color: categoryColors[i%len(categoryColors)]},
		})
	}

	bar.SetXAxis(labels)
	bar.AddSeries("groups", data)

	return bar
}

// WritePlot renders the category chart as a standalone HTML page.
func WritePlot(w io.Writer, s *runner.Summary) error {
	err := NewCategoryChart(s).Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}
