package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"finreport/internal/core"
)

// CompareFile is the fixed artifact name of the month comparison chart.
const CompareFile = "expense_compare_month.png"

// CompareAssembler renders two day-aligned stacked-area expense plots,
// last month on the left and the current month on the right, sharing the
// y-range, palette and a legend strip on top.
type CompareAssembler struct {
	Window   core.CompareWindow
	ThisRows []core.DayCategoryTotal
	LastRows []core.DayCategoryTotal
	Dir      string
}

func (c *CompareAssembler) Build() (string, error) {
	if len(c.ThisRows) == 0 && len(c.LastRows) == 0 {
		return "", ErrNoData
	}

	thisSeries, thisNames := core.BuildCategorySeries(c.ThisRows, c.Window.Days)
	lastSeries, lastNames := core.BuildCategorySeries(c.LastRows, c.Window.Days)
	order := core.OrderCategories(thisSeries, lastSeries, thisNames, lastNames)

	thisStacked := stack(thisSeries, order, c.Window.Days)
	lastStacked := stack(lastSeries, order, c.Window.Days)

	maxY := 0.0
	for d := 0; d < c.Window.Days; d++ {
		if len(order) == 0 {
			break
		}
		if v := thisStacked[len(order)-1][d]; v > maxY {
			maxY = v
		}
		if v := lastStacked[len(order)-1][d]; v > maxY {
			maxY = v
		}
	}

	lastPanel, err := renderStackedPanel("Last Month", lastStacked, order, c.Window.Days, maxY, true)
	if err != nil {
		return "", err
	}
	thisPanel, err := renderStackedPanel("This Month", thisStacked, order, c.Window.Days, maxY, false)
	if err != nil {
		return "", err
	}

	legend, err := renderLegendStrip(2400, 80, order)
	if err != nil {
		return "", err
	}

	panels, err := compositeHorizontal(drawing.ColorWhite, lastPanel, thisPanel)
	if err != nil {
		return "", err
	}
	combined, err := compositeVertical(drawing.ColorWhite, legend, panels)
	if err != nil {
		return "", err
	}

	path := filepath.Join(c.Dir, CompareFile)
	if err := writeArtifact(path, combined); err != nil {
		return "", err
	}
	return path, nil
}

// stack converts per-category series into cumulative layers following the
// given category order, so layer i is the running sum of layers 0..i.
func stack(series map[string][]decimal.Decimal, order []string, days int) [][]float64 {
	layers := make([][]float64, len(order))
	running := make([]float64, days)
	for i, name := range order {
		layer := make([]float64, days)
		values := series[name]
		for d := 0; d < days; d++ {
			if values != nil {
				running[d] += values[d].InexactFloat64()
			}
			layer[d] = running[d]
		}
		layers[i] = layer
	}
	return layers
}

// renderStackedPanel draws cumulative layers top-down so each later fill
// paints over the lower region, leaving one visible band per category.
func renderStackedPanel(title string, layers [][]float64, order []string, days int, maxY float64, yLabel bool) ([]byte, error) {
	xs := make([]float64, days)
	for d := 0; d < days; d++ {
		xs[d] = float64(d + 1)
	}

	var series []chart.Series
	for i := len(order) - 1; i >= 0; i-- {
		color := paletteColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    order[i],
			XValues: xs,
			YValues: layers[i],
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 1,
				FillColor:   color.WithAlpha(230),
			},
		})
	}

	if maxY <= 0 {
		maxY = 1
	}
	maxX := float64(days)
	if maxX < 2 {
		maxX = 2
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1200,
		Height: 500,
		DPI:    chartDPI,
		XAxis: chart.XAxis{
			Name:  "Day",
			Range: &chart.ContinuousRange{Min: 1, Max: maxX},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.05},
		},
		Series: series,
	}
	if yLabel {
		graph.YAxis.Name = "Amount"
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s panel: %w", title, err)
	}
	return buf.Bytes(), nil
}
