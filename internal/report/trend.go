package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"finreport/internal/core"
)

// TrendFile is the fixed artifact name of the weekly trend chart.
const TrendFile = "weekly_expense_report.png"

// TrendAssembler renders the dark-themed trailing-week expense line:
// seven zero-filled daily totals with point annotations and a dashed
// threshold reference line.
type TrendAssembler struct {
	Rows      []core.DailyTotal
	Start     time.Time
	Threshold decimal.Decimal
	Dir       string
}

func (t *TrendAssembler) Build() (string, error) {
	if len(t.Rows) == 0 {
		return "", ErrNoData
	}

	labels, totals := core.ZeroFillDaily(t.Rows, t.Start, 7)

	xs := make([]float64, len(labels))
	ys := make([]float64, len(labels))
	ticks := make([]chart.Tick, len(labels))
	annotations := make([]chart.Value2, len(labels))
	maxY := t.Threshold.InexactFloat64()
	for i := range labels {
		xs[i] = float64(i)
		ys[i] = totals[i].InexactFloat64()
		ticks[i] = chart.Tick{Value: float64(i), Label: labels[i]}
		annotations[i] = chart.Value2{
			XValue: float64(i),
			YValue: ys[i],
			Label:  fmt.Sprintf("%.2f", ys[i]),
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	var (
		background = drawing.ColorBlack
		foreground = drawing.ColorWhite
		cyan       = drawing.ColorFromHex("00FFFF")
		red        = drawing.ColorFromHex("FF0000")
		gridGray   = drawing.ColorFromHex("808080")
	)

	threshold := t.Threshold.InexactFloat64()
	graph := chart.Chart{
		Title:      "Weekly Expense Report (Last 7 Days)",
		TitleStyle: chart.Style{FontColor: foreground},
		Width:      2000,
		Height:     1000,
		DPI:        chartDPI,
		Background: chart.Style{FillColor: background},
		Canvas:     chart.Style{FillColor: background},
		XAxis: chart.XAxis{
			Name:      "Date",
			NameStyle: chart.Style{FontColor: foreground},
			Style:     chart.Style{FontColor: foreground, StrokeColor: foreground},
			Ticks:     ticks,
			GridMajorStyle: chart.Style{
				StrokeColor:     gridGray,
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 4},
			},
		},
		YAxis: chart.YAxis{
			Name:      "Expense Amount (in currency)",
			NameStyle: chart.Style{FontColor: foreground},
			Style:     chart.Style{FontColor: foreground, StrokeColor: foreground},
			Range:     &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
			GridMajorStyle: chart.Style{
				StrokeColor:     gridGray,
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 4},
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Daily Expense",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: cyan,
					StrokeWidth: 2,
					DotColor:    cyan,
					DotWidth:    4,
				},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Threshold (%s)", t.Threshold),
				XValues: []float64{0, float64(len(labels) - 1)},
				YValues: []float64{threshold, threshold},
				Style: chart.Style{
					StrokeColor:     red,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5, 5},
				},
			},
			chart.AnnotationSeries{
				Annotations: annotations,
				Style: chart.Style{
					FontColor:   foreground,
					FillColor:   background,
					StrokeColor: cyan,
					StrokeWidth: 1,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FillColor:   background,
			FontColor:   foreground,
			StrokeColor: foreground,
		}),
	}

	path := filepath.Join(t.Dir, TrendFile)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("render trend chart: %w", err)
	}
	return path, nil
}
