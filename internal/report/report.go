// Package report assembles the run artifacts: the monthly workbook and
// the three chart images. Each assembler writes one file under the
// configured directory and returns its path, or ErrNoData when the
// aggregation step produced nothing to draw.
package report

import (
	"errors"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData signals the "nothing to report" terminal state. Callers treat
// it as a clean exit, not a failure: no artifact is produced or sent.
var ErrNoData = errors.New("no data to report")

// Assembler produces one artifact file and returns its path.
type Assembler interface {
	Build() (string, error)
}

// Pastel palette shared by the chart variants. Categories keep the same
// color across the legend, wedges and table rows.
var palette = []drawing.Color{
	drawing.ColorFromHex("FFB3BA"),
	drawing.ColorFromHex("FFDFBA"),
	drawing.ColorFromHex("FFFFBA"),
	drawing.ColorFromHex("BAFFC9"),
	drawing.ColorFromHex("BAE1FF"),
	drawing.ColorFromHex("D7BAFF"),
	drawing.ColorFromHex("FFC6E5"),
	drawing.ColorFromHex("C6FFF3"),
}

func paletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

const chartDPI = 200
