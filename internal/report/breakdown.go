package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"finreport/internal/core"
)

// BreakdownFile is the fixed artifact name of the weekly breakdown chart.
const BreakdownFile = "expense_last_7_days.png"

// BreakdownAssembler renders the trailing-week category breakdown: a
// donut with the grand total in its hole, next to a table of category,
// total and share-of-total rows tinted to match the wedges.
type BreakdownAssembler struct {
	Totals []core.CategoryTotal
	Dir    string
}

func (b *BreakdownAssembler) Build() (string, error) {
	if len(b.Totals) == 0 {
		return "", ErrNoData
	}

	grand, shares := core.Percentages(b.Totals)

	donut, err := b.renderDonut()
	if err != nil {
		return "", err
	}
	center, err := b.renderCenterLabel(grand.InexactFloat64())
	if err != nil {
		return "", err
	}
	donut, err = overlay(donut, center)
	if err != nil {
		return "", err
	}

	table, err := b.renderTable(shares)
	if err != nil {
		return "", err
	}

	combined, err := compositeHorizontal(drawing.ColorWhite, donut, table)
	if err != nil {
		return "", err
	}

	path := filepath.Join(b.Dir, BreakdownFile)
	if err := writeArtifact(path, combined); err != nil {
		return "", err
	}
	return path, nil
}

const (
	donutSize   = 700
	tableWidth  = 700
	tableRowH   = 48
	tableMargin = 40
)

func (b *BreakdownAssembler) renderDonut() ([]byte, error) {
	values := make([]chart.Value, len(b.Totals))
	for i, ct := range b.Totals {
		values[i] = chart.Value{
			Value: ct.Amount.InexactFloat64(),
			// Labels live in the adjacent table; wedges stay unlabeled.
			Label: "",
			Style: chart.Style{
				FillColor:   paletteColor(i),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		}
	}

	donut := chart.DonutChart{
		Title:  "Expenses in the Last 7 Days",
		Width:  donutSize,
		Height: donutSize,
		Values: values,
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render donut: %w", err)
	}
	return buf.Bytes(), nil
}

// renderCenterLabel draws the grand total and a "Total" sublabel on a
// transparent canvas the size of the donut, to be overlaid on its hole.
func (b *BreakdownAssembler) renderCenterLabel(grand float64) ([]byte, error) {
	r, err := chart.PNG(donutSize, donutSize)
	if err != nil {
		return nil, fmt.Errorf("create center label renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	r.SetFont(font)

	total := humanize.CommafWithDigits(grand, 0)
	r.SetFontSize(36)
	r.SetFontColor(drawing.ColorBlack)
	box := r.MeasureText(total)
	r.Text(total, (donutSize-box.Width())/2, donutSize/2)

	r.SetFontSize(18)
	r.SetFontColor(drawing.ColorFromHex("808080"))
	sub := "Total"
	box = r.MeasureText(sub)
	r.Text(sub, (donutSize-box.Width())/2, donutSize/2+36)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("save center label: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *BreakdownAssembler) renderTable(shares []decimal.Decimal) ([]byte, error) {
	height := tableMargin*2 + tableRowH*(len(b.Totals)+1)
	r, err := chart.PNG(tableWidth, height)
	if err != nil {
		return nil, fmt.Errorf("create table renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	r.SetFont(font)
	r.SetFontSize(18)

	fillRect(r, 0, 0, tableWidth, height, drawing.ColorWhite)

	const (
		swatchX  = 30
		labelX   = 70
		totalX   = 460
		percentX = 640
		swatch   = 18
	)

	y := tableMargin + tableRowH

	// Header row on a light gray band.
	fillRect(r, 0, y-tableRowH+12, tableWidth, tableRowH, drawing.ColorFromHex("F2F2F2"))
	r.SetFontColor(drawing.ColorBlack)
	r.Text("Category", labelX, y)
	rightAlign(r, "Total", totalX, y)
	rightAlign(r, "%", percentX, y)
	y += tableRowH

	for i, ct := range b.Totals {
		fillRect(r, swatchX, y-swatch, swatch, swatch, paletteColor(i))
		r.SetFontColor(drawing.ColorBlack)
		r.Text(ct.Category, labelX, y)
		rightAlign(r, humanize.CommafWithDigits(ct.Amount.InexactFloat64(), 0), totalX, y)
		rightAlign(r, fmt.Sprintf("%.1f%%", shares[i].InexactFloat64()), percentX, y)
		y += tableRowH
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("save table: %w", err)
	}
	return buf.Bytes(), nil
}

func rightAlign(r chart.Renderer, text string, x, y int) {
	box := r.MeasureText(text)
	r.Text(text, x-box.Width(), y)
}
