package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"finreport/internal/core"
)

// WorkbookFile is the fixed artifact name of the monthly workbook.
const WorkbookFile = "transactions_report.xlsx"

// Color scale endpoints for the summary sheet: low values green, the
// median percentile yellow, high values red.
const (
	scaleLowColor  = "#63BE7B"
	scaleMidColor  = "#FFEB84"
	scaleHighColor = "#F8696B"
)

// WorkbookAssembler renders the all-time monthly report: a summary sheet
// with per-month totals, conditional color scales and an income/expense
// trend chart, plus one detail sheet per month with a category breakdown
// pie chart.
type WorkbookAssembler struct {
	Aggregate *core.MonthlyAggregate
	Schema    core.Schema
	Dir       string
	Now       time.Time
}

func (w *WorkbookAssembler) Build() (string, error) {
	if w.Aggregate.Empty() {
		return "", ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return "", fmt.Errorf("rename summary sheet: %w", err)
	}

	// Header style carries the border too: excelize styles replace each
	// other, so the bordered range must not repaint the header row after.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#ADD8E6"}, Pattern: 1},
		Border: thinBorder(),
	})
	if err != nil {
		return "", fmt.Errorf("create header style: %w", err)
	}

	months := w.Aggregate.Months()
	if err := w.writeSummary(f, summary, months, headerStyle); err != nil {
		return "", err
	}

	for _, month := range months {
		if err := w.writeMonthSheet(f, month, headerStyle); err != nil {
			return "", err
		}
	}

	if err := w.addTrendChart(f, summary, len(months)); err != nil {
		return "", err
	}

	index, err := f.GetSheetIndex(summary)
	if err != nil {
		return "", fmt.Errorf("summary sheet index: %w", err)
	}
	f.SetActiveSheet(index)

	path := filepath.Join(w.Dir, WorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func (w *WorkbookAssembler) summaryHeaders() []string {
	if w.Schema.HasOutlier {
		return []string{"Month", "Income", "Expense (Clean)", "Expense (Outlier)"}
	}
	return []string{"Month", "Income", "Expense"}
}

func (w *WorkbookAssembler) writeSummary(f *excelize.File, sheet string, months []core.MonthKey, headerStyle int) error {
	headers := w.summaryHeaders()
	widths := newColumnWidths(len(headers))

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
		widths.observe(i, h)
	}

	for rowIdx, month := range months {
		totals := w.Aggregate.Totals(month)
		row := []any{string(month), totals.Income.InexactFloat64(), totals.ExpenseClean.InexactFloat64()}
		if w.Schema.HasOutlier {
			row = append(row, totals.ExpenseOutlier.InexactFloat64())
		}
		for colIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write summary row: %w", err)
			}
			widths.observe(colIdx, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	dims := fmt.Sprintf("A1:%s%d", lastCol, len(months)+1)
	if err := f.AutoFilter(sheet, dims, nil); err != nil {
		return fmt.Errorf("summary auto filter: %w", err)
	}
	if err := addBorders(f, sheet, dims); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", lastCol), headerStyle); err != nil {
		return fmt.Errorf("summary header style: %w", err)
	}
	if err := widths.apply(f, sheet); err != nil {
		return err
	}

	return w.addColorScales(f, sheet, months, len(headers))
}

// addColorScales applies a three-color scale to each value column,
// bounded to rows at or before the current month so placeholder rows for
// future months do not skew the scale domain.
func (w *WorkbookAssembler) addColorScales(f *excelize.File, sheet string, months []core.MonthKey, columns int) error {
	current := core.MonthKeyOf(w.Now)
	lastRow := 0
	for i, month := range months {
		if month <= current {
			lastRow = i + 2
		}
	}
	if lastRow < 2 {
		return nil
	}

	scale := []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "min",
		MinColor: scaleLowColor,
		MidType:  "percentile",
		MidValue: "50",
		MidColor: scaleMidColor,
		MaxType:  "max",
		MaxColor: scaleHighColor,
	}}

	for col := 2; col <= columns; col++ {
		name, _ := excelize.ColumnNumberToName(col)
		ref := fmt.Sprintf("%s2:%s%d", name, name, lastRow)
		if err := f.SetConditionalFormat(sheet, ref, scale); err != nil {
			return fmt.Errorf("summary color scale %s: %w", ref, err)
		}
	}
	return nil
}

func (w *WorkbookAssembler) writeMonthSheet(f *excelize.File, month core.MonthKey, headerStyle int) error {
	sheet := string(month)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create month sheet %s: %w", sheet, err)
	}

	headers := w.Schema.Headers()
	widths := newColumnWidths(len(headers))
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write month header: %w", err)
		}
		widths.observe(i, h)
	}

	records := w.Aggregate.Records(month)
	for rowIdx, tx := range records {
		for colIdx, v := range w.Schema.Row(tx) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write month row: %w", err)
			}
			widths.observe(colIdx, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	dims := fmt.Sprintf("A1:%s%d", lastCol, len(records)+1)
	if err := f.AutoFilter(sheet, dims, nil); err != nil {
		return fmt.Errorf("month auto filter: %w", err)
	}
	if err := addBorders(f, sheet, dims); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", lastCol), headerStyle); err != nil {
		return fmt.Errorf("month header style: %w", err)
	}
	if err := widths.apply(f, sheet); err != nil {
		return err
	}

	return w.addPieChart(f, sheet, month)
}

// addPieChart writes the category/amount side table and the expense
// breakdown pie driven by it. Months with no non-outlier expenses get
// neither.
func (w *WorkbookAssembler) addPieChart(f *excelize.File, sheet string, month core.MonthKey) error {
	categories := w.Aggregate.Categories(month)
	if len(categories) == 0 {
		return nil
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}

	// Side table in columns J/K, headers on row 2.
	const startCol = 10
	catHeader, _ := excelize.CoordinatesToCellName(startCol, 2)
	amtHeader, _ := excelize.CoordinatesToCellName(startCol+1, 2)
	if err := f.SetCellValue(sheet, catHeader, "Category"); err != nil {
		return fmt.Errorf("write category header: %w", err)
	}
	if err := f.SetCellValue(sheet, amtHeader, "Amount"); err != nil {
		return fmt.Errorf("write amount header: %w", err)
	}
	if err := f.SetCellStyle(sheet, catHeader, amtHeader, boldStyle); err != nil {
		return fmt.Errorf("side table header style: %w", err)
	}

	for i, ct := range categories {
		catCell, _ := excelize.CoordinatesToCellName(startCol, i+3)
		amtCell, _ := excelize.CoordinatesToCellName(startCol+1, i+3)
		if err := f.SetCellValue(sheet, catCell, ct.Category); err != nil {
			return fmt.Errorf("write category cell: %w", err)
		}
		if err := f.SetCellValue(sheet, amtCell, ct.Amount.InexactFloat64()); err != nil {
			return fmt.Errorf("write amount cell: %w", err)
		}
	}

	lastRow := len(categories) + 2
	chart := &excelize.Chart{
		Type:  excelize.Pie,
		Title: []excelize.RichTextRun{{Text: "Expense Breakdown"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$K$2", sheet),
			Categories: fmt.Sprintf("'%s'!$J$3:$J$%d", sheet, lastRow),
			Values:     fmt.Sprintf("'%s'!$K$3:$K$%d", sheet, lastRow),
		}},
	}
	if err := f.AddChart(sheet, "L2", chart); err != nil {
		return fmt.Errorf("add pie chart: %w", err)
	}
	return nil
}

// addTrendChart attaches the income vs expense line chart to the summary
// sheet, plotting both series over the month keys.
func (w *WorkbookAssembler) addTrendChart(f *excelize.File, sheet string, monthCount int) error {
	lastRow := monthCount + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", sheet, lastRow)

	chart := &excelize.Chart{
		Type:  excelize.Line,
		Title: []excelize.RichTextRun{{Text: "Income vs Expense"}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Month"}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Amount"}}},
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", sheet),
				Categories: categories,
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, lastRow),
			},
			{
				Name:       fmt.Sprintf("%s!$C$1", sheet),
				Categories: categories,
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, lastRow),
			},
		},
	}
	if err := f.AddChart(sheet, "F2", chart); err != nil {
		return fmt.Errorf("add trend chart: %w", err)
	}
	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func addBorders(f *excelize.File, sheet, rangeRef string) error {
	style, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return fmt.Errorf("create border style: %w", err)
	}

	first, last, found := strings.Cut(rangeRef, ":")
	if !found {
		last = first
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("apply borders: %w", err)
	}
	return nil
}

// columnWidths tracks the longest literal value per column so columns can
// be sized to fit, matching the widest rendered string plus padding.
type columnWidths struct {
	max []int
}

func newColumnWidths(n int) *columnWidths {
	return &columnWidths{max: make([]int, n)}
}

func (c *columnWidths) observe(col int, v any) {
	length := len(fmt.Sprintf("%v", v))
	if length > c.max[col] {
		c.max[col] = length
	}
}

func (c *columnWidths) apply(f *excelize.File, sheet string) error {
	for i, width := range c.max {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(width+2)); err != nil {
			return fmt.Errorf("set column width %s: %w", name, err)
		}
	}
	return nil
}
