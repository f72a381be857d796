package report

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"finreport/internal/core"
)

func testAggregate(t *testing.T, schema core.Schema) *core.MonthlyAggregate {
	t.Helper()
	txs := []core.Transaction{
		{ID: 1, Type: core.Income, Category: "salary", Amount: decimal.NewFromInt(5000), CreatedAt: "2024-01-05 10:00:00"},
		{ID: 2, Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(1200), CreatedAt: "2024-01-10 12:00:00"},
		{ID: 3, Type: core.Expense, Category: "rent", Amount: decimal.NewFromInt(50000), CreatedAt: "2024-01-15 09:00:00", IsOutlier: true},
		{ID: 4, Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(300), CreatedAt: "2024-02-02 09:00:00"},
	}
	agg, err := core.Aggregate(txs, schema)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	return agg
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	if err != nil {
		t.Fatalf("read %s!%s: %v", sheet, ref, err)
	}
	return v
}

func TestWorkbookBuild(t *testing.T) {
	w := &WorkbookAssembler{
		Aggregate: testAggregate(t, core.SchemaFull),
		Schema:    core.SchemaFull,
		Dir:       t.TempDir(),
		Now:       time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC),
	}

	path, err := w.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	want := []string{"Summary", "202401", "202402"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", got, want)
		}
	}

	if v := cell(t, f, "Summary", "A1"); v != "Month" {
		t.Fatalf("A1 = %q", v)
	}
	if v := cell(t, f, "Summary", "D1"); v != "Expense (Outlier)" {
		t.Fatalf("D1 = %q", v)
	}
	if v := cell(t, f, "Summary", "A2"); v != "202401" {
		t.Fatalf("A2 = %q", v)
	}
	if v := cell(t, f, "Summary", "B2"); v != "5000" {
		t.Fatalf("january income = %q", v)
	}
	if v := cell(t, f, "Summary", "C2"); v != "1200" {
		t.Fatalf("january clean expense = %q", v)
	}
	if v := cell(t, f, "Summary", "D2"); v != "50000" {
		t.Fatalf("january outlier expense = %q", v)
	}
	if v := cell(t, f, "Summary", "C3"); v != "300" {
		t.Fatalf("february clean expense = %q", v)
	}
}

func TestWorkbookMonthSheet(t *testing.T) {
	w := &WorkbookAssembler{
		Aggregate: testAggregate(t, core.SchemaFull),
		Schema:    core.SchemaFull,
		Dir:       t.TempDir(),
		Now:       time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC),
	}

	path, err := w.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	headers := core.SchemaFull.Headers()
	for i, h := range headers {
		ref, _ := excelize.CoordinatesToCellName(i+1, 1)
		if v := cell(t, f, "202401", ref); v != h {
			t.Fatalf("header %s = %q, want %q", ref, v, h)
		}
	}

	// Three january records on rows 2-4, row 5 empty.
	if v := cell(t, f, "202401", "A2"); v != "1" {
		t.Fatalf("first record id = %q", v)
	}
	if v := cell(t, f, "202401", "A5"); v != "" {
		t.Fatalf("row 5 should be empty, got %q", v)
	}

	// Side table feeds the pie chart: headers at J2/K2, categories below.
	if v := cell(t, f, "202401", "J2"); v != "Category" {
		t.Fatalf("side table header = %q", v)
	}
	if v := cell(t, f, "202401", "J3"); v != "food" {
		t.Fatalf("side table category = %q", v)
	}
	if v := cell(t, f, "202401", "K3"); v != "1200" {
		t.Fatalf("side table amount = %q", v)
	}
	// The outlier must not appear among the categories.
	if v := cell(t, f, "202401", "J4"); v != "" {
		t.Fatalf("outlier leaked into side table: %q", v)
	}
}

func TestWorkbookReducedSchemaSummary(t *testing.T) {
	w := &WorkbookAssembler{
		Aggregate: testAggregate(t, core.SchemaV1),
		Schema:    core.SchemaV1,
		Dir:       t.TempDir(),
		Now:       time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC),
	}

	path, err := w.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if v := cell(t, f, "Summary", "C1"); v != "Expense" {
		t.Fatalf("C1 = %q", v)
	}
	if v := cell(t, f, "Summary", "D1"); v != "" {
		t.Fatalf("reduced schema has three columns, D1 = %q", v)
	}
	// Without the outlier flag every expense counts as clean.
	if v := cell(t, f, "Summary", "C2"); v != "51200" {
		t.Fatalf("january expense = %q", v)
	}
}

func TestWorkbookNoData(t *testing.T) {
	agg, err := core.Aggregate(nil, core.SchemaFull)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	w := &WorkbookAssembler{Aggregate: agg, Schema: core.SchemaFull, Dir: t.TempDir(), Now: time.Now()}

	if _, err := w.Build(); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
